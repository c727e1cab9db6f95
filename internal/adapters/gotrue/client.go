package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Voyago/voyago_backend/internal/apperrors"
	"github.com/Voyago/voyago_backend/internal/core/domain"
	portssvc "github.com/Voyago/voyago_backend/internal/core/ports/services"
	"github.com/Voyago/voyago_backend/internal/platform/config"
)

// Client is a thin REST client for the hosted identity platform's
// GoTrue-compatible auth API. It implements every platform-facing service
// port; the platform owns all credential, token and OAuth mechanics — this
// client only moves JSON.
type Client struct {
	baseURL        string
	anonKey        string
	serviceRoleKey string
	httpClient     *http.Client
	logger         *slog.Logger
}

// NewClient creates a platform client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.AuthBaseURL, "/"),
		anonKey:        cfg.AuthAnonKey,
		serviceRoleKey: cfg.AuthServiceRoleKey,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		logger:         logger,
	}
}

var (
	_ portssvc.SessionAccessorSvc = (*Client)(nil)
	_ portssvc.IdentityMetadataSvc = (*Client)(nil)
	_ portssvc.IdentityAdminSvc   = (*Client)(nil)
	_ portssvc.IDTokenSignInSvc   = (*Client)(nil)
)

// GetIdentity fetches the identity behind an access token. A 401/403 from
// the platform means "no usable session", which callers treat as the normal
// signed-out case, not an infrastructure failure.
func (c *Client) GetIdentity(ctx context.Context, accessToken string) (*domain.Identity, error) {
	if accessToken == "" {
		return nil, apperrors.ErrSessionUnavailable
	}
	var user wireUser
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		if isAuthStatus(err) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrSessionUnavailable, err)
		}
		return nil, err
	}
	return user.toDomain(), nil
}

// RefreshSession exchanges a refresh token for a fresh session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*domain.Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var session wireSession
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body, &session); err != nil {
		if isAuthStatus(err) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrSessionUnavailable, err)
		}
		return nil, err
	}
	return session.toDomain(), nil
}

// UpdateIdentityMetadata patches the free-form user metadata map.
func (c *Client) UpdateIdentityMetadata(ctx context.Context, accessToken string, metadata map[string]any) (*domain.Identity, error) {
	body := map[string]any{"data": metadata}
	var user wireUser
	if err := c.do(ctx, http.MethodPut, "/user", accessToken, body, &user); err != nil {
		return nil, err
	}
	return user.toDomain(), nil
}

// SignInWithIDToken signs a user in with a provider-issued, already-validated
// ID token. The platform creates the identity on first sign-in, which is also
// where its post-creation hook can fail and leave a partial signup behind.
func (c *Client) SignInWithIDToken(ctx context.Context, provider domain.AuthProvider, idToken string) (*domain.Session, error) {
	body := map[string]string{
		"provider": string(provider),
		"id_token": idToken,
	}
	var session wireSession
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=id_token", "", body, &session); err != nil {
		return nil, err
	}
	return session.toDomain(), nil
}

// AdminGetIdentity reads an identity with service-role credentials.
func (c *Client) AdminGetIdentity(ctx context.Context, identityID string) (*domain.Identity, error) {
	if c.serviceRoleKey == "" {
		return nil, fmt.Errorf("admin identity lookup requires a service role key")
	}
	var user wireUser
	path := "/admin/users/" + url.PathEscape(identityID)
	if err := c.doWithKey(ctx, http.MethodGet, path, c.serviceRoleKey, nil, &user); err != nil {
		return nil, err
	}
	return user.toDomain(), nil
}

// statusError carries the platform's HTTP status through error wrapping.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("identity platform returned %d: %s", e.status, e.body)
}

func isAuthStatus(err error) bool {
	se, ok := err.(*statusError)
	return ok && (se.status == http.StatusUnauthorized || se.status == http.StatusForbidden)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	if bearer == "" {
		bearer = c.anonKey
	}
	return c.doWithKey(ctx, method, path, bearer, body, out)
}

func (c *Client) doWithKey(ctx context.Context, method, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build platform request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity platform request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read platform response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var werr wireError
		if json.Unmarshal(raw, &werr) == nil {
			return &statusError{status: resp.StatusCode, body: werr.text()}
		}
		return &statusError{status: resp.StatusCode, body: string(raw)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode platform response: %w", err)
		}
	}
	return nil
}
