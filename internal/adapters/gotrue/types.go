package gotrue

import (
	"time"

	"github.com/Voyago/voyago_backend/internal/core/domain"
)

// wireIdentity is one entry of the platform's per-provider identities array.
type wireIdentity struct {
	Provider  string     `json:"provider"`
	CreatedAt *time.Time `json:"created_at"`
}

// wireUser is the platform's user representation as returned by /user,
// /admin/users/{id} and inside token responses.
type wireUser struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at"`
	CreatedAt        time.Time      `json:"created_at"`
	LastSignInAt     *time.Time     `json:"last_sign_in_at"`
	AppMetadata      map[string]any `json:"app_metadata"`
	UserMetadata     map[string]any `json:"user_metadata"`
	Identities       []wireIdentity `json:"identities"`
}

func (u *wireUser) toDomain() *domain.Identity {
	if u == nil {
		return nil
	}
	ident := &domain.Identity{
		ID:               u.ID,
		Email:            u.Email,
		EmailConfirmedAt: u.EmailConfirmedAt,
		CreatedAt:        u.CreatedAt,
		LastSignInAt:     u.LastSignInAt,
		UserMetadata:     u.UserMetadata,
		AppMetadata:      u.AppMetadata,
	}
	if p, ok := u.AppMetadata["provider"].(string); ok {
		ident.Provider = domain.AuthProvider(p)
	}
	for _, entry := range u.Identities {
		if entry.Provider == string(ident.Provider) {
			ident.IdentityCreatedAt = entry.CreatedAt
			break
		}
	}
	return ident
}

// wireSession is the platform's token-endpoint response.
type wireSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int       `json:"expires_in"`
	User         *wireUser `json:"user"`
}

func (s *wireSession) toDomain() *domain.Session {
	return &domain.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(s.ExpiresIn) * time.Second),
		Identity:     s.User.toDomain(),
	}
}

// wireError is the platform's error body. Older and newer platform versions
// disagree on field names, so all spellings are kept.
type wireError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

func (e *wireError) text() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Message != "":
		return e.Message
	case e.ErrorDescription != "":
		return e.ErrorDescription
	}
	return "unknown platform error"
}
