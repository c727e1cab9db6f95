package gotrue

import (
	"errors"
	"net/url"
	"strings"
)

// The platform signals "identity created but the post-creation hook failed"
// by redirecting back with these exact values. This is a compatibility
// surface with the hosted platform's error text: porting to a different
// identity provider means replacing this predicate, nothing else.
const (
	callbackErrorCode        = "unexpected_failure"
	callbackErrorDescription = "Database error saving new user"
)

// IsPostSignupProfileCreationFailure reports whether a callback URL's
// query/fragment parameters carry the partial-signup failure signature.
// When it fires while a live session exists, signup recovery should run.
func IsPostSignupProfileCreationFailure(params url.Values) bool {
	if params.Get("error_code") != callbackErrorCode {
		return false
	}
	desc := params.Get("error_description")
	return strings.Contains(desc, callbackErrorDescription)
}

// IsProfileCreationFailureError reports whether a platform API error (for
// example from the id_token sign-in path) carries the same failure text. The
// session may still have been issued; callers should proceed with recovery
// rather than fail the sign-in.
func IsProfileCreationFailureError(err error) bool {
	if err == nil {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return strings.Contains(se.body, callbackErrorDescription)
	}
	return strings.Contains(err.Error(), callbackErrorDescription)
}
