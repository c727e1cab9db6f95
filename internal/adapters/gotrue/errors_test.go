package gotrue

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPostSignupProfileCreationFailure(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  bool
	}{
		{
			name:  "exact signature",
			query: "error=server_error&error_code=unexpected_failure&error_description=Database+error+saving+new+user",
			want:  true,
		},
		{
			name:  "description with suffix detail",
			query: "error_code=unexpected_failure&error_description=Database+error+saving+new+user%3A+pq+duplicate+key",
			want:  true,
		},
		{
			name:  "wrong error code",
			query: "error_code=access_denied&error_description=Database+error+saving+new+user",
			want:  false,
		},
		{
			name:  "unrelated unexpected failure",
			query: "error_code=unexpected_failure&error_description=Something+else+broke",
			want:  false,
		},
		{
			name:  "no error params",
			query: "code=abc123",
			want:  false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params, err := url.ParseQuery(tc.query)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, IsPostSignupProfileCreationFailure(params))
		})
	}
}

func TestIsProfileCreationFailureError(t *testing.T) {
	assert.True(t, IsProfileCreationFailureError(&statusError{status: 500, body: "Database error saving new user"}))
	assert.False(t, IsProfileCreationFailureError(&statusError{status: 500, body: "timeout"}))
	assert.False(t, IsProfileCreationFailureError(nil))
}
