package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's ID in the Gin context.
const userIDKey = contextKey("userID")

// accessTokenKey holds the raw platform access token for the request. The
// registration services forward it to the identity platform verbatim, so it
// has to travel alongside the decoded user ID.
const accessTokenKey = contextKey("accessToken")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		userIDVal := c.Request.Context().Value(userIDKey)
		if userIDVal != nil {
			return userIDVal.(string), true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}

	return userID, true
}

// GetAccessTokenFromContext retrieves the raw bearer token from the Gin
// context. Requests authenticated via API token have none.
func GetAccessTokenFromContext(c *gin.Context) (string, bool) {
	tokenVal, exists := c.Get(string(accessTokenKey))
	if !exists {
		return "", false
	}
	token, ok := tokenVal.(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
