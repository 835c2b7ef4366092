package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/example/product-catalog/services"
	"github.com/gin-gonic/gin"
)

// TokenActor is recorded in the audit trail for requests authenticated with the API token
const TokenActor = "api-token"

// AuthMiddleware validates the bearer token against the configured API token.
// An empty apiToken disables the check. Authenticated requests carry TokenActor as their audit actor.
func AuthMiddleware(apiToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiToken == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization header")
			return
		}

		if !validateToken(parts[1], apiToken) {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Request = c.Request.WithContext(services.WithActor(c.Request.Context(), TokenActor))
		c.Next()
	}
}

func validateToken(token, expected string) bool {
	return token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	abortWithError(c, http.StatusUnauthorized, message, "UNAUTHORIZED")
}
