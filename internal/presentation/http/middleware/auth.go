package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/posdelivery-api/internal/domain/session"
	"github.com/sangkips/posdelivery-api/internal/presentation/http/dto/response"
)

// CleanupTokenHeader lets external schedulers trigger maintenance without a user token
const CleanupTokenHeader = "X-Cleanup-Token"

// SessionResolver turns an access token into a session
type SessionResolver interface {
	SessionFromToken(token string) (session.Session, error)
}

// AuthMiddleware requires a valid bearer token and attaches its session to
// the request context.
func AuthMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		sess, err := resolver.SessionFromToken(token)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		attach(c, sess)
		c.Next()
	}
}

// RequireRole creates a middleware that requires any of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := session.FromContext(c.Request.Context())
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, role := range roles {
			if sess.HasRole(role) {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}

// RequireAdmin is RequireRole(session.RoleAdmin)
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(session.RoleAdmin)
}

// AdminOrToken admits requests carrying the shared maintenance token, or
// else an admin bearer token. An empty token disables the header path.
func AdminOrToken(resolver SessionResolver, token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if given := c.GetHeader(CleanupTokenHeader); token != "" && given != "" {
			if subtle.ConstantTimeCompare([]byte(given), []byte(token)) == 1 {
				c.Next()
				return
			}
			response.Unauthorized(c, "Invalid cleanup token")
			c.Abort()
			return
		}

		bearer, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		sess, err := resolver.SessionFromToken(bearer)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}
		if !sess.IsAdmin() {
			response.Forbidden(c, "Insufficient role privileges")
			c.Abort()
			return
		}

		attach(c, sess)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func attach(c *gin.Context, sess session.Session) {
	c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), sess))
	c.Set("user_id", sess.UserID)
}
