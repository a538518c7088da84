package auth

import (
	"net/http"
	"strings"

	"github.com/Daniel-Kats256/simulations/internal/auth/domain"
	"github.com/Daniel-Kats256/simulations/internal/auth/service"
	"github.com/gin-gonic/gin"
)

const ctxPrincipal = "principal"

// Authenticate verifies the bearer token and attaches the resolved
// principal to the request context. Handlers behind it may call
// CurrentPrincipal without checking for presence.
func Authenticate(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Access token required"})
			c.Abort()
			return
		}

		principal, err := authService.VerifyToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			c.Abort()
			return
		}

		SetPrincipal(c, *principal)
		c.Next()
	}
}

// RequireRoles rejects requests whose principal role is not in the
// allowed set. The error body does not reveal which roles would pass.
func RequireRoles(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
			c.Abort()
			return
		}
		for _, role := range allowed {
			if p.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden: insufficient rights"})
		c.Abort()
	}
}

// SetPrincipal stores the principal in the Gin context. Exposed for
// handler tests that bypass token verification.
func SetPrincipal(c *gin.Context, p domain.Principal) {
	c.Set(ctxPrincipal, p)
}

// GetPrincipal extracts the principal set by Authenticate.
func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(ctxPrincipal)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}
