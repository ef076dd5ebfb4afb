package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/callenovena/comanda/internal/domain/model"
	pkgAuth "github.com/callenovena/comanda/internal/pkg/auth"
)

const (
	// RoleContextKey is a gin context key for the authenticated staff role.
	RoleContextKey = "role"
	authCookieName = "comanda_token"
)

// TokenParser validates session tokens and returns the role claim.
type TokenParser interface {
	ParseToken(token string) (model.Role, error)
}

// RoleRequired ensures the request carries a valid token for one of the
// allowed roles. Admin passes every role gate.
func RoleRequired(parser TokenParser, roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		role, err := parser.ParseToken(token)
		if err != nil {
			if err == pkgAuth.ErrInvalidToken {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		if !roleAllowed(role, roles) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set(RoleContextKey, role)
		c.Next()
	}
}

func roleAllowed(role model.Role, allowed []model.Role) bool {
	if len(allowed) == 0 || role == model.RoleAdmin {
		return true
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// ExtractToken pulls the session token from the Authorization header, the
// auth cookie, or the token query parameter, in that order.
func ExtractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil && cookie != "" {
		return cookie
	}

	// EventSource cannot set headers, so the stream endpoint accepts the
	// token as a query parameter.
	return c.Query("token")
}

// SetAuthCookie writes the session token cookie to the response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
