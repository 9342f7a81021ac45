package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/radityabs/ecommerce-api/internal/domain/entity"
	repo "github.com/radityabs/ecommerce-api/internal/domain/repository"
	"github.com/radityabs/ecommerce-api/pkg/helpers"
	"github.com/radityabs/ecommerce-api/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	ctxUserKey   = "user"
)

// Auth validates the session cookie and loads the authenticated user into
// the Gin context. Expired and malformed tokens produce distinct messages
// via the boundary normalizer.
func Auth(users repo.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookieName)
		if err != nil || token == "" {
			response.ErrWith(c, http.StatusUnauthorized, "Please log in to access this resource", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Err(c, err)
			c.Abort()
			return
		}
		u, err := users.GetByID(c.Request.Context(), claims.UserID, false)
		if err != nil {
			response.ErrWith(c, http.StatusUnauthorized, "Please log in to access this resource", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, u.ID)
		c.Set(ctxUserKey, u)
		c.Next()
	}
}

// CurrentUser returns the user loaded by Auth, or nil outside it.
func CurrentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*entity.User); ok {
			return u
		}
	}
	return nil
}

// RequireRoles restricts a route to the given roles. Runs after Auth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			response.ErrWith(c, http.StatusUnauthorized, "Please log in to access this resource", nil)
			c.Abort()
			return
		}
		for _, role := range roles {
			if u.Role == role {
				c.Next()
				return
			}
		}
		response.ErrWith(c, http.StatusForbidden, "Role: "+u.Role+" is not allowed to access this resource", nil)
		c.Abort()
	}
}
