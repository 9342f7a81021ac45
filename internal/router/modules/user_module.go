package modules

import (
	"github.com/gin-gonic/gin"

	repouser "github.com/radityabs/ecommerce-api/internal/domain/repository"
	handlers "github.com/radityabs/ecommerce-api/internal/interface/http"
	"github.com/radityabs/ecommerce-api/internal/interface/middleware"
	"github.com/radityabs/ecommerce-api/pkg/helpers"
)

// UserModule wires the authenticated user's own routes.
// Protected: GET /me, PUT /me/update, PUT /password/update
type UserModule struct {
	Handler *handlers.UserHandler
	Repo    repouser.UserRepository
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, repo repouser.UserRepository, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, Repo: repo, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Repo, m.JWT))
	{
		auth.GET("/me", m.Handler.GetProfile)
		auth.PUT("/me/update", m.Handler.UpdateProfile)
		auth.PUT("/password/update", m.Handler.UpdatePassword)
	}
}
