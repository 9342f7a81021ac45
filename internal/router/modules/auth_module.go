package modules

import (
	"github.com/gin-gonic/gin"

	repouser "github.com/radityabs/ecommerce-api/internal/domain/repository"
	handlers "github.com/radityabs/ecommerce-api/internal/interface/http"
	"github.com/radityabs/ecommerce-api/internal/interface/middleware"
	"github.com/radityabs/ecommerce-api/pkg/helpers"
)

// AuthModule wires the credential lifecycle routes.
// Public: register, login, forgot/reset password. Logout requires a session.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Repo    repouser.UserRepository
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, repo repouser.UserRepository, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, Repo: repo, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)
	rg.POST("/password/forgot", m.Handler.ForgotPassword)
	rg.PUT("/password/reset/:token", m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Repo, m.JWT))
	{
		auth.GET("/logout", m.Handler.Logout)
	}
}
