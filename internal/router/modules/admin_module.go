package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/radityabs/ecommerce-api/internal/domain/entity"
	repouser "github.com/radityabs/ecommerce-api/internal/domain/repository"
	handlers "github.com/radityabs/ecommerce-api/internal/interface/http"
	"github.com/radityabs/ecommerce-api/internal/interface/middleware"
	"github.com/radityabs/ecommerce-api/pkg/helpers"
)

// AdminModule wires admin-only user administration routes under /admin.
type AdminModule struct {
	Handler *handlers.AdminHandler
	Repo    repouser.UserRepository
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, repo repouser.UserRepository, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, Repo: repo, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(m.Repo, m.JWT))
	admin.Use(middleware.RequireRoles(entity.RoleAdmin))
	{
		admin.GET("/users", m.Handler.ListUsers)
		admin.GET("/users/search", m.Handler.SearchUsers)
		admin.GET("/users/:id", m.Handler.GetUser)
		admin.PUT("/users/:id", m.Handler.UpdateRole)
		admin.DELETE("/users/:id", m.Handler.DeleteUser)
	}
}
