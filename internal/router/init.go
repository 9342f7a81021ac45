package router

import (
	userapp "github.com/radityabs/ecommerce-api/internal/application"
	"github.com/radityabs/ecommerce-api/internal/container"
	repouser "github.com/radityabs/ecommerce-api/internal/domain/repository"
	pginfra "github.com/radityabs/ecommerce-api/internal/infrastructure/postgres"
	handlers "github.com/radityabs/ecommerce-api/internal/interface/http"
	"github.com/radityabs/ecommerce-api/internal/router/modules"
)

type userModuleDeps struct {
	Repo    repouser.UserRepository
	Service *userapp.Service
}

func buildDeps() userModuleDeps {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := userapp.NewService(
		repo,
		container.GetJWT(),
		container.GetMailgun(),
		container.GetRabbitPub(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESUsersIndex,
		cfg.ResetTokenTTL,
		cfg.MailSendEnabled,
	)
	return userModuleDeps{Repo: repo, Service: service}
}

// InitModules initializes all application modules and registers them with
// the router registry. Called once during startup.
func InitModules(r *Registry) {
	deps := buildDeps()
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	authHandler := handlers.NewAuthHandler(deps.Service, jwt, logger, cfg.CookieDomain, cfg.CookieSecure)
	userHandler := handlers.NewUserHandler(deps.Service, jwt, logger, cfg.CookieDomain, cfg.CookieSecure)
	adminHandler := handlers.NewAdminHandler(deps.Service, logger)

	r.Add(modules.NewAuthModule(authHandler, deps.Repo, jwt))
	r.Add(modules.NewUserModule(userHandler, deps.Repo, jwt))
	r.Add(modules.NewAdminModule(adminHandler, deps.Repo, jwt))
}
