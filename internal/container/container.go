package container

import (
	"log/slog"
	"net/http"

	"github.com/joshua-takyi/devnet/internal/config"
	"github.com/joshua-takyi/devnet/internal/helpers"
	"github.com/joshua-takyi/devnet/internal/models"
	"github.com/joshua-takyi/devnet/internal/services"
)

// Store is the persistence the services run on: the Mongo repo in
// production, the in-memory repo for STORE=memory and tests.
type Store interface {
	models.UserRepo
	models.ProfileRepo
	models.PostRepo
}

// Container holds all application dependencies
type Container struct {
	Logger         *slog.Logger
	Config         *config.Config
	Tokens         *helpers.TokenService
	UserService    *services.UserService
	ProfileService *services.ProfileService
	PostService    *services.PostService
}

// NewContainer creates a new dependency injection container
func NewContainer(logger *slog.Logger, cfg *config.Config, store Store) *Container {
	tokens := helpers.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	github := services.NewGithubService(cfg.Github, &http.Client{}, logger.With("component", "github"))

	return &Container{
		Logger:         logger,
		Config:         cfg,
		Tokens:         tokens,
		UserService:    services.NewUserService(store, tokens),
		ProfileService: services.NewProfileService(store, store, store, github),
		PostService:    services.NewPostService(store, store),
	}
}
