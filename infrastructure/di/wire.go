//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"nexusboard/infrastructure/config"
	"nexusboard/interfaces/http/rest"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *gorm.DB
	Router *rest.Router
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDB,
	ProvideTokenService,
	ProvideGenerator,
	ProvideUserRepository,
	ProvideProjectRepository,
	ProvideStateRepository,
	ProvideFileRepository,
	ProvidePostRepository,
	ProvideAuthHandler,
	ProvideProjectHandler,
	ProvideFileHandler,
	ProvideStateHandler,
	ProvideAIHandler,
	ProvidePostHandler,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
