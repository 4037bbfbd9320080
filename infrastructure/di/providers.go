package di

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"nexusboard/infrastructure/config"
	"nexusboard/infrastructure/llm"
	"nexusboard/infrastructure/persistence/sqlite"
	"nexusboard/interfaces/http/rest"
	"nexusboard/interfaces/http/rest/handlers"
	"nexusboard/pkg/auth"
)

// devJWTSecret keeps local development working without configuration. The
// config validator refuses an empty secret in production.
const devJWTSecret = "nexusboard-dev-secret"

// ProvideLogger builds the process logger from the environment.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideDB opens and migrates the SQLite database.
func ProvideDB(cfg *config.Config) (*gorm.DB, error) {
	return sqlite.Open(cfg.DatabasePath)
}

// ProvideTokenService builds the JWT issuer/verifier.
func ProvideTokenService(cfg *config.Config) (*auth.TokenService, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		secret = devJWTSecret
	}
	return auth.NewTokenService(secret, cfg.JWTIssuer, cfg.TokenTTL)
}

// ProvideGenerator builds the LLM service behind the AI endpoints.
func ProvideGenerator(cfg *config.Config, logger *zap.Logger) handlers.Generator {
	return llm.NewService(cfg, logger)
}

func ProvideUserRepository(db *gorm.DB) *sqlite.UserRepository {
	return sqlite.NewUserRepository(db)
}

func ProvideProjectRepository(db *gorm.DB) *sqlite.ProjectRepository {
	return sqlite.NewProjectRepository(db)
}

func ProvideStateRepository(db *gorm.DB) *sqlite.StateRepository {
	return sqlite.NewStateRepository(db)
}

func ProvideFileRepository(db *gorm.DB) *sqlite.FileRepository {
	return sqlite.NewFileRepository(db)
}

func ProvidePostRepository(db *gorm.DB) *sqlite.PostRepository {
	return sqlite.NewPostRepository(db)
}

func ProvideAuthHandler(users *sqlite.UserRepository, tokens *auth.TokenService, logger *zap.Logger) *handlers.AuthHandler {
	return handlers.NewAuthHandler(users, tokens, logger)
}

func ProvideProjectHandler(projects *sqlite.ProjectRepository, logger *zap.Logger) *handlers.ProjectHandler {
	return handlers.NewProjectHandler(projects, logger)
}

func ProvideFileHandler(cfg *config.Config, files *sqlite.FileRepository, logger *zap.Logger) *handlers.FileHandler {
	return handlers.NewFileHandler(files, cfg.MaxUploadBytes, logger)
}

func ProvideStateHandler(states *sqlite.StateRepository, logger *zap.Logger) *handlers.StateHandler {
	return handlers.NewStateHandler(states, logger)
}

func ProvideAIHandler(generator handlers.Generator, logger *zap.Logger) *handlers.AIHandler {
	return handlers.NewAIHandler(generator, logger)
}

func ProvidePostHandler(posts *sqlite.PostRepository, users *sqlite.UserRepository, logger *zap.Logger) *handlers.PostHandler {
	return handlers.NewPostHandler(posts, users, logger)
}

func ProvideRouter(
	cfg *config.Config,
	tokens *auth.TokenService,
	authHandler *handlers.AuthHandler,
	projectHandler *handlers.ProjectHandler,
	fileHandler *handlers.FileHandler,
	stateHandler *handlers.StateHandler,
	aiHandler *handlers.AIHandler,
	postHandler *handlers.PostHandler,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(cfg, tokens, authHandler, projectHandler, fileHandler, stateHandler, aiHandler, postHandler, logger)
}
