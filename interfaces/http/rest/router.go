// Package rest wires the companion backend's HTTP surface.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"nexusboard/infrastructure/config"
	"nexusboard/interfaces/http/rest/handlers"
	"nexusboard/interfaces/http/rest/middleware"
	"nexusboard/pkg/auth"
	"nexusboard/pkg/common"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg       *config.Config
	tokens    *auth.TokenService
	auth      *handlers.AuthHandler
	projects  *handlers.ProjectHandler
	files     *handlers.FileHandler
	state     *handlers.StateHandler
	ai        *handlers.AIHandler
	posts     *handlers.PostHandler
	aiLimiter *auth.SlidingWindowLimiter
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	tokens *auth.TokenService,
	authHandler *handlers.AuthHandler,
	projectHandler *handlers.ProjectHandler,
	fileHandler *handlers.FileHandler,
	stateHandler *handlers.StateHandler,
	aiHandler *handlers.AIHandler,
	postHandler *handlers.PostHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:       cfg,
		tokens:    tokens,
		auth:      authHandler,
		projects:  projectHandler,
		files:     fileHandler,
		state:     stateHandler,
		ai:        aiHandler,
		posts:     postHandler,
		aiLimiter: auth.NewUserRateLimiter(30),
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)

	// Public auth endpoints
	router.Post("/api/signup", rt.auth.Signup)
	router.Post("/api/login", rt.auth.Login)

	// Import and AI endpoints degrade to anonymous when no token is sent
	router.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuthenticate(rt.tokens))
		r.Use(middleware.RateLimit(rt.aiLimiter))

		r.Post("/import-file", rt.files.Import)
		r.Post("/autofill-info", rt.ai.Autofill)
		r.Post("/generate-notes", rt.ai.GenerateNotes)
		r.Post("/generate-study-guide", rt.ai.StudyGuide)
		r.Post("/generate-test", rt.ai.GenerateTest)
		r.Post("/ai-arrange", rt.ai.Arrange)
		r.Post("/api/ai-tools/execute", rt.ai.ExecuteTool)
	})

	// Snapshot persistence keeps optional auth so unauthenticated boards
	// still sync during local development
	router.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuthenticate(rt.tokens))

		r.Post("/api/project-state/save", rt.state.Save)
		r.Get("/api/project-state/load/{projectID}", rt.state.Load)
		r.Get("/api/files", rt.files.List)
		r.Get("/api/posts", rt.posts.List)
	})

	// Authenticated routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.tokens))

		r.Post("/api/projects", rt.projects.Create)
		r.Get("/api/projects", rt.projects.List)

		r.Post("/api/files", rt.files.Upload)
		r.Delete("/api/files/{fileID}", rt.files.Delete)

		r.Post("/api/posts", rt.posts.Create)
		r.Post("/api/posts/{postID}/like", rt.posts.Like)
		r.Get("/api/posts/{postID}/comments", rt.posts.ListComments)
		r.Post("/api/posts/{postID}/comments", rt.posts.AddComment)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	common.RespondSuccess(w, http.StatusOK, common.Payload{"status": "healthy"})
}
