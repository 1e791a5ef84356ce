// Package httpserver provides the HTTP REST API server for the news service.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/helixir/news-service/internal/database"
	"github.com/helixir/news-service/internal/domain"
	"github.com/helixir/news-service/internal/observability"
	"github.com/helixir/news-service/internal/service"
)

// ArticleService is the article API used by the handlers.
type ArticleService interface {
	List(ctx context.Context, raw url.Values) (domain.Page[domain.Article], error)
	Get(ctx context.Context, id int64) (*domain.Article, error)
	Create(ctx context.Context, in domain.NewArticle) (*domain.Article, error)
	UpdateVotes(ctx context.Context, id int64, upd domain.VoteUpdate) (*domain.Article, error)
	Delete(ctx context.Context, id int64) error
}

// CommentService is the comment API used by the handlers.
type CommentService interface {
	ListByArticle(ctx context.Context, articleID int64, raw url.Values) (domain.Page[domain.Comment], error)
	Create(ctx context.Context, articleID int64, in domain.NewComment) (*domain.Comment, error)
	UpdateVotes(ctx context.Context, id int64, upd domain.VoteUpdate) (*domain.Comment, error)
	Delete(ctx context.Context, id int64) error
}

// TopicService is the topic API used by the handlers.
type TopicService interface {
	List(ctx context.Context) ([]domain.Topic, error)
	Create(ctx context.Context, in domain.NewTopic) (*domain.Topic, error)
}

// UserService is the user API used by the handlers.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, username string) (*domain.User, error)
}

// HealthChecker reports database health for the probe endpoints.
type HealthChecker interface {
	Health(ctx context.Context) database.HealthStatus
}

// Server is the HTTP REST API server.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	articles   ArticleService
	comments   CommentService
	topics     TopicService
	users      UserService
	health     HealthChecker
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// RateLimit is requests per second across all clients. Zero disables limiting.
	RateLimit float64
	RateBurst int
}

// NewServer creates a new HTTP server over the service layer. metrics may be nil.
func NewServer(
	cfg Config,
	svcs *service.Services,
	health HealthChecker,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		articles: svcs.Articles,
		comments: svcs.Comments,
		topics:   svcs.Topics,
		users:    svcs.Users,
		health:   health,
		metrics:  metrics,
		logger:   observability.WithComponent(logger, "http-server"),
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(correlationIDMiddleware)
	r.Use(s.observeMiddleware)
	r.Use(jsonContentTypeMiddleware)

	r.Get("/healthz", s.healthHandler)
	r.Get("/readyz", s.readinessHandler)

	r.Route("/api", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.rateLimitMiddleware)
		}

		r.Get("/", s.getEndpoints)

		r.Get("/topics", s.listTopics)
		r.Post("/topics", s.createTopic)

		r.Get("/articles", s.listArticles)
		r.Post("/articles", s.createArticle)
		r.Get("/articles/{articleID}", s.getArticle)
		r.Patch("/articles/{articleID}", s.patchArticle)
		r.Delete("/articles/{articleID}", s.deleteArticle)
		r.Get("/articles/{articleID}/comments", s.listArticleComments)
		r.Post("/articles/{articleID}/comments", s.createArticleComment)

		r.Patch("/comments/{commentID}", s.patchComment)
		r.Delete("/comments/{commentID}", s.deleteComment)

		r.Get("/users", s.listUsers)
		r.Get("/users/{username}", s.getUser)
	})

	r.NotFound(urlNotFound)
	r.MethodNotAllowed(urlNotFound)

	return r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the router, for embedding the API in tests or other servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := s.health.Health(r.Context())
	if health.Status == "healthy" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": health.Status})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status":   "unhealthy",
		"database": health.Status,
		"error":    health.Error,
	})
}

// readinessHandler reports whether the service can take traffic.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	health := s.health.Health(r.Context())
	if health.Status != "healthy" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "not_ready",
			"database": health.Status,
			"error":    health.Error,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"database": "healthy",
	})
}

// urlNotFound answers every request that matches no route.
func urlNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "URL not found")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// Headers are already sent.
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Msg: message})
}
