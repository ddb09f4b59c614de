package http

import (
	"context"
	"net/http"
	"net/url"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/repowiki/pkg/domain/interfaces"
)

// config holds internal HTTP server configuration
type config struct {
	addr       string
	repoUC     interfaces.RepositoryUseCase
	wikiUC     interfaces.WikiUseCase
	chatUC     interfaces.ChatUseCase
	catalog    interfaces.ModelCatalog
	upstream   *url.URL
	authSecret []byte
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithRepositoryUseCase enables repository resolution and structure endpoints
func WithRepositoryUseCase(uc interfaces.RepositoryUseCase) Option {
	return func(c *config) {
		c.repoUC = uc
	}
}

// WithWikiUseCase enables wiki cache and export endpoints
func WithWikiUseCase(uc interfaces.WikiUseCase) Option {
	return func(c *config) {
		c.wikiUC = uc
	}
}

// WithChatUseCase enables the streaming chat endpoint
func WithChatUseCase(uc interfaces.ChatUseCase) Option {
	return func(c *config) {
		c.chatUC = uc
	}
}

// WithModelCatalog enables the model configuration endpoint
func WithModelCatalog(catalog interfaces.ModelCatalog) Option {
	return func(c *config) {
		c.catalog = catalog
	}
}

// WithUpstream forwards backend endpoints to another server instead of serving them
func WithUpstream(upstream *url.URL) Option {
	return func(c *config) {
		c.upstream = upstream
	}
}

// WithAuthSecret requires an HS256 signed JWT for wiki cache writes
func WithAuthSecret(secret []byte) Option {
	return func(c *config) {
		c.authSecret = secret
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, opts ...Option) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr: "localhost:8001",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)
	router.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)

	// Health check
	router.Get("/health", handleHealth)

	if cfg.repoUC != nil {
		repoHandler := NewRepositoryHandler(cfg.repoUC)
		router.Get("/api/featured_repos", handleFeaturedRepos)
		router.Post("/api/repo/resolve", repoHandler.Resolve)

		if cfg.upstream == nil {
			router.Get("/api/repo_structure", repoHandler.RemoteStructure)
			router.Get("/local_repo/structure", repoHandler.LocalStructure)
		}
	}

	if cfg.upstream != nil {
		mountProxy(ctx, router, cfg.upstream)
	} else {
		if cfg.wikiUC != nil {
			wikiHandler := NewWikiHandler(cfg.wikiUC)
			router.Get("/api/wiki_cache", wikiHandler.GetCache)
			router.Get("/api/processed_projects", wikiHandler.ListProjects)
			router.Post("/export/wiki", wikiHandler.Export)

			router.Group(func(r chi.Router) {
				if len(cfg.authSecret) > 0 {
					r.Use(AuthMiddleware(cfg.authSecret))
				}
				r.Post("/api/wiki_cache", wikiHandler.SaveCache)
				r.Delete("/api/wiki_cache", wikiHandler.DeleteCache)
			})
		}

		if cfg.chatUC != nil {
			router.Post("/chat/completions/stream", NewChatHandler(cfg.chatUC).Stream)
		}

		if cfg.catalog != nil {
			router.Get("/models/config", handleModelConfig(cfg.catalog))
		}
	}

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
