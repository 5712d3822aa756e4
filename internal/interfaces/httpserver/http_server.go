package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/janhq/chat-assistant/internal/config"
	"github.com/janhq/chat-assistant/internal/infrastructure"
	middleware "github.com/janhq/chat-assistant/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/routes/api"
)

const readinessTimeout = 3 * time.Second

type HTTPServer struct {
	engine   *gin.Engine
	infra    *infrastructure.Infrastructure
	apiRoute *api.APIRoute
	config   *config.Config
}

func NewHttpServer(
	apiRoute *api.APIRoute,
	infra *infrastructure.Infrastructure,
	cfg *config.Config,
) *HTTPServer {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	server := HTTPServer{
		gin.New(),
		infra,
		apiRoute,
		cfg,
	}
	server.engine.Use(gin.Recovery())
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(infra.Logger))
	server.engine.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	server.engine.Use(middleware.MetricsMiddleware())

	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	server.engine.GET("/readyz", server.readyz)
	server.engine.GET("/api/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":         config.Version,
			"env_reloaded_at": cfg.EnvReloadedAt.Format(time.RFC3339),
		})
	})

	server.apiRoute.RegisterRouter(server.engine)
	return &server
}

// readyz answers 503 while the store cannot be reached.
func (httpServer *HTTPServer) readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := httpServer.infra.Store.Ping(ctx); err != nil {
		httpServer.infra.Logger.Warn().Err(err).Str("driver", httpServer.infra.Store.Driver).Msg("readiness check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "store": httpServer.infra.Store.Driver})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "store": httpServer.infra.Store.Driver})
}

// Handler exposes the router, mainly for tests.
func (httpServer *HTTPServer) Handler() http.Handler {
	return httpServer.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully within SHUTDOWN_TIMEOUT.
func (httpServer *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", httpServer.config.HTTPPort),
		Handler:           httpServer.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		httpServer.infra.Logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpServer.config.ShutdownTimeout)
	defer cancel()
	httpServer.infra.Logger.Info().Msg("Shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}
