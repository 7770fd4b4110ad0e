package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandeepkv93/pomo/internal/chat"
	"github.com/sandeepkv93/pomo/internal/jsonlog"
)

type Server struct {
	replier chat.Replier
	log     *jsonlog.Logger
	router  *gin.Engine
}

func NewServer(replier chat.Replier, logger *jsonlog.Logger) *Server {
	router := gin.New()
	s := &Server{
		replier: replier,
		log:     logger,
		router:  router,
	}

	router.Use(withRequestID(), accessLog(logger), gin.Recovery())
	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.POST("/safeplace", s.handleSafeplace)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server_listening", map[string]any{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server_stopped", nil)
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
