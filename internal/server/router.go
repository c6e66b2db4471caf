package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the chart endpoints.
func NewRouter(h *ChartHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", Health)
	r.HEAD("/healthz", Health)

	r.GET("/", h.Index)
	r.GET("/echarts/:timeframe", h.Echarts)

	api := r.Group("/api")
	{
		api.GET("/chart", h.Figure)
		api.GET("/report", h.Report)
		api.GET("/view", h.View)
		api.POST("/view/:timeframe", h.Select)
		api.GET("/levels/:timeframe", h.Levels)
	}
	return r
}

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] http server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Println("[INFO] http server stopped")
	return nil
}
