package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	logx "github.com/crewair/booking-assistant/pkg/logger"
)

type Config struct {
	Addr         string   `envconfig:"HTTP_ADDR" default:":8080"`
	AllowOrigins []string `envconfig:"HTTP_ALLOW_ORIGINS" default:"http://localhost:3000"`
}

// NewRouter attaches the chat API to a fresh gin engine.
func NewRouter(cfg Config, chat Chatter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowOrigins,
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	h := NewHandlers(chat)
	r.GET("/healthz", Health)

	v1 := r.Group("/v1")
	{
		v1.POST("/chat", h.Chat)
		v1.POST("/conversations", h.CreateConversation)
		v1.GET("/conversations/:id", h.GetConversation)
		v1.DELETE("/conversations/:id", h.DeleteConversation)
		v1.POST("/conversations/:id/messages", h.PostMessage)
	}
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logx.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}

// Serve runs the API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg Config, chat Chatter) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(cfg, chat),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", cfg.Addr).Msg("HTTP chat transport listening")
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
