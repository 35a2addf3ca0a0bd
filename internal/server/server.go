// Package server exposes the remote checkpoint endpoint over HTTP.
//
// The surface is deliberately small: one GET and one POST on the account's
// mining progress, both behind bearer-token auth. The server never runs
// simulation logic - it stores and returns checkpoints wholesale, and the
// only write policy is the upsert's implicit last-write-wins.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/playforge/dinomine/internal/checkpoint"
)

// ctxAccount is the gin context key for the authenticated account.
const ctxAccount = "account"

// Server wires the checkpoint store into an HTTP handler.
type Server struct {
	store  *checkpoint.Store
	logger *slog.Logger
	router *gin.Engine
}

// New creates a Server over an opened checkpoint store.
func New(store *checkpoint.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		store:  store,
		logger: logger,
		router: router,
	}

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api", s.authMiddleware())
	api.GET("/mining/progress", s.handleGetProgress)
	api.POST("/mining/progress", s.handlePostProgress)

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until ctx is cancelled, then shuts it
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("checkpoint server listening", "addr", addr)

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down checkpoint server")
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// authMiddleware resolves "Authorization: Bearer <token>" to an account and
// stores it in the request context. Missing or unknown tokens get 401.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		acct, err := s.store.AccountByToken(c.Request.Context(), token)
		if errors.Is(err, checkpoint.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if err != nil {
			s.logger.Error("auth lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}

		c.Set(ctxAccount, acct)
		c.Next()
	}
}

// account retrieves the authenticated account set by authMiddleware.
func account(c *gin.Context) checkpoint.Account {
	return c.MustGet(ctxAccount).(checkpoint.Account)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
