package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Start runs the REST API on the given port until the context is
// cancelled.
func Start(ctx context.Context, logger *slog.Logger, port string, handlers Handlers) error {
	router := chi.NewRouter()

	router.Get("/ping", handlers.Ping)
	router.Post("/auth/register", handlers.Register)
	router.Post("/auth/login", handlers.Login)
	router.Get("/users/{username}/stats", handlers.Stats)
	router.Get("/users/{username}/replays", handlers.Replays)
	router.Get("/replays/{id}", handlers.Replay)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down rest server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
