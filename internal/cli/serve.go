package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/folio-md/folio/internal/api"
	"github.com/folio-md/folio/internal/sse"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the read-oriented HTTP API over the document collection",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			proj, err := openProject(cmd)
			if err != nil {
				return err
			}
			cfg := proj.Config

			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: cfg.LogLevel,
			}))
			slog.SetDefault(logger)

			logger.Info("configuration loaded",
				slog.String("http_address", cfg.HTTP.Address()),
				slog.String("root", proj.Store.Root()),
				slog.Int("types", len(cfg.Types)))

			svc := api.NewService(proj, logger)
			if err := svc.Reload(ctx); err != nil {
				return fmt.Errorf("initial load: %w", err)
			}

			broker := sse.NewBroker()
			defer broker.Close()

			apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

			r := chi.NewRouter()
			r.Use(middleware.RequestID)
			r.Use(middleware.RealIP)
			r.Use(middleware.Logger)
			r.Use(middleware.Recoverer)

			// Health check endpoints (unauthenticated).
			r.Get("/health/live", healthHandler)
			r.Get("/health/ready", healthHandler)

			r.Mount("/api", apiRouter)

			httpServer := &http.Server{
				Addr:    cfg.HTTP.Address(),
				Handler: r,
			}

			ctx, stop := context.WithCancel(ctx)
			defer stop()

			g, gCtx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return api.Watch(gCtx, svc, proj.Store.Root(), logger, broker.PublishReload)
			})

			g.Go(func() error {
				logger.Info("starting HTTP server", slog.String("address", cfg.HTTP.Address()))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("HTTP server error: %w", err)
				}
				return nil
			})

			g.Go(func() error {
				quit := make(chan os.Signal, 1)
				signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

				select {
				case sig := <-quit:
					logger.Info("received shutdown signal", slog.String("signal", sig.String()))
				case <-gCtx.Done():
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
				}
				stop()
				return nil
			})

			if err := g.Wait(); err != nil {
				logger.Error("serve error", slog.String("error", err.Error()))
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
