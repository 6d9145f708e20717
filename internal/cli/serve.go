package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgallion1/sectree/internal/api"
	"github.com/dgallion1/sectree/internal/config"
	"github.com/dgallion1/sectree/internal/convert"
	"github.com/spf13/cobra"
)

func newServeCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion API",
		Long: `Serve POST /api/convert, GET /api/stats and GET /health.
Set SECTREE_API_KEY to require a Bearer token on the /api routes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			lvl, _ := config.ParseLevel(cfg.LogLevel, slog.LevelInfo)
			log := slog.New(slog.NewJSONHandler(cmd.OutOrStdout(), &slog.HandlerOptions{Level: lvl}))
			return serve(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "Port to listen on")
	return cmd
}

// serve runs the API until ctx is canceled, then drains in-flight requests.
func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	srv := api.NewServer(convert.New(cfg, log), log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}()

	log.Info("starting sectree", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
