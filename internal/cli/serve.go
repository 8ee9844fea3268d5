package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"modelcfg/internal/config"
	"modelcfg/internal/httpapi"
)

const shutdownTimeout = 5 * time.Second

func (a *app) serveCmd() *cobra.Command {
	var (
		addr        string
		modelsDir   string
		corsOrigins string
	)
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP API",
		Example: "  modelcfg serve --addr :8080\n  modelcfg serve --config modelcfg.yaml --cors-origins https://ui.example",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Addr = addr
			}
			if cmd.Flags().Changed("models-dir") {
				a.cfg.ModelsDir = modelsDir
			}
			if origins := splitCSV(corsOrigins); len(origins) > 0 {
				a.cfg.CORS.Enabled = true
				a.cfg.CORS.Origins = origins
				a.cfg = a.cfg.WithDefaults()
			}
			// The daemon logs JSON lines instead of the console format.
			a.log = zerolog.New(a.err).Level(a.log.GetLevel()).With().Timestamp().Str("component", "modelcfg").Logger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address, e.g. :8080 (defaults "+config.EnvAddr+" or "+config.DefaultAddr+")")
	cmd.Flags().StringVar(&modelsDir, "models-dir", "", "Directory of extra model family descriptors")
	cmd.Flags().StringVar(&corsOrigins, "cors-origins", "", "Comma separated CORS origins; enables CORS")
	return cmd
}

// serve runs the HTTP server until ctx is canceled.
func (a *app) serve(ctx context.Context) error {
	svc, err := a.newService(ctx, true)
	if err != nil {
		return err
	}

	httpapi.SetLogger(a.log)
	httpapi.SetRequestLogLevel(a.cfg.LogLevel)
	httpapi.SetMaxBodyBytes(a.cfg.MaxBodyBytes)
	if a.cfg.CORS.Enabled {
		httpapi.SetCORS(&httpapi.CORS{Origins: a.cfg.CORS.Origins, Methods: a.cfg.CORS.Methods, Headers: a.cfg.CORS.Headers})
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           httpapi.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.cfg.Addr).Str("models_dir", a.cfg.ModelsDir).Msg("modelcfg listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown (Ctrl+C / SIGTERM)
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		a.log.Warn().Err(err).Msg("graceful shutdown error")
		return err
	}
	a.log.Info().Msg("modelcfg stopped")
	return nil
}
