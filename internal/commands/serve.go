package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatali-fataliyev/budget_assistant/api"
	"github.com/fatali-fataliyev/budget_assistant/internal/auth"
	"github.com/fatali-fataliyev/budget_assistant/logging"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(envFile *string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assistant over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, *envFile, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides APP_PORT)")

	return cmd
}

func runServe(ctx context.Context, envFile, port string) error {
	a, err := newApp(ctx, envFile)
	if err != nil {
		return err
	}
	defer a.Close()

	if port == "" {
		port = a.cfg.Port
	}
	verifier := auth.NewVerifier(a.cfg.APITokenHash)
	if !verifier.Enabled() {
		logging.Logger.Warn("API_TOKEN_HASH is not set, requests are not authenticated")
	}

	handler := api.NewApi(a.sessions, verifier, a.store.GetStorageType()).Handler()
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Logger.Infof("Starting server on port: %s", port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logging.Logger.Errorf("failed to start server: %v", err)
		return err
	case <-ctx.Done():
	}

	logging.Logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
