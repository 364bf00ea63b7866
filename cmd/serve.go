package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blogem/contact-importer/controllers"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		port   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the OAuth callback server",
		Long:  "Serve exposes /login, /callback, /health and the /imports snapshot routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd, dbPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if port == "" {
				port = a.cfg.Port
			}

			ctrl := controllers.NewControllers(a.services, a.repos, a.logger)
			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           controllers.NewRouter(ctrl, a.logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("contact importer starting", "port", port, "database", a.cfg.DBPath)
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

			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port; overrides PORT")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file for import snapshots; overrides DB_PATH")

	return cmd
}
