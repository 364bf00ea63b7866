// Package cmd implements the contact-importer command line.
package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blogem/contact-importer/authenticator"
	"github.com/blogem/contact-importer/config"
	"github.com/blogem/contact-importer/contacts"
	"github.com/blogem/contact-importer/database"
	"github.com/blogem/contact-importer/logging"
	"github.com/blogem/contact-importer/repositories"
	"github.com/blogem/contact-importer/services"
)

type rootOptions struct {
	envFile  string
	logLevel string
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "contact-importer",
		Short:         "Google contacts importer",
		Long:          "Imports a user's Google contacts through the OAuth2 authorization-code flow and normalizes them to JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Env file to load before reading the environment")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error); overrides LOG_LEVEL")

	root.AddCommand(
		newAuthURLCmd(opts),
		newExchangeCmd(opts),
		newImportCmd(opts),
		newNormalizeCmd(opts),
		newServeCmd(opts),
	)

	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// app is the fully wired importer
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	provider authenticator.Provider
	importer *contacts.Importer
	db       *sql.DB
	repos    *repositories.Repositories
	services *services.Services
}

func (a *app) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newApp loads the configuration and wires every component.
// dbPath overrides DB_PATH when not empty.
func (o *rootOptions) newApp(cmd *cobra.Command, dbPath string) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	a := &app{
		cfg:    cfg,
		logger: logging.New(cmd.ErrOrStderr(), cfg.LogLevel),
	}

	authCfg := authenticator.Config{
		Credentials: cfg.Credentials(),
		AuthURL:     cfg.AuthURL,
		TokenURL:    cfg.TokenURL,
		Scope:       cfg.Scope,
		Timeout:     cfg.HTTPTimeout,
	}
	if cfg.Issuer != "" {
		if err := authenticator.DiscoverEndpoints(cmd.Context(), cfg.Issuer, &authCfg); err != nil {
			return nil, err
		}
		a.logger.Debug("discovered OAuth endpoints", "issuer", cfg.Issuer, "auth_url", authCfg.AuthURL)
	}

	provider, err := authenticator.NewGoogleProvider(authCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google provider: %w", err)
	}
	a.provider = provider

	a.importer, err = contacts.NewImporter(contacts.Config{
		FeedURL:      cfg.FeedURL,
		MaxResults:   cfg.MaxResults,
		GDataVersion: cfg.GDataVersion,
		Timeout:      cfg.HTTPTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize importer: %w", err)
	}

	if cfg.DBPath != "" {
		a.db, err = database.InitializeDatabase(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.repos = repositories.NewRepositories(a.db)
		a.logger.Debug("snapshot database ready", "path", cfg.DBPath)
	}

	a.services = services.NewServices(a.provider, a.importer, a.repos, a.logger)
	return a, nil
}
