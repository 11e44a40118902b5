package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-taxradio/internal/config"
	"github.com/goliatone/go-taxradio/internal/logging"
	"github.com/goliatone/go-taxradio/pkg/renderers/tui"
)

type app struct {
	envFile     string
	fixture     string
	dsn         string
	nonceSecret string
	verbose     bool

	cfg    config.Config
	logger *zap.Logger
	host   *runtimeHost
	prompt tui.PromptDriver
}

func newRootCmd() *cobra.Command {
	return rootCmd(&app{})
}

func rootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "taxradio",
		Short: "Single-selection taxonomy panels",
		Long: `taxradio renders the radio panel that replaces a CMS's multi-select term
picker. Terms and assignments come from a YAML/JSON fixture (--fixture) or a
Postgres database (--dsn). Settings also load from TAXRADIO_* variables and
an optional .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "Read settings from this .env file (default: ./.env when present)")
	root.PersistentFlags().StringVarP(&a.fixture, "fixture", "f", "", "Fixture file with taxonomies, terms and assignments (or TAXRADIO_FIXTURE)")
	root.PersistentFlags().StringVar(&a.dsn, "dsn", "", "Postgres DSN (or TAXRADIO_PG_DSN)")
	root.PersistentFlags().StringVar(&a.nonceSecret, "nonce-secret", "", "Secret used to sign nonces (or TAXRADIO_NONCE_SECRET)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newOptionsCmd(a))
	root.AddCommand(newPickCmd(a))
	root.AddCommand(newServeCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	var files []string
	if a.envFile != "" {
		files = append(files, a.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}
	if a.fixture != "" {
		cfg.Fixture = a.fixture
	}
	if a.dsn != "" {
		cfg.PostgresDSN = a.dsn
	}
	if a.nonceSecret != "" {
		cfg.NonceSecret = a.nonceSecret
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Production(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	h, err := openHost(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	a.host = h
	return nil
}

func (a *app) close() {
	if a.host != nil {
		if err := a.host.Close(); err != nil && a.logger != nil {
			a.logger.Warn("close host", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
