package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rendis/pinpoint/internal/config"
	"github.com/rendis/pinpoint/internal/engine/geocoding"
	"github.com/rendis/pinpoint/internal/engine/lookup"
	"github.com/rendis/pinpoint/internal/tui"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "pinpoint",
		Short: "pinpoint - show an address on a map",
		Long: `pinpoint resolves a free-text address with a geocoding web service
and shows the result as a pin on a terminal map.

Run without a subcommand to open the interactive screen.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file path (optional, uses env vars by default)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format (json, console) (default: json)")

	root.AddCommand(newLookupCommand(flags))
	root.AddCommand(newVersionCommand())
	return root
}

// loadConfig reads the configuration and applies the log flags on top.
func (f *globalFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Logging.Format = f.logFormat
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command, flags *globalFlags) error {
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}

	logFile, err := config.OpenLogFile(cfg.Logging)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger := newLogger(cfg, logFile)
	logger.Info().Str("provider", cfg.Provider).Msg("starting pinpoint")

	ctrl, err := buildController(cfg, logger)
	if err != nil {
		return err
	}
	return tui.Run(cmd.Context(), ctrl)
}

// newLogger tags every entry with the deployment environment.
func newLogger(cfg config.Config, out io.Writer) zerolog.Logger {
	return config.NewLogger(cfg.Logging, out).With().Str("env", cfg.Env).Logger()
}

// buildController wires the configured geocoding provider into a controller.
func buildController(cfg config.Config, logger zerolog.Logger) (*lookup.Controller, error) {
	httpClient, err := geocoding.NewHTTPClient(cfg.Timeout, cfg.TLSFingerprint)
	if err != nil {
		return nil, err
	}

	provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:       geocoding.ProviderType(cfg.Provider),
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		UserAgent:  cfg.UserAgent,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	return lookup.NewController(provider, cfg.StartRegion(), logger), nil
}
