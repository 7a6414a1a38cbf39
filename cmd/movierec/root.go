package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/config"
	logpkg "github.com/kailas-cloud/movierec/internal/logger"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	env        string
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "movierec",
		Short: "Content-based movie recommender",
		Long: `movierec recommends movies similar to a given title by comparing
TF-IDF vectors of their titles, genres and overviews.

Configuration is read from config/<env>.yaml, where env comes from --env or
the ENV variable and defaults to "local". Values of the form ${VAR:-default}
are expanded from the environment, which may be seeded from a .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := godotenv.Load(flags.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.env, "env", "", "environment name (default $ENV or local)")
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "explicit config file path")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before config")

	root.AddCommand(
		newServeCmd(flags),
		newRecommendCmd(flags),
		newMCPCmd(flags),
		newVersionCmd(),
	)
	return root
}

// resolveEnv returns the environment name.
func (f *globalFlags) resolveEnv() string {
	if f.env != "" {
		return f.env
	}
	return config.GetEnv()
}

// loadConfig reads the config file selected by the flags.
func (f *globalFlags) loadConfig() (config.Config, error) {
	if f.configPath != "" {
		return config.LoadFile(f.configPath)
	}
	return config.Load(f.resolveEnv())
}

// bootstrap loads config, lets the command adjust it and builds the app.
func (f *globalFlags) bootstrap(ctx context.Context, adjust func(*config.Config)) (*app, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	if adjust != nil {
		adjust(&cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	logger, err := logpkg.NewLogger(f.resolveEnv(), cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Startup failed", zap.Error(err))
		_ = logger.Sync()
		return nil, err
	}
	return a, nil
}
