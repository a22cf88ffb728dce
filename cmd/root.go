package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iljabvh/firstserve/internal/config"
	"github.com/iljabvh/firstserve/internal/logging"
	"github.com/iljabvh/firstserve/internal/storage"
)

// configOptional marks commands that run without a config file.
const configOptional = "config-optional"

var (
	dbPath     string
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "firstserve",
	Short: "Tennis player statistics ledger",
	Long: "Import historical tennis match rows, resolve mirrored scorelines and keep\n" +
		"per-player running averages together with a per-match snapshot ledger.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "firstserve.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default: storage.path from config)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}

// setup loads the config and builds the logger before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configPath)
	switch {
	case err == nil:
	case errors.Is(err, config.ErrConfigFileMissing) && cmd.Annotations[configOptional] == "true":
		cfg = nil
	default:
		return fmt.Errorf("load config %s: %w", configPath, err)
	}

	logCfg := config.LogConfig{Level: "info", Format: "console"}
	if cfg != nil {
		logCfg = cfg.Log
	}
	logger, err = logging.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if dbPath == "" {
		if cfg != nil {
			dbPath = cfg.Storage.Path
		} else {
			dbPath = config.DefaultDBPath()
		}
	}
	logger.Debug("Configured", zap.String("config", configPath), zap.String("db", dbPath))
	return nil
}

func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func requireConfig() error {
	if cfg == nil {
		return fmt.Errorf("this command needs a config file (--config)")
	}
	return nil
}
