package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/agentic-research/dbgmodel/api"
	"github.com/agentic-research/dbgmodel/internal/session"
)

const version = "0.2.0"

var (
	configPath   string
	snapshotPath string
	dbPath       string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:          "dbgmodel",
	Short:        "Query debugger target-model trees with path patterns",
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to HCL session config")
	rootCmd.PersistentFlags().StringVarP(&snapshotPath, "snapshot", "s", "", "Path to JSON model snapshot")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to sqlite model store")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides config)")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openSession builds a session from the global flags plus the optional
// config file.
func openSession(fetch bool) (*session.Session, error) {
	var cfg *api.Config
	if configPath != "" {
		var err error
		cfg, err = api.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
	}
	log := logrus.New()
	if logLevel != "" {
		lvl, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
		log.SetLevel(lvl)
	}
	return session.Open(session.Options{
		Config:   cfg,
		Snapshot: snapshotPath,
		Database: dbPath,
		Fetch:    fetch,
		Logger:   log,
	})
}
