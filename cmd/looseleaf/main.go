package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/willibrandon/looseleaf/internal/app"
	"github.com/willibrandon/looseleaf/internal/config"
	"github.com/willibrandon/looseleaf/internal/logger"
	"github.com/willibrandon/looseleaf/internal/provider"
)

// Version info (set by ldflags)
var version = "dev"

var (
	debug      bool
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "looseleaf",
		Short: "Terminal database connection manager",
		Long: `looseleaf stores database connection profiles, opens live
connections, browses schema metadata, runs ad-hoc queries and commands,
and bookmarks frequently used queries. PostgreSQL and Redis backends are
supported.`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logLevel := logger.LevelInfo
	if debug || cfg.Debug {
		logLevel = logger.LevelDebug
	}
	logger.InitLogger(logLevel, cfg.LogPath)
	defer logger.Close()

	// One registry per run, built here and injected.
	registry := provider.NewRegistry()
	registry.Register(provider.NewPostgresProvider(cfg.Backend.ConnectTimeout))
	registry.Register(provider.NewRedisProvider(cfg.Backend.ConnectTimeout))

	model, err := app.New(cfg, registry)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	if m, ok := finalModel.(*app.Model); ok {
		m.Cleanup()
	}

	return nil
}
