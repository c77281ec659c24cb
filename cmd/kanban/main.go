package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"kanban/internal/board"
	"kanban/internal/config"
	"kanban/internal/storage/sqlite"
)

var Version = "dev"

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "kanban",
		Short:         "Kanban task board",
		Long:          "A Kanban board with TODO, IN PROGRESS and COMPLETED columns kept live against a task store.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default "+config.DefaultPath+" if present)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(boardCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(moveCmd())
	rootCmd.AddCommand(rmCmd())

	return rootCmd
}

// environment is what every command works against.
type environment struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *sqlite.Store
	board  *board.Board
}

func (e *environment) Close() error {
	return e.store.Close()
}

func openEnvironment(cmd *cobra.Command) (*environment, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger(cmd.ErrOrStderr())

	store, err := sqlite.Open(cfg.Database.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	return &environment{
		cfg:    cfg,
		logger: logger,
		store:  store,
		board:  board.New(store, cfg.Board.Collection, logger),
	}, nil
}
