package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kanban/internal/server"
)

var serveAddr string

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the board API and live stream",
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	logger := env.logger
	addr := env.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	logger.Info("kanban board", slog.String("version", Version), slog.String("collection", env.cfg.Board.Collection))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := env.board.Run(ctx); err != nil {
			logger.Error("task feed stopped", slog.String("error", err.Error()))
		}
	}()

	srv := server.New(env.board, logger, env.cfg.Server.StaticDir)
	httpServer := newHTTPServer(ctx, addr, srv.Engine())

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), env.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
	return nil
}

// newHTTPServer ties request contexts to ctx so open board streams end when
// ctx is cancelled instead of holding Shutdown until its timeout.
func newHTTPServer(ctx context.Context, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:        addr,
		Handler:     handler,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
}
