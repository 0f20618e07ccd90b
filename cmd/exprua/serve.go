package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"exprua/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the evaluate API over HTTP",
		Long: `Serve POST /api/evaluate {"source": "..."}: every request is evaluated in a
fresh session and answered with the result, the symbols, the syntax tree and
the tokens. GET /healthz reports liveness.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().Bool("access-log", false, "log every request to stderr")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) (err error) {
	s, cleanup, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("failed to get addr flag: %w", err)
	}
	cfg := server.Config{
		Addr:    addr,
		Session: s.sessionOptions(),
		Tracer:  s.tracer,
	}
	if accessLog, _ := cmd.Flags().GetBool("access-log"); accessLog {
		cfg.AccessLog = cmd.ErrOrStderr()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !s.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "listening on http://%s\n", addr)
	}
	return server.New(cfg).Serve(ctx)
}
