// Package main is the entry point for the CodeVault server.
//
// main stays minimal. It reads configuration, builds the logger and hands
// off to internal/server. All actual logic lives in the internal packages.
//
// Usage:
//
//	codevault serve [--port 8080] [--config codevault.yaml]
//	codevault version
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sakif/codevault/internal/config"
	"github.com/sakif/codevault/internal/server"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "codevault",
		Short:         "CodeVault: a personal code snippet vault",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var (
		port       int
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
				if err := cfg.Validate(); err != nil {
					fmt.Fprintln(os.Stderr, err)
					return err
				}
			}
			return serve(cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on (overrides CODEVAULT_PORT)")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to a YAML config file")
	return cmd
}

func serve(cfg *config.Config) error {
	logger := cfg.Logger(os.Stdout)
	slog.SetDefault(logger)

	if cfg.GeneratedSecret {
		// Sessions live in memory anyway, so losing them on restart is
		// expected; only the cookies become invalid.
		logger.Warn("CODEVAULT_SESSION_SECRET not set: using a random secret for this run")
	}

	srv, err := server.New(cfg, logger, server.Options{})
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		return err
	}

	// Ctrl+C or SIGTERM cancels ctx, which starts the graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "codevault", version)
		},
	}
}
