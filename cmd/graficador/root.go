package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/graficador"
	"github.com/aretw0/graficador/internal/cli"
	"github.com/aretw0/graficador/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "graficador",
	Short: "Graficador is a shape editor that exports Angular and Flutter projects",
	Long: `Graficador keeps designs as layered shape trees (with z-order and grouping)
and turns them into ready-to-run Angular or Flutter scaffolds.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./"+config.DefaultFile+" when present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("store", "", "Design store backend: memory, file or redis")
	rootCmd.PersistentFlags().String("dir", "", "Directory of the file store")
}

// loadConfig reads the configuration and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	override := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	override("log-level", &cfg.LogLevel)
	override("store", &cfg.Store.Backend)
	override("dir", &cfg.Store.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openRuntime wires the Service for a command. Callers must Close it.
func openRuntime(cmd *cobra.Command, opts ...graficador.Option) (*cli.Runtime, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	logger, err := cli.NewLogger(cfg.LogLevel, jsonLogs)
	if err != nil {
		return nil, nil, err
	}
	rt, err := cli.NewRuntime(cfg, logger, opts...)
	if err != nil {
		return nil, nil, err
	}
	return rt, cfg, nil
}
