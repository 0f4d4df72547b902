package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/graficador"
	"github.com/aretw0/graficador/internal/cli"
	"github.com/aretw0/graficador/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of graficador",
	Run: func(cmd *cobra.Command, args []string) {
		if cli.IsTerminal(os.Stdout) {
			tui.PrintBanner(cmd.OutOrStdout(), graficador.Version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "graficador version %s\n", strings.TrimSpace(graficador.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
