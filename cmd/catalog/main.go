package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "catalog",
		Short:         "Product catalog service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, configFlag, "c", "", "path to config file (yaml or json)")
	rootCmd.PersistentFlags().String(logLevelFlag, "", "override logging level")

	rootCmd.AddCommand(
		serveCommand(),
		importCommand(),
		listCommand(),
		bindingsCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
