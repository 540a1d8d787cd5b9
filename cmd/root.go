/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "salesdesk",
	Short: "Backend for the sales extract import and reporting dashboard",
	Long: `salesdesk serves the sales dashboard backend: credential-gated
extract ingestion, retention purge, report aggregation and the embedded
report link.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
