package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "pitoncache",
	Short: "Pitoncache CLI tool can run and inspect simulations of the " +
		"pipelined set-associative cache controller.",
	Long: `Pitoncache CLI tool can run and inspect simulations of the ` +
		`pipelined set-associative cache controller. Currently, it supports ` +
		`running randomized traffic against a cache backed by an ideal ` +
		`memory controller.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
