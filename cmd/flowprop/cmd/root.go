// Package cmd provides the command-line interface for flowprop.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "flowprop",
	Short: "Flowprop CLI tool can run the example flowsheet models that " +
		"ship with the flowprop property packages.",
	Long: `Flowprop CLI tool can run the example flowsheet models that ` +
		`ship with the flowprop property packages. Currently, it supports ` +
		`initializing and solving a benzene-plant heater.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
