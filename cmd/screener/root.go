package main

import (
	"github.com/spf13/cobra"
)

const app = "screener"

var (
	flagJSON  bool
	flagDebug bool

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "screener evaluates a CV against a job description and prints a hiring decision",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "json format for logging")
}
