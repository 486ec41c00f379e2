package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "synapse",
	Short: "Synapse is a dataflow graph engine",
	Long: `Synapse builds directed graphs of processing cells connected by typed
ports and executes them with single or multithreaded schedulers. Graphs
are described in YAML files or assembled programmatically.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("file", "f", "graph.yaml", "Path to the graph YAML file")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeatable)")
}
