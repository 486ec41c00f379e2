package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/calyptra/synapse"
	"github.com/calyptra/synapse/internal/logging"
)

// loggerFromFlags builds the CLI logger from the -v count.
func loggerFromFlags(cmd *cobra.Command) *slog.Logger {
	v, _ := cmd.Flags().GetCount("verbose")
	return logging.FromVerbosity(v)
}

// loadGraph reads the graph file named by --file, accepting a positional
// path as a fallback when the flag was not set.
func loadGraph(cmd *cobra.Command, args []string, opts ...synapse.Option) (*synapse.Graph, error) {
	path, _ := cmd.Flags().GetString("file")
	if !cmd.Flags().Changed("file") && len(args) > 0 {
		path = args[0]
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph file: %w", err)
	}
	defer f.Close()

	g, err := synapse.Load(f, append([]synapse.Option{
		synapse.WithLogger(loggerFromFlags(cmd)),
	}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return g, nil
}
