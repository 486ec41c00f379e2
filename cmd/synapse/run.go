package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/calyptra/synapse"
	"github.com/calyptra/synapse/internal/presentation/graph"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Execute a graph",
	Long: `Loads a graph from YAML and executes it. With --niter 0 the graph runs
until a cell quits or the process is interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		niter, _ := cmd.Flags().GetInt("niter")
		threads, _ := cmd.Flags().GetInt("threads")
		dotfile, _ := cmd.Flags().GetString("dotfile")
		movieDir, _ := cmd.Flags().GetString("movie")

		g, err := loadGraph(cmd, args, synapse.WithThreads(threads))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if movieDir != "" {
			graph.NewRecorder(g.Plasm(), movieDir)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := g.Run(ctx, niter); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if dotfile != "" {
			dot := graph.GenerateDot(g.Plasm(), graph.CaptureOverlay(g.Plasm()))
			if err := os.WriteFile(dotfile, []byte(dot), 0o644); err != nil {
				fmt.Printf("Error writing dot file: %v\n", err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("niter", "n", 1, "Number of iterations (0 runs until quit)")
	runCmd.Flags().IntP("threads", "t", 1, "Number of cells allowed to process concurrently")
	runCmd.Flags().String("dotfile", "", "Write the final graph state as Graphviz dot to this file")
	runCmd.Flags().String("movie", "", "Record one dot frame per process call into this directory")
}
