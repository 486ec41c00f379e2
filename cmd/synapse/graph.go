package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calyptra/synapse/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the graph visualization",
	Long:  `Loads a graph from YAML and outputs a Graphviz dot diagram, or a Mermaid diagram with --mermaid.`,
	Run: func(cmd *cobra.Command, args []string) {
		mermaid, _ := cmd.Flags().GetBool("mermaid")

		g, err := loadGraph(cmd, args)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		p := g.Plasm()
		if mermaid {
			fmt.Print(graph.GenerateMermaid(p, graph.CaptureOverlay(p)))
			return
		}
		fmt.Print(graph.GenerateDot(p, graph.CaptureOverlay(p)))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("mermaid", false, "Output a Mermaid diagram instead of Graphviz dot")
}
