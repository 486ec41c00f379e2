package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a graph without running it",
	Long: `Loads a graph from YAML and verifies that every required input is
satisfied and that the topology is acyclic.`,
	Run: func(cmd *cobra.Command, args []string) {
		g, err := loadGraph(cmd, args)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		p := g.Plasm()
		if err := p.Check(); err != nil {
			fmt.Printf("Invalid: %v\n", err)
			os.Exit(1)
		}
		order, err := p.TopologicalOrder()
		if err != nil {
			fmt.Printf("Invalid: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("OK: %d cells, %d connections\n", p.Len(), len(p.Connections()))
		fmt.Print("Execution order:")
		for _, c := range order {
			fmt.Printf(" %s", c.Name())
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
