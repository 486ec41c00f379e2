package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/calyptra/synapse/internal/presentation/docs"
	"github.com/calyptra/synapse/pkg/cell"
	"github.com/calyptra/synapse/pkg/cells"
)

// cellsCmd represents the cells command
var cellsCmd = &cobra.Command{
	Use:   "cells [type]",
	Short: "Document the cell library",
	Long: `Prints markdown documentation for the registered cell types. With a
type argument only that cell is documented. Output is styled when stdout
is a terminal; pass --plain for raw markdown.`,
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")

		reg := cell.NewRegistry()
		cells.RegisterAll(reg)

		var md string
		if len(args) > 0 {
			tag := args[0]
			c, err := reg.Build(tag)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			if err := c.DeclareParams(); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			if err := c.DeclareIO(); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			md = docs.CellMarkdown(c)
		} else {
			var err error
			md, err = docs.RegistryMarkdown(reg)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
		}

		if plain || !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Print(md)
			return
		}
		render := docs.NewRenderer()
		out, err := render(md)
		if err != nil {
			fmt.Print(md)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(cellsCmd)
	cellsCmd.Flags().Bool("plain", false, "Print raw markdown without terminal styling")
}
