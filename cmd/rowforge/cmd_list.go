package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rowforge/recipe"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered recipe directive and its usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		defs := recipe.DefaultRegistry().All()
		maxLen := 0
		for _, d := range defs {
			if len(d.Name) > maxLen {
				maxLen = len(d.Name)
			}
		}
		for _, d := range defs {
			fmt.Printf("%-*s  %s\n", maxLen, d.Name, d.Usage)
		}
		return nil
	},
}
