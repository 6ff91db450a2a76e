package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rowforge/recipe"
)

var validateCmd = &cobra.Command{
	Use:   "validate <recipe-file>",
	Short: "Parse-check a recipe without executing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading recipe %s: %w", args[0], err)
		}
		rec, err := recipe.ParseRecipe(string(text), recipe.DefaultRegistry())
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d steps, ok\n", args[0], len(rec.Steps))
		return nil
	},
}
