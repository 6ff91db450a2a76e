package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rowforge/recipe"
	"github.com/rowforge/recipe/config"
	"github.com/rowforge/recipe/row"
)

var runCmd = &cobra.Command{
	Use:   "run <recipe-file>",
	Short: "Execute a recipe against line-delimited JSON on stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		return runRecipe(args[0], configPath, os.Stdin, os.Stdout)
	},
}

func init() {
	runCmd.Flags().String("config", "", "execution config YAML (lookup tables, quantize presets); default: auto-resolved config dir")
}

// runRecipe parses recipeFile, loads an optional execution config, reads one
// JSON record per line from in, executes the recipe, and writes one JSON
// record per output row to out.
func runRecipe(recipeFile, configPath string, in *os.File, out *os.File) error {
	text, err := os.ReadFile(recipeFile)
	if err != nil {
		return fmt.Errorf("reading recipe %s: %w", recipeFile, err)
	}
	rec, err := recipe.ParseRecipe(string(text), recipe.DefaultRegistry())
	if err != nil {
		return fmt.Errorf("parsing recipe %s: %w", recipeFile, err)
	}

	rt := recipe.NewRuntime()
	if configPath == "" {
		if dir, derr := resolveConfigDir(); derr == nil {
			if _, statErr := os.Stat(resolveExecutionConfigPath(dir)); statErr == nil {
				configPath = resolveExecutionConfigPath(dir)
			}
		}
	}
	if configPath != "" {
		cfgBytes, cerr := os.ReadFile(configPath)
		if cerr != nil {
			return fmt.Errorf("reading execution config %s: %w", configPath, cerr)
		}
		cfg, cerr := config.Parse(cfgBytes)
		if cerr != nil {
			return fmt.Errorf("parsing execution config %s: %w", configPath, cerr)
		}
		cfg.ApplyTo(rt)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	writer := bufio.NewWriter(out)
	defer writer.Flush()

	var rows []*row.Row
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r, perr := recipe.ParseJSONRow(line)
		if perr != nil {
			return fmt.Errorf("reading input record: %w", perr)
		}
		rows = append(rows, r)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	outRows, err := recipe.RunWithRuntime(context.Background(), rec, rows, rt)
	if err != nil {
		return fmt.Errorf("executing recipe: %w", err)
	}
	for _, r := range outRows {
		if _, werr := fmt.Fprintln(writer, recipe.FormatJSONRow(r)); werr != nil {
			return fmt.Errorf("writing output: %w", werr)
		}
	}
	return nil
}
