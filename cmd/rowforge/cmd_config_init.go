package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const configInitHeader = "# rowforge execution config\n" +
	"# ---------------------------------------------------------------------------\n" +
	"# lookup_tables: named key/value tables available to lookup-aware steps.\n" +
	"# quantize_presets: named bucket-range specs referenced from a recipe via\n" +
	"#   `quantize <src> <dest> preset:<name>`. A preset value is either a compact\n" +
	"#   \"lo-hi:label,...\" string or a sequence of {lo, hi, label} mappings.\n" +
	"# ---------------------------------------------------------------------------\n\n" +
	"lookup_tables: {}\n" +
	"quantize_presets: {}\n"

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter execution config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		dir, _ := cmd.Flags().GetString("dir")

		if dir == "" {
			var err error
			dir, err = resolveConfigDir()
			if err != nil {
				return err
			}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}

		path := resolveExecutionConfigPath(dir)
		if !force {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}
		if err := os.WriteFile(path, []byte(configInitHeader), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(os.Stderr, "initialised %s\n", filepath.Clean(path))
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")
	configInitCmd.Flags().String("dir", "", "target config directory (default: auto-resolved)")
}
