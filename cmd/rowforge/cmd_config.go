package main

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the execution config (lookup tables, quantize presets)",
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
