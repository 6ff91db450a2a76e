package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Run row-recipe scripts against line-delimited JSON",
	Long: appName + " executes a recipe script (one directive per line) against\n" +
		"line-delimited JSON records read from stdin, writing the transformed\n" +
		"records to stdout, one per line.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rowforge:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configCmd)
}
