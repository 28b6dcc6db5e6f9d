package main

import (
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("coma2punto version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
