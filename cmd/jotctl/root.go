package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jotctl",
	Short: "Issue, verify and inspect JSON Web Tokens",
	Long: `jotctl is the command line interface to the jot token service.

It can issue and verify HMAC-signed tokens locally, inspect tokens without
verifying them, and run the token service itself.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
