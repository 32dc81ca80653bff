package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// keyCmd represents the key command
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the token signing key",
	Long:  `Manage the token signing key`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'key' requires a subcommand generate")
		fmt.Println()
		cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(keyCmd)
}
