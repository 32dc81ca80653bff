package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/jot/pkg/jot"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <token>",
	Short: "Decode a token without verifying it",
	Long: `Decode a token's header and claims without any verification.

No key is required and the signature is not checked. Never trust the
output of inspect for authorization decisions.

Example:
  jotctl inspect "$TOKEN"
  jotctl inspect --output json "$TOKEN"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := inspectToken(args[0], output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to inspect token: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringP("output", "o", "text", "Output format. One of: text, json")
}

func inspectToken(token, output string) error {
	format, err := FormatString(output)
	if err != nil {
		return err
	}

	header, claims, err := jot.Inspect(token)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(map[string]any{
			"header": header,
			"claims": claims,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case FormatText:
		fmt.Println("Header:")
		printSection(header)
		fmt.Println("Claims:")
		printSection(claims)
	}

	return nil
}

func printSection(values map[string]any) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("  %s: %v\n", name, values[name])
	}
}
