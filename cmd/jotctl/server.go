package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/jot/pkg/config"
	"github.com/doodlesbykumbi/jot/pkg/jot"
	"github.com/doodlesbykumbi/jot/pkg/server"
	"github.com/doodlesbykumbi/jot/pkg/server/endpoints"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the jot token service",
	Long: `Run the jot token service

The server issues tokens over POST /tokens and verifies them on GET /whoami.
It is configured through /etc/jot/jot.yml and JOT_* environment variables;
a signing key must be provided via JOT_KEY or JOT_KEY_FILE unless the
algorithm is "none".`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		// Flags override config when set
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind-address") {
			cfg.BindAddress, _ = cmd.Flags().GetString("bind-address")
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		key, err := cfg.KeyBytes()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		signer, err := jot.ByName(cfg.SigningAlgorithm, key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		s := server.NewServer(cfg, signer, []jot.Algorithm{signer})
		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s...\n", cfg.Addr())
		log.Fatal(s.Start())
	},
}

func defaultPortInt() int {
	if port := os.Getenv("JOT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8080
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().IntP("port", "p", defaultPortInt(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", "0.0.0.0", "server bind address")
}
