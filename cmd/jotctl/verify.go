package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/jot/pkg/config"
	"github.com/doodlesbykumbi/jot/pkg/jot"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [token]",
	Short: "Verify a token and print its claims",
	Long: `Verify a token's signature and registered claims, then print the claims.

Pass the token as an argument, or "-" to read it from stdin. With --watch
the argument is a file path instead; the file is re-read and re-verified
whenever it changes.

The verification key comes from --key, --key-file, JOT_KEY or JOT_KEY_FILE.
Unsigned tokens are rejected unless --allow-none is set.

Example:
  jotctl verify "$TOKEN"
  echo "$TOKEN" | jotctl verify -
  jotctl verify --watch /run/jot/token`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		watch, _ := cmd.Flags().GetBool("watch")

		candidates, opts, err := verifierSetup(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to verify token: %v\n", err)
			os.Exit(1)
		}

		if watch {
			if err := watchToken(args[0], candidates, opts); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to watch token: %v\n", err)
				os.Exit(1)
			}
			return
		}

		token := args[0]
		if token == "-" {
			token, err = readTokenFromStdin()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to read token: %v\n", err)
				os.Exit(1)
			}
		}

		claims, err := jot.DecodeAny(token, candidates, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid token: %v\n", err)
			os.Exit(1)
		}

		printClaims(claims)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().String("algorithm", "", "Verification algorithm (HS256, HS384, HS512 or none)")
	verifyCmd.Flags().String("key", "", "Verification key")
	verifyCmd.Flags().String("key-file", "", "Path to a file holding the verification key")
	verifyCmd.Flags().Duration("leeway", 0, "Leeway applied to time-based claims")
	verifyCmd.Flags().String("issuer", "", "Require this issuer (iss) claim")
	verifyCmd.Flags().String("audience", "", "Require membership in the audience (aud) claim")
	verifyCmd.Flags().Bool("allow-none", false, "Accept unsigned tokens (alg \"none\")")
	verifyCmd.Flags().Bool("watch", false, "Treat the argument as a file path and re-verify on change")
}

// verifierSetup assembles verification candidates and decode options from
// the configuration, with flags taking precedence.
func verifierSetup(cmd *cobra.Command) ([]jot.Algorithm, []jot.DecodeOption, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if cmd.Flags().Changed("algorithm") {
		cfg.SigningAlgorithm, _ = cmd.Flags().GetString("algorithm")
	}
	if cmd.Flags().Changed("key") {
		cfg.Key, _ = cmd.Flags().GetString("key")
		cfg.KeyFile = ""
	}
	if cmd.Flags().Changed("key-file") {
		cfg.KeyFile, _ = cmd.Flags().GetString("key-file")
		cfg.Key = ""
	}

	key, err := cfg.KeyBytes()
	if err != nil {
		return nil, nil, err
	}

	alg, err := jot.ByName(cfg.SigningAlgorithm, key)
	if err != nil {
		return nil, nil, err
	}

	candidates := []jot.Algorithm{alg}
	if allowNone, _ := cmd.Flags().GetBool("allow-none"); allowNone && cfg.SigningAlgorithm != "none" {
		candidates = append(candidates, jot.None())
	}

	var opts []jot.DecodeOption

	leeway := cfg.LeewayDuration()
	if cmd.Flags().Changed("leeway") {
		leeway, _ = cmd.Flags().GetDuration("leeway")
	}
	if leeway > 0 {
		opts = append(opts, jot.WithLeeway(leeway))
	}

	issuer := cfg.Issuer
	if cmd.Flags().Changed("issuer") {
		issuer, _ = cmd.Flags().GetString("issuer")
	}
	if issuer != "" {
		opts = append(opts, jot.WithIssuer(issuer))
	}

	if cmd.Flags().Changed("audience") {
		audience, _ := cmd.Flags().GetString("audience")
		opts = append(opts, jot.WithAudience(audience))
	}

	return candidates, opts, nil
}

func readTokenFromStdin() (string, error) {
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func printClaims(claims jot.Claims) {
	out, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render claims: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func watchToken(filename string, candidates []jot.Algorithm, opts []jot.DecodeOption) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", filename, err)
	}

	fmt.Printf("Watching %s for token changes\n", filename)

	// Handle signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] File modified, re-verifying token...\n", time.Now().Format(time.RFC3339))

				content, err := os.ReadFile(filename)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
					continue
				}

				token := strings.TrimSpace(string(content))
				if token == "" {
					continue
				}

				claims, err := jot.DecodeAny(token, candidates, opts...)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Invalid token: %v\n", err)
				} else {
					printClaims(claims)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}
