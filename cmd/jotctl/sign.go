package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/jot/pkg/config"
	"github.com/doodlesbykumbi/jot/pkg/jot"
)

// signCmd represents the sign command
var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Issue a signed token",
	Long: `Issue a signed token.

Registered claims come from flags and the configuration. Custom claims are
given with repeated --claim flags; values parse as JSON where possible and
fall back to strings. Flags override the configuration where both are set.

The signing key comes from --key, --key-file, JOT_KEY or JOT_KEY_FILE.

Example:
  jotctl sign --subject alice
  jotctl sign --subject alice --ttl 15m --claim role=admin --claim level=9`,
	Run: func(cmd *cobra.Command, args []string) {
		token, err := signToken(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to sign token: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(token)
	},
}

func init() {
	rootCmd.AddCommand(signCmd)
	signCmd.Flags().String("algorithm", "", "Signing algorithm (HS256, HS384, HS512 or none)")
	signCmd.Flags().String("key", "", "Signing key")
	signCmd.Flags().String("key-file", "", "Path to a file holding the signing key")
	signCmd.Flags().StringP("subject", "s", "", "Subject (sub) claim")
	signCmd.Flags().String("issuer", "", "Issuer (iss) claim")
	signCmd.Flags().StringSlice("audience", nil, "Audience (aud) claim, repeatable")
	signCmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
	signCmd.Flags().String("jti", "", "Token ID (jti) claim. A random UUID when unset")
	signCmd.Flags().StringArray("claim", nil, "Custom claim as name=value, repeatable")
	signCmd.Flags().StringArray("header", nil, "Extra header field as name=value, repeatable")
}

func signToken(cmd *cobra.Command) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	applySignFlags(cmd, cfg)

	key, err := cfg.KeyBytes()
	if err != nil {
		return "", err
	}

	alg, err := jot.ByName(cfg.SigningAlgorithm, key)
	if err != nil {
		return "", err
	}

	ttl := cfg.TokenTTL()
	if cmd.Flags().Changed("ttl") {
		ttl, _ = cmd.Flags().GetDuration("ttl")
	}

	jti, _ := cmd.Flags().GetString("jti")
	if jti == "" {
		jti = uuid.NewString()
	}

	now := time.Now()
	builder := jot.NewBuilder().
		ID(jti).
		IssuedAt(now).
		ExpiresAt(now.Add(ttl))
	if subject, _ := cmd.Flags().GetString("subject"); subject != "" {
		builder.Subject(subject)
	}
	if cfg.Issuer != "" {
		builder.Issuer(cfg.Issuer)
	}
	if len(cfg.Audience) > 0 {
		builder.Audience(cfg.Audience...)
	}

	claims, _ := cmd.Flags().GetStringArray("claim")
	for _, pair := range claims {
		name, value, err := splitPair(pair)
		if err != nil {
			return "", fmt.Errorf("invalid --claim %q: %w", pair, err)
		}
		switch name {
		case "iss", "sub", "aud", "exp", "iat", "jti":
			return "", fmt.Errorf("registered claim %q must be set through its own flag", name)
		}
		builder.Set(name, parseValue(value))
	}

	var opts []jot.EncodeOption
	headers, _ := cmd.Flags().GetStringArray("header")
	for _, pair := range headers {
		name, value, err := splitPair(pair)
		if err != nil {
			return "", fmt.Errorf("invalid --header %q: %w", pair, err)
		}
		opts = append(opts, jot.WithHeader(name, parseValue(value)))
	}

	return jot.Encode(builder.Claims(), alg, opts...)
}

// applySignFlags overlays sign flags onto the loaded configuration. A key
// flag clears the other key source so the flag wins outright.
func applySignFlags(cmd *cobra.Command, cfg *config.JotConfig) {
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
	if cmd.Flags().Changed("issuer") {
		cfg.Issuer, _ = cmd.Flags().GetString("issuer")
	}
	if cmd.Flags().Changed("audience") {
		cfg.Audience, _ = cmd.Flags().GetStringSlice("audience")
	}
}

func splitPair(pair string) (name, value string, err error) {
	name, value, ok := strings.Cut(pair, "=")
	if !ok || name == "" {
		return "", "", fmt.Errorf("expected name=value")
	}
	return name, value, nil
}

// parseValue interprets a flag value as JSON so numbers, booleans and
// structured values survive the trip. Anything else stays a string.
func parseValue(value string) any {
	dec := json.NewDecoder(strings.NewReader(value))
	dec.UseNumber()

	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return value
	}
	if dec.More() {
		return value
	}
	return parsed
}
