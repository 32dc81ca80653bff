package integration

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// testSigningKey is the shared HMAC secret every suite server signs with.
const testSigningKey = "integration-signing-key"

// TestContext holds the resources shared by the whole suite
type TestContext struct {
	ServerURL  string
	Key        []byte
	HTTPClient *http.Client
	InlineMode bool
	BinaryPath string

	configDir string
	instance  *ServerInstance
}

// NewTestContext starts the suite-wide jot server.
// Modes:
//   - Binary mode (default): Set JOT_BINARY to the path of the jotctl binary
//   - Inline mode: Set JOT_INLINE=1 to run the server in-process (no binary needed)
func NewTestContext(ctx context.Context) (*TestContext, error) {
	inlineMode := os.Getenv("JOT_INLINE") == "1"
	binaryPath := os.Getenv("JOT_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either JOT_BINARY or JOT_INLINE=1 is required.\n\nBinary mode:\n  go build -o jotctl ./cmd/jotctl\n  INTEGRATION_TEST=1 JOT_BINARY=$(pwd)/jotctl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 JOT_INLINE=1 go test -v ./test/integration/...")
	}

	if !inlineMode {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("JOT_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	// Point config at an empty directory so a host /etc/jot/jot.yml cannot
	// leak into the suite
	configDir, err := os.MkdirTemp("", "jot-integration")
	if err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}
	_ = os.Setenv("JOT_CONFIG_PATH", configDir)

	tc := &TestContext{
		Key:        []byte(testSigningKey),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		InlineMode: inlineMode,
		BinaryPath: binaryPath,
		configDir:  configDir,
	}

	instance, err := StartServer(tc, DefaultInstanceConfig())
	if err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to start server: %w", err)
	}
	tc.instance = instance
	tc.ServerURL = instance.ServerURL

	return tc, nil
}

// Close cleans up all suite resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.instance != nil {
		tc.instance.Stop()
	}
	if tc.configDir != "" {
		_ = os.RemoveAll(tc.configDir)
		_ = os.Unsetenv("JOT_CONFIG_PATH")
	}
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}
