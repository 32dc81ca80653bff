package integration

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/doodlesbykumbi/jot/pkg/config"
	"github.com/doodlesbykumbi/jot/pkg/jot"
	"github.com/doodlesbykumbi/jot/pkg/server"
	"github.com/doodlesbykumbi/jot/pkg/server/endpoints"
)

// portCounter is used to allocate unique ports for each test server
var portCounter int32 = 19000

// InstanceConfig holds configuration for a test jot server instance
type InstanceConfig struct {
	Algorithm     string
	Key           string
	TTLSeconds    int
	LeewaySeconds int
	Issuer        string
	Audience      []string
}

// DefaultInstanceConfig returns the default server configuration
func DefaultInstanceConfig() InstanceConfig {
	return InstanceConfig{
		Algorithm:  "HS256",
		Key:        testSigningKey,
		TTLSeconds: 600,
	}
}

// env renders the instance configuration as JOT_* environment variables
func (c InstanceConfig) env() map[string]string {
	return map[string]string{
		"JOT_ALGORITHM": c.Algorithm,
		"JOT_KEY":       c.Key,
		"JOT_TOKEN_TTL": strconv.Itoa(c.TTLSeconds),
		"JOT_LEEWAY":    strconv.Itoa(c.LeewaySeconds),
		"JOT_ISSUER":    c.Issuer,
		"JOT_AUDIENCE":  strings.Join(c.Audience, ","),
	}
}

// ServerInstance represents a running jot server for the suite or one scenario
type ServerInstance struct {
	Server        *server.Server
	ServerURL     string
	Port          int
	Config        InstanceConfig
	cancel        context.CancelFunc
	listener      net.Listener
	serverProcess *exec.Cmd // For binary mode
}

// StartServer creates and starts a new jot server instance. This supports
// both inline and binary modes based on how the test suite was started.
func StartServer(tc *TestContext, cfg InstanceConfig) (*ServerInstance, error) {
	if tc.InlineMode {
		return startInlineServerInstance(cfg)
	}
	return startBinaryServerInstance(tc.BinaryPath, cfg)
}

// startInlineServerInstance starts an in-process server
func startInlineServerInstance(icfg InstanceConfig) (*ServerInstance, error) {
	// Allocate a unique port
	port := int(atomic.AddInt32(&portCounter, 1))

	// Load the config through the environment, the way the binary would
	restore := setEnv(icfg.env())
	cfg, err := config.Load()
	restore()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.BindAddress = "127.0.0.1"
	cfg.Port = port

	key, err := cfg.KeyBytes()
	if err != nil {
		return nil, err
	}
	signer, err := jot.ByName(cfg.SigningAlgorithm, key)
	if err != nil {
		return nil, err
	}

	s := server.NewServer(cfg, signer, []jot.Algorithm{signer})
	endpoints.RegisterAll(s)

	// Create a listener to claim the port before the server is reachable
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to create listener on port %d: %w", port, err)
	}

	_, cancel := context.WithCancel(context.Background())

	instance := &ServerInstance{
		Server:    s,
		ServerURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:      port,
		Config:    icfg,
		cancel:    cancel,
		listener:  listener,
	}

	// Start server in background using the listener
	go func() {
		_ = s.StartWithListener(listener)
	}()

	// Wait for server to be ready
	if err := waitForServer(instance.ServerURL, 10*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// startBinaryServerInstance starts a server using the jotctl binary
func startBinaryServerInstance(binaryPath string, icfg InstanceConfig) (*ServerInstance, error) {
	// Allocate a unique port
	port := int(atomic.AddInt32(&portCounter, 1))
	portStr := strconv.Itoa(port)

	ctx, cancel := context.WithCancel(context.Background())

	cmd := exec.CommandContext(ctx, binaryPath, "server", "-b", "127.0.0.1", "-p", portStr)

	// Strip ambient JOT_* variables so only the instance config applies
	cmd.Env = environWithout("JOT_")
	cmd.Env = append(cmd.Env, "JOT_CONFIG_PATH="+os.Getenv("JOT_CONFIG_PATH"))
	for name, value := range icfg.env() {
		cmd.Env = append(cmd.Env, name+"="+value)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}

	instance := &ServerInstance{
		ServerURL:     fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:          port,
		Config:        icfg,
		cancel:        cancel,
		serverProcess: cmd,
	}

	// Wait for server to be ready
	if err := waitForServer(instance.ServerURL, 30*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// Stop shuts down the server instance
func (si *ServerInstance) Stop() {
	if si.cancel != nil {
		si.cancel()
	}
	if si.listener != nil {
		_ = si.listener.Close()
	}
	if si.serverProcess != nil && si.serverProcess.Process != nil {
		_ = si.serverProcess.Process.Kill()
		_ = si.serverProcess.Wait()
	}
}

// setEnv applies env and returns a func that restores the previous values
func setEnv(env map[string]string) func() {
	old := make(map[string]*string, len(env))
	for name, value := range env {
		if prev, ok := os.LookupEnv(name); ok {
			p := prev
			old[name] = &p
		} else {
			old[name] = nil
		}
		if value == "" {
			_ = os.Unsetenv(name)
		} else {
			_ = os.Setenv(name, value)
		}
	}
	return func() {
		for name, prev := range old {
			if prev == nil {
				_ = os.Unsetenv(name)
			} else {
				_ = os.Setenv(name, *prev)
			}
		}
	}
}

// environWithout returns os.Environ() minus variables with the given prefix
func environWithout(prefix string) []string {
	var env []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, prefix) {
			env = append(env, kv)
		}
	}
	return env
}
