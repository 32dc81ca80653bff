package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/jot"
	ConfigFileName    = "jot.yml"
)

// ValidAlgorithms is the list of signing algorithms the service accepts
var ValidAlgorithms = []string{"HS256", "HS384", "HS512", "none"}

// JotConfig holds all jot service configuration settings
type JotConfig struct {
	// SigningAlgorithm names the algorithm used to sign and verify tokens
	SigningAlgorithm string `yaml:"algorithm" json:"algorithm"`

	// Key is the shared HMAC secret, given inline
	Key string `yaml:"key" json:"key"`

	// KeyFile is a path to a file holding the shared HMAC secret
	KeyFile string `yaml:"key_file" json:"key_file"`

	// Leeway is the clock skew tolerance for time claims, in seconds
	Leeway int `yaml:"leeway" json:"leeway"`

	// Issuer is stamped into issued tokens and required of verified ones
	Issuer string `yaml:"issuer" json:"issuer"`

	// Audience is the list of audiences stamped into issued tokens
	Audience []string `yaml:"audience" json:"audience"`

	// TokenTTLSeconds is the lifetime of issued tokens in seconds
	TokenTTLSeconds int `yaml:"token_ttl" json:"token_ttl"`

	// BindAddress is the interface the server listens on
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the server listen port
	Port int `yaml:"port" json:"port"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *JotConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *JotConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	// Load config
	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *JotConfig {
	return &JotConfig{
		SigningAlgorithm: "HS256",
		Key:              "",
		KeyFile:          "",
		Leeway:           0,
		Issuer:           "",
		Audience:         []string{},
		TokenTTLSeconds:  3600,
		BindAddress:      "0.0.0.0",
		Port:             8080,
		sources:          make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*JotConfig, error) {
	config := newDefault()

	// Initialize all sources as "default"
	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	// Determine config file path
	configPath := os.Getenv("JOT_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	// Try to load from config file
	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig JotConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	// Override with environment variables
	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"algorithm", "key", "key_file", "leeway", "issuer",
		"audience", "token_ttl", "bind_address", "port",
	}
}

func (c *JotConfig) applyFileConfig(file *JotConfig) {
	if file.SigningAlgorithm != "" {
		c.SigningAlgorithm = file.SigningAlgorithm
		c.sources["algorithm"] = "file"
	}
	if file.Key != "" {
		c.Key = file.Key
		c.sources["key"] = "file"
	}
	if file.KeyFile != "" {
		c.KeyFile = file.KeyFile
		c.sources["key_file"] = "file"
	}
	if file.Leeway != 0 {
		c.Leeway = file.Leeway
		c.sources["leeway"] = "file"
	}
	if file.Issuer != "" {
		c.Issuer = file.Issuer
		c.sources["issuer"] = "file"
	}
	if len(file.Audience) > 0 {
		c.Audience = file.Audience
		c.sources["audience"] = "file"
	}
	if file.TokenTTLSeconds != 0 {
		c.TokenTTLSeconds = file.TokenTTLSeconds
		c.sources["token_ttl"] = "file"
	}
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
}

func (c *JotConfig) applyEnvConfig() {
	if val := os.Getenv("JOT_ALGORITHM"); val != "" {
		c.SigningAlgorithm = val
		c.sources["algorithm"] = "environment"
	}
	if val := os.Getenv("JOT_KEY"); val != "" {
		c.Key = val
		c.sources["key"] = "environment"
	}
	if val := os.Getenv("JOT_KEY_FILE"); val != "" {
		c.KeyFile = val
		c.sources["key_file"] = "environment"
	}
	if val := os.Getenv("JOT_LEEWAY"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Leeway = i
			c.sources["leeway"] = "environment"
		}
	}
	if val := os.Getenv("JOT_ISSUER"); val != "" {
		c.Issuer = val
		c.sources["issuer"] = "environment"
	}
	if val := os.Getenv("JOT_AUDIENCE"); val != "" {
		c.Audience = splitAndTrim(val)
		c.sources["audience"] = "environment"
	}
	if val := os.Getenv("JOT_TOKEN_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.TokenTTLSeconds = i
			c.sources["token_ttl"] = "environment"
		}
	}
	if val := os.Getenv("JOT_BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("JOT_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
}

// ConfigFilePath returns the path to the config file
func (c *JotConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *JotConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// KeyBytes resolves the signing key material. A key file wins over an
// inline key. Trailing newlines in key files are stripped.
func (c *JotConfig) KeyBytes() ([]byte, error) {
	if c.KeyFile != "" {
		data, err := os.ReadFile(c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file %s: %w", c.KeyFile, err)
		}
		return bytes.TrimRight(data, "\r\n"), nil
	}
	if c.Key != "" {
		return []byte(c.Key), nil
	}
	if c.SigningAlgorithm == "none" {
		return nil, nil
	}
	return nil, errors.New("no signing key configured")
}

// TokenTTL returns the issued token lifetime as a duration
func (c *JotConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSeconds) * time.Second
}

// LeewayDuration returns the clock skew tolerance as a duration
func (c *JotConfig) LeewayDuration() time.Duration {
	return time.Duration(c.Leeway) * time.Second
}

// Addr returns the server listen address
func (c *JotConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.BindAddress, c.Port)
}

// Validate validates the configuration
func (c *JotConfig) Validate() error {
	valid := make(map[string]bool)
	for _, a := range ValidAlgorithms {
		valid[a] = true
	}
	if !valid[c.SigningAlgorithm] {
		return fmt.Errorf("invalid algorithm: %s", c.SigningAlgorithm)
	}

	if c.Key != "" && c.KeyFile != "" {
		return errors.New("key and key_file are mutually exclusive")
	}

	if c.Leeway < 0 {
		return fmt.Errorf("invalid leeway: %d", c.Leeway)
	}

	if c.TokenTTLSeconds <= 0 {
		return fmt.Errorf("invalid token_ttl: %d", c.TokenTTLSeconds)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *JotConfig) Attributes() []Attribute {
	key := ""
	if c.Key != "" {
		key = "(redacted)"
	}
	return []Attribute{
		{Name: "algorithm", Value: c.SigningAlgorithm, Source: c.Source("algorithm")},
		{Name: "key", Value: key, Source: c.Source("key")},
		{Name: "key_file", Value: c.KeyFile, Source: c.Source("key_file")},
		{Name: "leeway", Value: strconv.Itoa(c.Leeway), Source: c.Source("leeway")},
		{Name: "issuer", Value: c.Issuer, Source: c.Source("issuer")},
		{Name: "audience", Value: strings.Join(c.Audience, ","), Source: c.Source("audience")},
		{Name: "token_ttl", Value: strconv.Itoa(c.TokenTTLSeconds), Source: c.Source("token_ttl")},
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
	}
}

// FormatText returns a text representation of the configuration
func (c *JotConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *JotConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
