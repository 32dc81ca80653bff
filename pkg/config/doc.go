// Package config provides configuration management for the jot service.
//
// This package handles loading and validating service configuration
// from environment variables and configuration files.
//
// # Configuration Sources
//
// Configuration is loaded from:
//
//   - Environment variables (primary)
//   - Configuration files (optional)
//
// # Key Configuration Options
//
//   - JOT_ALGORITHM: Signing algorithm for issued tokens
//   - JOT_KEY / JOT_KEY_FILE: Shared HMAC secret
//   - JOT_ISSUER: Issuer stamped into and expected from tokens
//   - JOT_TOKEN_TTL: Lifetime of issued tokens in seconds
//   - JOT_PORT: Server listen port
package config
