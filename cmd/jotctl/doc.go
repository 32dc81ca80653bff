// Package main provides jotctl, the CLI for the jot token service.
//
// jot issues and verifies JSON Web Tokens signed with HMAC shared secrets.
// This CLI drives the library from the command line and runs the HTTP
// service.
//
// # Architecture
//
// The project is organized into several packages:
//
//   - pkg/jot: Token encoding, decoding and verification
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/server/middleware: Bearer token authentication
//   - pkg/identity: Authenticated identity management
//   - pkg/audit: Audit logging
//   - pkg/config: Configuration management
//
// # Quick Start
//
// The service is run via the jotctl CLI:
//
//	# Generate a signing key
//	jotctl key generate > jot.key
//	export JOT_KEY_FILE=$PWD/jot.key
//
//	# Issue a token
//	jotctl sign --subject alice --claim role=admin
//
//	# Verify a token
//	jotctl verify $TOKEN
//
//	# Start the server
//	jotctl server
//
// # Environment Variables
//
//   - JOT_CONFIG_PATH: Directory holding jot.yml (default: /etc/jot)
//   - JOT_ALGORITHM: Signing algorithm (default: HS256)
//   - JOT_KEY / JOT_KEY_FILE: Shared HMAC secret
//   - JOT_ISSUER: Issuer stamped into and expected from tokens
//   - JOT_PORT: Server port (default: 8080)
//
// For more information, see https://github.com/doodlesbykumbi/jot
package main
