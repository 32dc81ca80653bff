// Package server provides the HTTP server for the jot token service.
//
// This package implements the core HTTP server that issues and verifies
// tokens over REST. It uses gorilla/mux for routing and provides middleware
// for bearer token authentication.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, signer, verifiers)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Config: Service configuration
//   - Signer: Algorithm used to sign issued tokens
//   - Verifiers: Algorithms accepted when verifying presented tokens
//   - Router: HTTP request router
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//	endpoints.RegisterAll(srv)
//
// This registers:
//
//   - / - Service status
//   - /tokens - Token issuance
//   - /whoami - Token introspection
package server
