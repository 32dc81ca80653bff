// Package identity provides authenticated identity management for requests.
//
// This package separates the concept of an authenticated identity from the
// raw token decoding. An Identity combines registered token claims (subject,
// issuer, token ID, timestamps) with request-specific context (remote IP).
//
// # Basic Usage
//
//	// Create identity from a verified claim set
//	id := identity.FromClaims(claims)
//
//	// Add request context
//	id.WithRemoteIP(clientIP)
//
//	// Store in request context
//	ctx = identity.Set(ctx, id)
//
//	// Retrieve from context
//	id, ok := identity.Get(ctx)
//
// # Identity vs Claims
//
// The jot package handles decoding and validating the raw token. The identity
// package builds on that to provide a request-scoped view: the registered
// claims pulled out into typed fields, the full claim set for anything
// application-specific, and the caller's network address.
package identity
