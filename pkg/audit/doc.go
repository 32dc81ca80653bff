// Package audit provides audit logging for token operations.
//
// This package implements structured audit logging for security-relevant
// operations in RFC5424 syslog format.
//
// # Event Types
//
// The package defines event types for the token lifecycle:
//
//   - Issue events (a token was minted, or minting failed)
//   - Verify events (a presented token was accepted or rejected)
//
// # Usage
//
//	audit.Log(audit.IssueEvent{
//		Subject:   "alice",
//		TokenID:   jti,
//		Algorithm: "HS256",
//		ClientIP:  ip,
//		Success:   true,
//	})
//
// Audit events are logged in a structured format suitable for security
// monitoring and compliance requirements.
package audit
