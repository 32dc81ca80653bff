package identity

import (
	"context"
	"net"
	"time"

	"github.com/doodlesbykumbi/jot/pkg/jot"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated identity for a request.
// It combines token claims with request-specific context.
type Identity struct {
	// Token claims
	Subject   string
	Issuer    string
	TokenID   string
	Audience  []string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Request context
	RemoteIP net.IP

	// The full verified claim set
	Claims jot.Claims
}

// FromClaims creates an Identity from a verified claim set.
func FromClaims(claims jot.Claims) *Identity {
	id := &Identity{Claims: claims}

	id.Subject, _ = claims.Subject()
	id.Issuer, _ = claims.Issuer()
	id.TokenID, _ = claims.ID()
	id.Audience, _ = claims.Audience()

	if iat, ok := claims.IssuedAt(); ok {
		id.IssuedAt = iat
	}
	if exp, ok := claims.ExpiresAt(); ok {
		id.ExpiresAt = exp
	}

	return id
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// Name returns the subject, or a placeholder for tokens without one.
func (i *Identity) Name() string {
	if i.Subject == "" {
		return "(anonymous)"
	}
	return i.Subject
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
