package jot

import "time"

// Builder accumulates a claim set before encoding. Time setters store whole
// epoch seconds. The zero Builder is not usable; call NewBuilder.
type Builder struct {
	claims Claims
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{claims: Claims{}}
}

// Issuer sets the iss claim.
func (b *Builder) Issuer(issuer string) *Builder {
	b.claims["iss"] = issuer
	return b
}

// Subject sets the sub claim.
func (b *Builder) Subject(subject string) *Builder {
	b.claims["sub"] = subject
	return b
}

// Audience sets the aud claim: a single value is stored as a string, several
// values as an array.
func (b *Builder) Audience(audience ...string) *Builder {
	switch len(audience) {
	case 0:
	case 1:
		b.claims["aud"] = audience[0]
	default:
		values := make([]string, len(audience))
		copy(values, audience)
		b.claims["aud"] = values
	}
	return b
}

// ExpiresAt sets the exp claim.
func (b *Builder) ExpiresAt(t time.Time) *Builder {
	b.claims["exp"] = t.Unix()
	return b
}

// NotBefore sets the nbf claim.
func (b *Builder) NotBefore(t time.Time) *Builder {
	b.claims["nbf"] = t.Unix()
	return b
}

// IssuedAt sets the iat claim.
func (b *Builder) IssuedAt(t time.Time) *Builder {
	b.claims["iat"] = t.Unix()
	return b
}

// ID sets the jti claim.
func (b *Builder) ID(id string) *Builder {
	b.claims["jti"] = id
	return b
}

// Set stores an arbitrary claim, overwriting any previous value under the
// same name, registered or not.
func (b *Builder) Set(name string, value any) *Builder {
	b.claims[name] = value
	return b
}

// Claims hands over the accumulated claim set. The Builder retains no
// ownership; further setter calls keep mutating the same map.
func (b *Builder) Claims() Claims {
	return b.claims
}
