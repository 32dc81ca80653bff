package jot

import (
	"encoding/json"
	"fmt"
)

// EncodeOption adjusts token emission.
type EncodeOption func(*encodeOptions)

type encodeOptions struct {
	headers map[string]any
}

// WithHeader adds a field to the protected header, e.g. a key ID:
//
//	jot.Encode(claims, alg, jot.WithHeader("kid", "2024-09"))
//
// The typ and alg fields cannot be overridden.
func WithHeader(name string, value any) EncodeOption {
	return func(o *encodeOptions) {
		if o.headers == nil {
			o.headers = map[string]any{}
		}
		o.headers[name] = value
	}
}

// Encode serializes claims into a compact token signed with alg.
func Encode(claims Claims, alg Algorithm, opts ...EncodeOption) (string, error) {
	var o encodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	header := map[string]any{
		"typ": "JWT",
		"alg": alg.Name(),
	}
	for name, value := range o.headers {
		if name == "typ" || name == "alg" {
			continue
		}
		header[name] = value
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("marshal header: %w", err)
	}

	if claims == nil {
		claims = Claims{}
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	signingInput := encodeSegment(headerJSON) + "." + encodeSegment(claimsJSON)

	signature, err := alg.Sign([]byte(signingInput))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signingInput + "." + encodeSegment(signature), nil
}

// EncodeWith builds a claim set through fn and encodes it with alg.
func EncodeWith(alg Algorithm, fn func(*Builder), opts ...EncodeOption) (string, error) {
	b := NewBuilder()
	if fn != nil {
		fn(b)
	}
	return Encode(b.Claims(), alg, opts...)
}
