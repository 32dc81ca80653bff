package jot

import (
	"encoding/json"
	"strconv"
	"time"
)

// Claims is a JSON object mapping claim names to values. Values decoded from
// a token keep their wire representation: numbers are json.Number, numeric
// strings stay strings, arrays are []any.
type Claims map[string]any

// Issuer returns the iss claim.
func (c Claims) Issuer() (string, bool) { return c.stringClaim("iss") }

// Subject returns the sub claim.
func (c Claims) Subject() (string, bool) { return c.stringClaim("sub") }

// ID returns the jti claim.
func (c Claims) ID() (string, bool) { return c.stringClaim("jti") }

// Audience returns the aud claim normalized to a slice: a scalar claim
// becomes a single element, an array keeps its string members. ok is false
// when the claim is absent or holds no strings.
func (c Claims) Audience() ([]string, bool) {
	switch aud := c["aud"].(type) {
	case string:
		return []string{aud}, true
	case []string:
		if len(aud) == 0 {
			return nil, false
		}
		return aud, true
	case []any:
		var values []string
		for _, v := range aud {
			if s, ok := v.(string); ok {
				values = append(values, s)
			}
		}
		return values, len(values) > 0
	}
	return nil, false
}

// ExpiresAt returns the exp claim as a time.
func (c Claims) ExpiresAt() (time.Time, bool) { return c.timeClaim("exp") }

// NotBefore returns the nbf claim as a time.
func (c Claims) NotBefore() (time.Time, bool) { return c.timeClaim("nbf") }

// IssuedAt returns the iat claim as a time.
func (c Claims) IssuedAt() (time.Time, bool) { return c.timeClaim("iat") }

func (c Claims) stringClaim(name string) (string, bool) {
	s, ok := c[name].(string)
	return s, ok
}

func (c Claims) timeClaim(name string) (time.Time, bool) {
	v, ok := c[name]
	if !ok {
		return time.Time{}, false
	}
	seconds, ok := integerClaim(v)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(seconds, 0), true
}

// integerClaim converts the tolerated wire forms of a time claim, an integer
// number or a string of digits, to epoch seconds.
func integerClaim(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 64)
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		i := int64(n)
		return i, float64(i) == n
	}
	return 0, false
}
