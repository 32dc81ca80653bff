package jot

import (
	"fmt"
	"strings"
	"time"
)

// DecodeOption adjusts decoding and validation.
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	verify   bool
	leeway   time.Duration
	issuer   string
	checkIss bool
	audience string
	checkAud bool
	now      func() time.Time
}

// WithoutVerification skips the signature check. Claim validation still runs
// and structural errors still surface; only the cryptographic check is
// suppressed.
func WithoutVerification() DecodeOption {
	return func(o *decodeOptions) { o.verify = false }
}

// WithLeeway tolerates clock skew of up to d in the exp, nbf and iat checks.
func WithLeeway(d time.Duration) DecodeOption {
	return func(o *decodeOptions) { o.leeway = d }
}

// WithIssuer requires the iss claim to exactly equal issuer.
func WithIssuer(issuer string) DecodeOption {
	return func(o *decodeOptions) {
		o.issuer = issuer
		o.checkIss = true
	}
}

// WithAudience requires the aud claim to equal audience or, in array form,
// to contain it.
func WithAudience(audience string) DecodeOption {
	return func(o *decodeOptions) {
		o.audience = audience
		o.checkAud = true
	}
}

// WithClock substitutes the time source used for claim validation. Each
// decode reads it exactly once, so every claim is checked against the same
// instant.
func WithClock(now func() time.Time) DecodeOption {
	return func(o *decodeOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// Decode parses token, verifies its signature with alg, validates the
// registered claims, and returns the payload.
func Decode(token string, alg Algorithm, opts ...DecodeOption) (Claims, error) {
	return DecodeAny(token, []Algorithm{alg}, opts...)
}

// DecodeAny is Decode with several candidate algorithms: the token's
// declared alg header must match a candidate's identifier and that
// candidate must verify the signature. Verification failure does not reveal
// whether the algorithm or the signature was at fault.
func DecodeAny(token string, algorithms []Algorithm, opts ...DecodeOption) (Claims, error) {
	o := decodeOptions{verify: true, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return nil, fmt.Errorf("Not enough segments: %w", ErrMalformed)
	}

	header, err := decodeObjectSegment(segments[0], "header")
	if err != nil {
		return nil, err
	}
	claims, err := decodeObjectSegment(segments[1], "claims")
	if err != nil {
		return nil, err
	}

	if o.verify {
		signature, err := decodeSegment(segments[2])
		if err != nil {
			return nil, fmt.Errorf("Invalid base64 in signature segment: %w", ErrMalformed)
		}

		// The signature covers the original segment bytes. Re-serializing
		// header or claims would reject tokens from emitters with a
		// different JSON field order.
		signingInput := []byte(token[:len(segments[0])+1+len(segments[1])])

		declared, _ := header["alg"].(string)
		if err := verifyAny(algorithms, declared, signingInput, signature); err != nil {
			return nil, err
		}
	}

	if err := validateClaims(claims, &o); err != nil {
		return nil, err
	}

	return claims, nil
}

func verifyAny(algorithms []Algorithm, declared string, signingInput, signature []byte) error {
	for _, alg := range algorithms {
		if alg == nil || alg.Name() != declared {
			continue
		}
		if alg.Verify(signingInput, signature) == nil {
			return nil
		}
	}
	return ErrSignatureInvalid
}

// validateClaims runs the registered-claim checks, all against a single
// evaluation instant. A claim of an impossible type is a structural error,
// not a validation failure.
func validateClaims(claims Claims, o *decodeOptions) error {
	now := o.now().Unix()
	leeway := int64(o.leeway / time.Second)

	if v, ok := claims["exp"]; ok {
		exp, ok := integerClaim(v)
		if !ok {
			return fmt.Errorf("Expiration claim (exp) must be an integer: %w", ErrMalformed)
		}
		if exp+leeway < now {
			return ErrExpiredSignature
		}
	}

	if v, ok := claims["nbf"]; ok {
		nbf, ok := integerClaim(v)
		if !ok {
			return fmt.Errorf("Not before claim (nbf) must be an integer: %w", ErrMalformed)
		}
		if nbf-leeway > now {
			return ErrImmatureSignature
		}
	}

	if v, ok := claims["iat"]; ok {
		iat, ok := integerClaim(v)
		if !ok {
			return fmt.Errorf("Issued at claim (iat) must be an integer: %w", ErrMalformed)
		}
		if iat-leeway > now {
			return ErrInvalidIssuedAt
		}
	}

	if o.checkIss {
		if issuer, ok := claims.Issuer(); !ok || issuer != o.issuer {
			return ErrInvalidIssuer
		}
	}

	if o.checkAud {
		if !audienceContains(claims["aud"], o.audience) {
			return ErrInvalidAudience
		}
	}

	return nil
}

func audienceContains(claim any, want string) bool {
	switch aud := claim.(type) {
	case string:
		return aud == want
	case []string:
		for _, s := range aud {
			if s == want {
				return true
			}
		}
	case []any:
		for _, v := range aud {
			if s, ok := v.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

// Inspect decodes the header and claims of token without verifying the
// signature or validating any claim. For diagnostics only; nothing about
// the returned data is trustworthy.
func Inspect(token string) (header, claims Claims, err error) {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return nil, nil, fmt.Errorf("Not enough segments: %w", ErrMalformed)
	}
	header, err = decodeObjectSegment(segments[0], "header")
	if err != nil {
		return nil, nil, err
	}
	claims, err = decodeObjectSegment(segments[1], "claims")
	if err != nil {
		return nil, nil, err
	}
	return header, claims, nil
}
