package jot

import "errors"

// ErrMalformed indicates the token is structurally invalid: wrong segment
// count, bad base64, bad JSON, or a registered claim of an impossible type.
// Structural errors are surfaced even when signature verification is
// disabled, and carry a reason, e.g. "Not enough segments: malformed token".
var ErrMalformed = errors.New("malformed token")

// Validation failures for well-formed tokens. Exactly one is returned per
// rejected token; callers must treat any of them as "reject".
var (
	// ErrSignatureInvalid is returned when no candidate algorithm both
	// matches the token's declared alg and verifies its signature. A wrong
	// algorithm and a wrong signature are deliberately indistinguishable.
	ErrSignatureInvalid = errors.New("signature verification failed")

	// ErrExpiredSignature is returned when the exp claim is in the past.
	ErrExpiredSignature = errors.New("token has expired")

	// ErrImmatureSignature is returned when the nbf claim is in the future.
	ErrImmatureSignature = errors.New("token is not yet valid")

	// ErrInvalidIssuedAt is returned when the iat claim is in the future.
	ErrInvalidIssuedAt = errors.New("token issued in the future")

	// ErrInvalidIssuer is returned when an expected issuer was supplied and
	// the iss claim is absent or different.
	ErrInvalidIssuer = errors.New("issuer mismatch")

	// ErrInvalidAudience is returned when an expected audience was supplied
	// and the aud claim neither equals it nor contains it.
	ErrInvalidAudience = errors.New("audience mismatch")

	// ErrInvalidToken is the generic rejection for tokens that fail outside
	// the more specific cases above.
	ErrInvalidToken = errors.New("invalid token")
)
