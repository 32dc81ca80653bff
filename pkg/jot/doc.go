// Package jot implements encoding, decoding and verification of JSON Web
// Tokens (JWT) in compact serialization.
//
// A token is three base64url segments joined by dots: a JSON header, a JSON
// claim set, and a signature computed over the first two segments exactly as
// emitted. Verification recomputes the signature from the original segment
// bytes, never from a re-serialization, so tokens produced by other libraries
// verify regardless of their JSON field order.
//
// # Encoding
//
//	token, err := jot.Encode(jot.Claims{"name": "Kyle"}, jot.HS256([]byte("secret")))
//
// A builder is available for incremental construction:
//
//	token, err := jot.EncodeWith(jot.HS256(key), func(b *jot.Builder) {
//	    b.Issuer("issuer.example").
//	        Subject("kyle").
//	        ExpiresAt(time.Now().Add(time.Hour))
//	})
//
// # Decoding
//
//	claims, err := jot.Decode(token, jot.HS256(key),
//	    jot.WithLeeway(30*time.Second),
//	    jot.WithIssuer("issuer.example"))
//
// Decode verifies the signature and then validates the registered time and
// identity claims. DecodeAny accepts several candidate algorithms; the
// token's declared "alg" header selects among them. The "none" algorithm is
// matched only when the caller includes it as a candidate.
//
// # Errors
//
// Structurally malformed input wraps ErrMalformed. Well-formed tokens that
// fail a trust or freshness check return one of the validation sentinels
// (ErrSignatureInvalid, ErrExpiredSignature, ErrImmatureSignature,
// ErrInvalidIssuedAt, ErrInvalidIssuer, ErrInvalidAudience). Any error means
// the token must be rejected.
//
// All operations are pure computations without I/O and are safe for
// concurrent use.
package jot
