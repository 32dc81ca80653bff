package jot

import "fmt"

// Algorithm signs and verifies the signing input of a token. Implementations
// must be safe for concurrent use; the bundled ones own a private copy of
// their key for their lifetime.
type Algorithm interface {
	// Name returns the identifier written to the "alg" header field.
	Name() string
	// Sign computes the signature over signingInput.
	Sign(signingInput []byte) ([]byte, error)
	// Verify reports whether signature is valid for signingInput, returning
	// ErrSignatureInvalid when it is not.
	Verify(signingInput, signature []byte) error
}

// ByName returns the built-in algorithm with the given identifier bound to
// key. The "none" algorithm takes no key and ignores the argument.
func ByName(name string, key []byte) (Algorithm, error) {
	switch name {
	case "HS256":
		return HS256(key), nil
	case "HS384":
		return HS384(key), nil
	case "HS512":
		return HS512(key), nil
	case "none":
		return None(), nil
	}
	return nil, fmt.Errorf("unsupported algorithm %q", name)
}
