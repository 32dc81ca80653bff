package jot

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
)

type hmacAlgorithm struct {
	name string
	new  func() hash.Hash
	key  []byte
}

// HS256 returns the HMAC-SHA256 algorithm bound to key.
func HS256(key []byte) Algorithm { return newHMAC("HS256", sha256.New, key) }

// HS384 returns the HMAC-SHA384 algorithm bound to key.
func HS384(key []byte) Algorithm { return newHMAC("HS384", sha512.New384, key) }

// HS512 returns the HMAC-SHA512 algorithm bound to key.
func HS512(key []byte) Algorithm { return newHMAC("HS512", sha512.New, key) }

func newHMAC(name string, new func() hash.Hash, key []byte) Algorithm {
	// Empty keys are legal for HMAC.
	owned := make([]byte, len(key))
	copy(owned, key)
	return &hmacAlgorithm{name: name, new: new, key: owned}
}

func (a *hmacAlgorithm) Name() string { return a.name }

func (a *hmacAlgorithm) Sign(signingInput []byte) ([]byte, error) {
	mac := hmac.New(a.new, a.key)
	mac.Write(signingInput)
	return mac.Sum(nil), nil
}

func (a *hmacAlgorithm) Verify(signingInput, signature []byte) error {
	expected, err := a.Sign(signingInput)
	if err != nil {
		return err
	}
	// hmac.Equal is constant time; a short-circuiting compare here would be
	// a timing side channel.
	if !hmac.Equal(signature, expected) {
		return ErrSignatureInvalid
	}
	return nil
}
