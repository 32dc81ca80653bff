package jot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hmacAlgorithms = []struct {
	name    string
	new     func(key []byte) Algorithm
	sigSize int
}{
	{name: "HS256", new: HS256, sigSize: 32},
	{name: "HS384", new: HS384, sigSize: 48},
	{name: "HS512", new: HS512, sigSize: 64},
}

func TestHMAC_SignAndVerify(t *testing.T) {
	input := []byte("eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJuYW1lIjoiS3lsZSJ9")

	for _, tt := range hmacAlgorithms {
		t.Run(tt.name, func(t *testing.T) {
			alg := tt.new([]byte("secret"))
			assert.Equal(t, tt.name, alg.Name())

			signature, err := alg.Sign(input)
			require.NoError(t, err)
			assert.Len(t, signature, tt.sigSize)

			again, err := alg.Sign(input)
			require.NoError(t, err)
			assert.Equal(t, signature, again, "signing is deterministic")

			assert.NoError(t, alg.Verify(input, signature))
		})
	}
}

func TestHMAC_VerifyRejectsTamperedSignature(t *testing.T) {
	input := []byte("header.claims")

	for _, tt := range hmacAlgorithms {
		t.Run(tt.name, func(t *testing.T) {
			alg := tt.new([]byte("secret"))
			signature, err := alg.Sign(input)
			require.NoError(t, err)

			for i := range signature {
				tampered := make([]byte, len(signature))
				copy(tampered, signature)
				tampered[i] ^= 0x01

				assert.ErrorIs(t, alg.Verify(input, tampered), ErrSignatureInvalid)
			}
		})
	}
}

func TestHMAC_VerifyRejectsWrongKey(t *testing.T) {
	input := []byte("header.claims")

	for _, tt := range hmacAlgorithms {
		t.Run(tt.name, func(t *testing.T) {
			signature, err := tt.new([]byte("secret")).Sign(input)
			require.NoError(t, err)

			err = tt.new([]byte("other")).Verify(input, signature)
			assert.ErrorIs(t, err, ErrSignatureInvalid)
		})
	}
}

func TestHMAC_EmptyKey(t *testing.T) {
	alg := HS256([]byte{})
	signature, err := alg.Sign([]byte("data"))
	require.NoError(t, err)
	assert.NoError(t, alg.Verify([]byte("data"), signature))
}

func TestHMAC_OwnsKeyMaterial(t *testing.T) {
	key := []byte("secret")
	alg := HS256(key)

	before, err := alg.Sign([]byte("data"))
	require.NoError(t, err)

	key[0] = 'X'

	after, err := alg.Sign([]byte("data"))
	require.NoError(t, err)
	assert.Equal(t, before, after, "mutating the caller's key slice must not affect the algorithm")
}

func TestNone(t *testing.T) {
	alg := None()
	assert.Equal(t, "none", alg.Name())

	signature, err := alg.Sign([]byte("anything"))
	require.NoError(t, err)
	assert.Empty(t, signature)

	assert.NoError(t, alg.Verify([]byte("anything"), nil))
	assert.NoError(t, alg.Verify([]byte("anything"), []byte{}))
	assert.ErrorIs(t, alg.Verify([]byte("anything"), []byte("sig")), ErrSignatureInvalid)
}

func TestByName(t *testing.T) {
	for _, name := range []string{"HS256", "HS384", "HS512"} {
		t.Run(name, func(t *testing.T) {
			alg, err := ByName(name, []byte("secret"))
			require.NoError(t, err)
			assert.Equal(t, name, alg.Name())
		})
	}

	t.Run("none ignores key", func(t *testing.T) {
		alg, err := ByName("none", []byte("secret"))
		require.NoError(t, err)
		assert.Equal(t, "none", alg.Name())

		signature, err := alg.Sign([]byte("data"))
		require.NoError(t, err)
		assert.Empty(t, signature)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := ByName("RS256", nil)
		assert.ErrorContains(t, err, "unsupported algorithm")
	})
}
