package jot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Setters(t *testing.T) {
	at := time.Unix(1700000000, 500*time.Millisecond.Nanoseconds())

	claims := NewBuilder().
		Issuer("issuer.example").
		Subject("kyle").
		Audience("maxine").
		ExpiresAt(at.Add(time.Hour)).
		NotBefore(at).
		IssuedAt(at).
		ID("id-1").
		Set("name", "Kyle").
		Claims()

	assert.Equal(t, "issuer.example", claims["iss"])
	assert.Equal(t, "kyle", claims["sub"])
	assert.Equal(t, "maxine", claims["aud"])
	assert.Equal(t, int64(1700003600), claims["exp"], "whole epoch seconds, sub-second part dropped")
	assert.Equal(t, int64(1700000000), claims["nbf"])
	assert.Equal(t, int64(1700000000), claims["iat"])
	assert.Equal(t, "id-1", claims["jti"])
	assert.Equal(t, "Kyle", claims["name"])
}

func TestBuilder_AudienceForms(t *testing.T) {
	t.Run("single value is a scalar", func(t *testing.T) {
		claims := NewBuilder().Audience("maxine").Claims()
		assert.Equal(t, "maxine", claims["aud"])
	})

	t.Run("several values are an array", func(t *testing.T) {
		claims := NewBuilder().Audience("maxine", "katie").Claims()
		assert.Equal(t, []string{"maxine", "katie"}, claims["aud"])
	})

	t.Run("no values set nothing", func(t *testing.T) {
		claims := NewBuilder().Audience().Claims()
		_, present := claims["aud"]
		assert.False(t, present)
	})
}

func TestBuilder_SetOverwrites(t *testing.T) {
	claims := NewBuilder().
		Issuer("first").
		Set("iss", "second").
		Claims()

	assert.Equal(t, "second", claims["iss"])
}

func TestBuilder_EncodeRoundTrip(t *testing.T) {
	alg := HS256([]byte("secret"))

	token, err := EncodeWith(alg, func(b *Builder) {
		b.Subject("kyle").
			ExpiresAt(time.Now().Add(time.Hour)).
			Set("name", "Kyle")
	})
	require.NoError(t, err)

	payload, err := Decode(token, alg)
	require.NoError(t, err)

	subject, ok := payload.Subject()
	assert.True(t, ok)
	assert.Equal(t, "kyle", subject)
	assert.Equal(t, "Kyle", payload["name"])
}
