package jot

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClaims_StringAccessors(t *testing.T) {
	claims := Claims{"iss": "issuer.example", "sub": "kyle", "jti": "id-1"}

	issuer, ok := claims.Issuer()
	assert.True(t, ok)
	assert.Equal(t, "issuer.example", issuer)

	subject, ok := claims.Subject()
	assert.True(t, ok)
	assert.Equal(t, "kyle", subject)

	id, ok := claims.ID()
	assert.True(t, ok)
	assert.Equal(t, "id-1", id)

	_, ok = Claims{}.Issuer()
	assert.False(t, ok)

	_, ok = Claims{"iss": 42}.Issuer()
	assert.False(t, ok, "non-string iss is not an issuer")
}

func TestClaims_Audience(t *testing.T) {
	tests := []struct {
		name   string
		claims Claims
		want   []string
		ok     bool
	}{
		{name: "scalar", claims: Claims{"aud": "maxine"}, want: []string{"maxine"}, ok: true},
		{name: "string slice", claims: Claims{"aud": []string{"maxine", "katie"}}, want: []string{"maxine", "katie"}, ok: true},
		{name: "decoded array", claims: Claims{"aud": []any{"maxine", "katie"}}, want: []string{"maxine", "katie"}, ok: true},
		{name: "mixed array keeps strings", claims: Claims{"aud": []any{"maxine", 42}}, want: []string{"maxine"}, ok: true},
		{name: "no strings", claims: Claims{"aud": []any{1, 2}}, want: nil, ok: false},
		{name: "absent", claims: Claims{}, want: nil, ok: false},
		{name: "wrong type", claims: Claims{"aud": 7}, want: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.claims.Audience()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClaims_TimeAccessors(t *testing.T) {
	at := time.Unix(1700000000, 0)

	tests := []struct {
		name  string
		value any
	}{
		{name: "json number", value: json.Number("1700000000")},
		{name: "numeric string", value: "1700000000"},
		{name: "int64", value: int64(1700000000)},
		{name: "whole float", value: float64(1700000000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := Claims{"exp": tt.value, "nbf": tt.value, "iat": tt.value}

			exp, ok := claims.ExpiresAt()
			assert.True(t, ok)
			assert.True(t, exp.Equal(at))

			nbf, ok := claims.NotBefore()
			assert.True(t, ok)
			assert.True(t, nbf.Equal(at))

			iat, ok := claims.IssuedAt()
			assert.True(t, ok)
			assert.True(t, iat.Equal(at))
		})
	}

	t.Run("absent", func(t *testing.T) {
		_, ok := Claims{}.ExpiresAt()
		assert.False(t, ok)
	})

	t.Run("unusable type", func(t *testing.T) {
		_, ok := Claims{"exp": []any{1}}.ExpiresAt()
		assert.False(t, ok)
	})
}

func TestIntegerClaim(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int64
		ok    bool
	}{
		{name: "json number", value: json.Number("1600000000"), want: 1600000000, ok: true},
		{name: "negative json number", value: json.Number("-5"), want: -5, ok: true},
		{name: "fractional json number", value: json.Number("1.5"), ok: false},
		{name: "digit string", value: "1600000000", want: 1600000000, ok: true},
		{name: "non-numeric string", value: "soon", ok: false},
		{name: "digits then letters", value: "123abc", ok: false},
		{name: "int", value: 42, want: 42, ok: true},
		{name: "int64", value: int64(42), want: 42, ok: true},
		{name: "whole float64", value: float64(42), want: 42, ok: true},
		{name: "fractional float64", value: 42.5, ok: false},
		{name: "bool", value: true, ok: false},
		{name: "array", value: []any{1}, ok: false},
		{name: "object", value: map[string]any{}, ok: false},
		{name: "nil", value: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := integerClaim(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
