package identity

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/jot/pkg/jot"
)

func TestFromClaims(t *testing.T) {
	issued := time.Unix(1700000000, 0)
	expires := issued.Add(time.Hour)

	claims := jot.Claims{
		"sub":  "alice",
		"iss":  "jot.example",
		"jti":  "token-1",
		"aud":  []string{"maxine", "katie"},
		"iat":  json.Number("1700000000"),
		"exp":  json.Number("1700003600"),
		"role": "admin",
	}

	id := FromClaims(claims)

	assert.Equal(t, "alice", id.Subject)
	assert.Equal(t, "jot.example", id.Issuer)
	assert.Equal(t, "token-1", id.TokenID)
	assert.Equal(t, []string{"maxine", "katie"}, id.Audience)
	assert.True(t, id.IssuedAt.Equal(issued))
	assert.True(t, id.ExpiresAt.Equal(expires))
	assert.Equal(t, "admin", id.Claims["role"])
}

func TestFromClaims_Sparse(t *testing.T) {
	id := FromClaims(jot.Claims{})

	assert.Empty(t, id.Subject)
	assert.Empty(t, id.Issuer)
	assert.Empty(t, id.Audience)
	assert.True(t, id.IssuedAt.IsZero())
	assert.True(t, id.ExpiresAt.IsZero())
}

func TestIdentity_WithRemoteIP(t *testing.T) {
	ip := net.ParseIP("192.168.1.100")
	id := FromClaims(jot.Claims{"sub": "alice"}).WithRemoteIP(ip)

	assert.Equal(t, ip, id.RemoteIP)
}

func TestIdentity_Name(t *testing.T) {
	assert.Equal(t, "alice", FromClaims(jot.Claims{"sub": "alice"}).Name())
	assert.Equal(t, "(anonymous)", FromClaims(jot.Claims{}).Name())
}

func TestContextGetSet(t *testing.T) {
	ctx := context.Background()

	// Initially no identity
	id, ok := Get(ctx)
	assert.False(t, ok)
	assert.Nil(t, id)

	// Set identity
	expected := FromClaims(jot.Claims{"sub": "alice", "iss": "jot.example"})
	ctx = Set(ctx, expected)

	// Get identity
	id, ok = Get(ctx)
	assert.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, expected.Subject, id.Subject)
	assert.Equal(t, expected.Issuer, id.Issuer)
}
