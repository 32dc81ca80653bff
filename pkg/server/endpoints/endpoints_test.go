package endpoints

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/doodlesbykumbi/jot/pkg/config"
	"github.com/doodlesbykumbi/jot/pkg/jot"
	"github.com/doodlesbykumbi/jot/pkg/server"
)

var testKey = []byte("endpoints-test-key")

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	t.Setenv("JOT_CONFIG_PATH", t.TempDir())
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg.Issuer = "jot.example"
	cfg.Audience = []string{"maxine"}
	cfg.TokenTTLSeconds = 600

	signer := jot.HS256(testKey)
	srv := server.NewServer(cfg, signer, []jot.Algorithm{signer})
	RegisterAll(srv)
	return srv
}

func issueToken(t *testing.T, srv *server.Server, body string) TokenResponse {
	t.Helper()

	req := httptest.NewRequest("POST", "/tokens", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	srv.Router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		out, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status 201, got %d: %s", resp.StatusCode, string(out))
	}

	var result TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return result
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	srv.Router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var result StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if result.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", result.Status)
	}
	if result.Algorithm != "HS256" {
		t.Errorf("expected algorithm 'HS256', got %q", result.Algorithm)
	}
	if result.Issuer != "jot.example" {
		t.Errorf("expected issuer 'jot.example', got %q", result.Issuer)
	}
}

func TestTokensEndpoint(t *testing.T) {
	srv := newTestServer(t)

	t.Run("issues a verifiable token", func(t *testing.T) {
		result := issueToken(t, srv, `{"subject":"alice","claims":{"role":"admin"}}`)

		if result.Token == "" {
			t.Fatal("expected a token in the response")
		}
		if result.TokenID == "" {
			t.Error("expected a token ID in the response")
		}

		claims, err := jot.Decode(result.Token, jot.HS256(testKey), jot.WithIssuer("jot.example"))
		if err != nil {
			t.Fatalf("issued token failed verification: %v", err)
		}

		if sub, _ := claims.Subject(); sub != "alice" {
			t.Errorf("expected subject 'alice', got %q", sub)
		}
		if claims["role"] != "admin" {
			t.Errorf("expected custom claim role=admin, got %v", claims["role"])
		}
		if aud, _ := claims.Audience(); len(aud) != 1 || aud[0] != "maxine" {
			t.Errorf("expected audience [maxine], got %v", aud)
		}
		if id, _ := claims.ID(); id != result.TokenID {
			t.Errorf("expected jti %q, got %q", result.TokenID, id)
		}

		exp, ok := claims.ExpiresAt()
		if !ok {
			t.Fatal("expected an exp claim")
		}
		if exp.Unix() != result.ExpiresAt {
			t.Errorf("expires_at mismatch: claim %d, response %d", exp.Unix(), result.ExpiresAt)
		}
		ttl := time.Until(exp)
		if ttl < 9*time.Minute || ttl > 11*time.Minute {
			t.Errorf("expected roughly 10m of life, got %s", ttl)
		}
	})

	t.Run("reserved claims cannot be overridden", func(t *testing.T) {
		result := issueToken(t, srv, `{"subject":"alice","claims":{"iss":"evil.example","sub":"mallory","exp":1}}`)

		claims, err := jot.Decode(result.Token, jot.HS256(testKey))
		if err != nil {
			t.Fatalf("issued token failed verification: %v", err)
		}
		if iss, _ := claims.Issuer(); iss != "jot.example" {
			t.Errorf("expected issuer 'jot.example', got %q", iss)
		}
		if sub, _ := claims.Subject(); sub != "alice" {
			t.Errorf("expected subject 'alice', got %q", sub)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/tokens", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()

		srv.Router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("missing subject", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/tokens", bytes.NewBufferString(`{"claims":{"role":"admin"}}`))
		w := httptest.NewRecorder()

		srv.Router.ServeHTTP(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected status 422, got %d", w.Code)
		}
	})
}

func TestWhoamiEndpoint(t *testing.T) {
	srv := newTestServer(t)

	t.Run("whoami with valid token", func(t *testing.T) {
		issued := issueToken(t, srv, `{"subject":"alice","claims":{"role":"admin"}}`)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+issued.Token)
		w := httptest.NewRecorder()

		srv.Router.ServeHTTP(w, req)

		resp := w.Result()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, string(body))
		}

		var result WhoamiResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}

		if result.Subject != "alice" {
			t.Errorf("expected subject 'alice', got %q", result.Subject)
		}
		if result.Issuer != "jot.example" {
			t.Errorf("expected issuer 'jot.example', got %q", result.Issuer)
		}
		if result.TokenID != issued.TokenID {
			t.Errorf("expected token ID %q, got %q", issued.TokenID, result.TokenID)
		}
		if result.ExpiresAt != issued.ExpiresAt {
			t.Errorf("expected expires_at %d, got %d", issued.ExpiresAt, result.ExpiresAt)
		}
		if result.Claims["role"] != "admin" {
			t.Errorf("expected claim role=admin, got %v", result.Claims["role"])
		}
	})

	t.Run("whoami without token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		w := httptest.NewRecorder()

		srv.Router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("whoami with invalid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()

		srv.Router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("whoami with token signed by another key", func(t *testing.T) {
		foreign, err := jot.Encode(jot.Claims{"sub": "mallory"}, jot.HS256([]byte("other-key")))
		if err != nil {
			t.Fatal(err)
		}

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+foreign)
		w := httptest.NewRecorder()

		srv.Router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("whoami with token not addressed to the service", func(t *testing.T) {
		foreign, err := jot.EncodeWith(jot.HS256(testKey), func(b *jot.Builder) {
			b.Subject("carol").Issuer("jot.example")
		})
		if err != nil {
			t.Fatal(err)
		}

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+foreign)
		w := httptest.NewRecorder()

		srv.Router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})
}
