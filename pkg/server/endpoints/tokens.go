package endpoints

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/jot/pkg/audit"
	"github.com/doodlesbykumbi/jot/pkg/jot"
	"github.com/doodlesbykumbi/jot/pkg/server"
)

// Claims the service stamps itself. Callers cannot supply these.
var reservedClaims = map[string]bool{
	"iss": true, "sub": true, "aud": true,
	"exp": true, "iat": true, "jti": true,
}

// TokenRequest represents the body of a token issuance request
type TokenRequest struct {
	Subject string         `json:"subject"`
	Claims  map[string]any `json:"claims,omitempty"`
}

// TokenResponse represents the response from the /tokens endpoint
type TokenResponse struct {
	Token     string `json:"token"`
	TokenID   string `json:"token_id"`
	ExpiresAt int64  `json:"expires_at"`
}

// RegisterTokensEndpoint registers the token issuance endpoint
func RegisterTokensEndpoint(s *server.Server) {
	// POST /tokens - Issue a token (no auth required)
	s.Router.HandleFunc("/tokens", handleIssueToken(s)).Methods("POST")
}

func handleIssueToken(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := clientIP(r)

		var req TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if req.Subject == "" {
			respondWithError(w, http.StatusUnprocessableEntity, "subject is required")
			return
		}

		now := time.Now()
		expiresAt := now.Add(s.Config.TokenTTL())
		tokenID := uuid.NewString()

		builder := jot.NewBuilder().
			Subject(req.Subject).
			ID(tokenID).
			IssuedAt(now).
			ExpiresAt(expiresAt)
		if s.Config.Issuer != "" {
			builder.Issuer(s.Config.Issuer)
		}
		if len(s.Config.Audience) > 0 {
			builder.Audience(s.Config.Audience...)
		}
		for name, value := range req.Claims {
			if reservedClaims[name] {
				continue
			}
			builder.Set(name, value)
		}

		token, err := jot.Encode(builder.Claims(), s.Signer)
		if err != nil {
			audit.Log(audit.IssueEvent{
				Subject:      req.Subject,
				ClientIP:     clientIP,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithError(w, http.StatusInternalServerError, "Unable to issue token")
			return
		}

		audit.Log(audit.IssueEvent{
			Subject:   req.Subject,
			TokenID:   tokenID,
			Algorithm: s.Signer.Name(),
			ClientIP:  clientIP,
			Success:   true,
		})

		respondWithJSON(w, http.StatusCreated, TokenResponse{
			Token:     token,
			TokenID:   tokenID,
			ExpiresAt: expiresAt.Unix(),
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
