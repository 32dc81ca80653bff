package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/jot/pkg/identity"
	"github.com/doodlesbykumbi/jot/pkg/jot"
	"github.com/doodlesbykumbi/jot/pkg/server"
	"github.com/doodlesbykumbi/jot/pkg/server/middleware"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	Subject   string     `json:"subject"`
	Issuer    string     `json:"issuer,omitempty"`
	TokenID   string     `json:"token_id,omitempty"`
	Audience  []string   `json:"audience,omitempty"`
	IssuedAt  int64      `json:"issued_at,omitempty"`
	ExpiresAt int64      `json:"expires_at,omitempty"`
	Claims    jot.Claims `json:"claims"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	verifier := middleware.NewTokenVerifier(s.Verifiers, s.DecodeOptions()...)

	// Create a subrouter for /whoami that requires a bearer token
	whoamiRouter := s.Router.PathPrefix("/whoami").Subrouter()
	whoamiRouter.Use(verifier.Middleware)

	whoamiRouter.HandleFunc("", handleWhoami()).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Set by the bearer token middleware
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unable to determine identity")
			return
		}

		response := WhoamiResponse{
			Subject:  id.Subject,
			Issuer:   id.Issuer,
			TokenID:  id.TokenID,
			Audience: id.Audience,
			Claims:   id.Claims,
		}
		if !id.IssuedAt.IsZero() {
			response.IssuedAt = id.IssuedAt.Unix()
		}
		if !id.ExpiresAt.IsZero() {
			response.ExpiresAt = id.ExpiresAt.Unix()
		}

		respondWithJSON(w, http.StatusOK, response)
	}
}
