package endpoints

import (
	"net/http"
	"os"

	"github.com/doodlesbykumbi/jot/pkg/server"
)

// StatusResponse represents the response from the / endpoint
type StatusResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Algorithm string `json:"algorithm"`
	Issuer    string `json:"issuer,omitempty"`
}

// RegisterStatusEndpoint registers the status endpoint
func RegisterStatusEndpoint(s *server.Server) {
	// GET / - Status (no auth required)
	s.Router.HandleFunc("/", handleStatus(s)).Methods("GET")
}

func handleStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("JOT_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		respondWithJSON(w, http.StatusOK, StatusResponse{
			Status:    "ok",
			Version:   version,
			Algorithm: s.Signer.Name(),
			Issuer:    s.Config.Issuer,
		})
	}
}
