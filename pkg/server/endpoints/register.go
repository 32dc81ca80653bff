package endpoints

import (
	"github.com/doodlesbykumbi/jot/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoint(srv)
	RegisterTokensEndpoint(srv)
	RegisterWhoamiEndpoint(srv)
}
