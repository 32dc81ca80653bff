package server

import (
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/jot/pkg/config"
	"github.com/doodlesbykumbi/jot/pkg/jot"
)

type Server struct {
	Config    *config.JotConfig
	Signer    jot.Algorithm
	Verifiers []jot.Algorithm
	Router    *mux.Router
	srv       *http.Server
}

func NewServer(cfg *config.JotConfig, signer jot.Algorithm, verifiers []jot.Algorithm) *Server {
	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    cfg.Addr(),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Config:    cfg,
		Signer:    signer,
		Verifiers: verifiers,
		Router:    router,
		srv:       srv,
	}
}

// DecodeOptions returns the decode options implied by the server config.
// The first configured audience names this service; presented tokens must
// be addressed to it.
func (s *Server) DecodeOptions() []jot.DecodeOption {
	var opts []jot.DecodeOption
	if s.Config.Leeway > 0 {
		opts = append(opts, jot.WithLeeway(s.Config.LeewayDuration()))
	}
	if s.Config.Issuer != "" {
		opts = append(opts, jot.WithIssuer(s.Config.Issuer))
	}
	if len(s.Config.Audience) > 0 {
		opts = append(opts, jot.WithAudience(s.Config.Audience[0]))
	}
	return opts
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}

// StartWithListener serves on an already-bound listener. Tests use it to
// claim a port before the server becomes reachable.
func (s Server) StartWithListener(l net.Listener) error {
	return s.srv.Serve(l)
}
