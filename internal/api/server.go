// Package api is the HTTP adapter in front of the approval service.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/approvalbridge/bridge-go/internal/service"
)

// Server is the HTTP API server for the approval bridge.
type Server struct {
	svc     *service.Service
	mux     *http.ServeMux
	handler http.Handler
}

// New creates a Server with the given service, CORS origins, and OIDC settings.
func New(svc *service.Service, corsOrigins []string, oidcCfg OIDCConfig) (*Server, error) {
	s := &Server{svc: svc, mux: http.NewServeMux()}
	s.routes()

	var h http.Handler = s.mux
	if oidcCfg.Enabled {
		provider, err := oidc.NewProvider(context.Background(), oidcCfg.IssuerURL)
		if err != nil {
			return nil, fmt.Errorf("api: oidc discovery: %w", err)
		}
		h = oidcAuth(provider, oidcCfg.Audience)(h)
	}
	s.handler = requestID(logging(cors(corsOrigins, h)))
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("POST /api/trigger-workflow", s.handleTrigger)
	s.mux.HandleFunc("POST /api/process-action", s.handleAction)
}
