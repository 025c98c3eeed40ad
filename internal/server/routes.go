package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// route is one entry of the static route table.
type route struct {
	name    string
	method  string
	path    string
	handler http.HandlerFunc
}

// routes returns the route table of s.
func (s *Server) routes() []route {
	return []route{
		{name: "verify", method: http.MethodPost, path: "/verifier", handler: s.handleVerify},
		{name: "generateCredential", method: http.MethodGet, path: "/generer", handler: s.handleGenerate},
		{name: "bruteForceAttack", method: http.MethodPost, path: "/attacker/brute_force", handler: s.handleBruteForce},
		{name: "dictionaryAttack", method: http.MethodPost, path: "/attacker/dictionary", handler: s.handleDictionary},
		{name: "health", method: http.MethodGet, path: "/healthz", handler: s.handleHealth},
	}
}

// validateRoutes rejects incomplete entries and duplicate names or
// method and path pairs.
func validateRoutes(routes []route) error {
	names := make(map[string]struct{}, len(routes))
	endpoints := make(map[string]struct{}, len(routes))

	for i, rt := range routes {
		if rt.name == "" || rt.method == "" || rt.path == "" || rt.handler == nil {
			return fmt.Errorf("%w: entry %d (%q %s %s)", ErrInvalidRoute, i, rt.name, rt.method, rt.path)
		}
		if _, ok := names[rt.name]; ok {
			return fmt.Errorf("%w: name %q", ErrDuplicateRoute, rt.name)
		}
		names[rt.name] = struct{}{}

		endpoint := rt.method + " " + rt.path
		if _, ok := endpoints[endpoint]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateRoute, endpoint)
		}
		endpoints[endpoint] = struct{}{}
	}
	return nil
}

// newRouter validates routes and registers them on a mux.Router.
func newRouter(routes []route, notFound http.Handler) (*mux.Router, error) {
	if err := validateRoutes(routes); err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	for _, rt := range routes {
		r.HandleFunc(rt.path, rt.handler).Methods(rt.method).Name(rt.name)
	}
	r.NotFoundHandler = notFound
	return r, nil
}
