package dashboard

import (
	"net/http"

	"github.com/gorilla/mux"
)

type apiRoute struct {
	Path    string
	Method  string
	Handler http.HandlerFunc
}

func (s *Server) apiRoutes() []apiRoute {
	return []apiRoute{
		{
			Path:    "/charts",
			Method:  http.MethodGet,
			Handler: s.GetCharts,
		},
		{
			Path:    "/options",
			Method:  http.MethodGet,
			Handler: s.GetOptions,
		},
	}
}

func (s *Server) serveRoutes(router *mux.Router) {
	router.HandleFunc("/", s.GetIndex).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.GetHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	for _, r := range s.apiRoutes() {
		api.HandleFunc(r.Path, r.Handler).Methods(r.Method)
	}
}
