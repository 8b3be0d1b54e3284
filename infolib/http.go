package infolib

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

const httpHandlerTimeout = time.Minute

type httpHandler struct {
	resolver *Resolver
}

func (h httpHandler) encodeJSON(w http.ResponseWriter, data interface{}) {
	encoder := json.NewEncoder(w)

	w.Header().Set("Content-Type", "application/json")
	encoder.SetEscapeHTML(false)
	encoder.Encode(data) // nolint: errcheck
}

func (h httpHandler) sendError(w http.ResponseWriter, err error, message string, statusCode int) {
	e := newAPIError(statusCode, message, err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status())

	encoder := json.NewEncoder(w)

	encoder.SetEscapeHTML(false)
	encoder.Encode(e) // nolint: errcheck
}

// NewHTTPHandler returns HTTP API for the given resolver.
//
//    GET  /                  - information about a caller IP
//    GET  /lookup?q=<query>  - information about IP or domain
//    POST /lookup            - batch lookup, {"queries": [...]}
//    GET  /domain?name=<...> - IP addresses of the domain
//    GET  /stats             - usage statistics of providers
func NewHTTPHandler(resolver *Resolver) http.Handler {
	handler := httpHandler{
		resolver: resolver,
	}
	router := chi.NewRouter()

	router.Use(middleware.StripSlashes)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RealIP)
	router.Use(middleware.Timeout(httpHandlerTimeout))

	router.Get("/", handler.handleGetSelf)
	router.Get("/lookup", handler.handleGetLookup)
	router.Post("/lookup", handler.handlePostLookup)
	router.Get("/domain", handler.handleGetDomain)
	router.Get("/stats", handler.handleGetStats)

	return router
}
