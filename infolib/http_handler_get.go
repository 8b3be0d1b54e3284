package infolib

import (
	"errors"
	"net"
	"net/http"
)

func (h httpHandler) handleGetSelf(w http.ResponseWriter, req *http.Request) {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		host = req.RemoteAddr
	}

	ipAddr := net.ParseIP(host)
	if ipAddr == nil {
		h.sendError(w, nil, "Address was detected incorrectly", 0)

		return
	}

	h.handleLookup(w, req, ipAddr.String())
}

func (h httpHandler) handleGetLookup(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query().Get("q")
	if query == "" {
		h.sendError(w, nil, "Query is required", http.StatusBadRequest)

		return
	}

	h.handleLookup(w, req, query)
}

func (h httpHandler) handleLookup(w http.ResponseWriter, req *http.Request, query string) {
	info, err := h.resolver.Lookup(req.Context(), query)

	switch {
	case errors.Is(err, ErrEmptyQuery), errors.Is(err, ErrInvalidQuery):
		h.sendError(w, err, "Incorrect query", http.StatusBadRequest)

		return
	case err != nil:
		h.sendError(w, err, "Cannot get IP info", 0)

		return
	case info == nil:
		h.sendError(w, nil, "Cannot get IP info", http.StatusNotFound)

		return
	}

	response := struct {
		Result *IPInfo `json:"result"`
	}{
		Result: info,
	}

	h.encodeJSON(w, response)
}

func (h httpHandler) handleGetDomain(w http.ResponseWriter, req *http.Request) {
	name := req.URL.Query().Get("name")
	if name == "" {
		h.sendError(w, nil, "Domain name is required", http.StatusBadRequest)

		return
	}

	ips, err := h.resolver.DomainIPs(req.Context(), name)

	switch {
	case errors.Is(err, ErrEmptyQuery), errors.Is(err, ErrInvalidQuery):
		h.sendError(w, err, "Incorrect domain name", http.StatusBadRequest)

		return
	case err != nil:
		h.sendError(w, err, "Cannot resolve domain name", http.StatusBadGateway)

		return
	}

	response := struct {
		Name string   `json:"name"`
		IPs  []net.IP `json:"ips"`
	}{
		Name: name,
		IPs:  ips,
	}

	if response.IPs == nil {
		response.IPs = []net.IP{}
	}

	h.encodeJSON(w, response)
}

func (h httpHandler) handleGetStats(w http.ResponseWriter, req *http.Request) {
	response := struct {
		Results []*UsageStats `json:"results"`
	}{
		Results: h.resolver.UsageStats(),
	}

	h.encodeJSON(w, response)
}
