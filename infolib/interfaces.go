package infolib

import (
	"context"
	"net"
	"net/http"
)

// Provider is something which knows how to get information about
// a given query. Provider has to return nil or an error if it has
// nothing to say, Resolver goes to the next one then.
type Provider interface {
	Name() string
	Lookup(context.Context, Query) (*IPInfo, error)
}

// DomainResolver resolves domain names into a list of IP addresses.
// Resolver uses it to convert domain queries into something providers
// can work with.
type DomainResolver interface {
	LookupIPs(ctx context.Context, domain string) ([]net.IP, error)
}

// HTTPClient is an interface of HTTP client which should be used by
// providers. A default implementation is created by NewHTTPClient.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Logger is used by Resolver to report about failures of providers.
type Logger interface {
	LookupError(query Query, name string, err error)
	LookupExhausted(query Query)
}
