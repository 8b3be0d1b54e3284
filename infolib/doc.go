// This package provides a set of structs and functions which are used
// to get descriptive information about IP addresses and domains.
//
// infolib is a core of the ipinfo project. You can treat the rest of
// the application as an _example_ on how to use this library: how to
// wire providers, how to pass parameters from HTTP requests, how to
// generate responses.
//
// Resolver is a main entity of the infolib. It has an ordered list of
// providers and asks them one by one until somebody returns a
// meaningful answer. Order is a preference: the fastest and the most
// reliable providers go first. If nobody knows anything about a query,
// Resolver returns nil without any error, so callers can render an
// explicit 'unknown' state.
//
// Providers talk to the outer world with HTTPClient which is rate
// limited and protected by circuit breaker. An opened circuit breaker
// is just another failure for Resolver: it goes to the next provider.
package infolib
