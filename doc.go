// ipinfo is a tool to get descriptive information about IP addresses
// and domains: location, ISP, organization, ASN, reverse DNS name.
//
// Idea is simple: there are a lot of free services which know
// something about IP address. None of them is reliable enough, so
// ipinfo asks them one by one, in order of preference, and returns the
// first meaningful answer.
//
// Tool itself is organized into 3 logical parts:
//
// Infolib
//
// infolib is a main package of the application which contains
// Resolver struct and fallback logic. It also has a rate limited HTTP
// client with circuit breaker, usage statistics and its own HTTP API.
//
// Providers
//
// This package has a set of provider implementations: geojs.io, ip.sb,
// Team Cymru over Cloudflare and Google DoH and PTR-only geojs.io
// fallback. It also has DoH domain resolver and public IP detection.
//
// Ipinfo
//
// A main package itself is an example of how to wire both infolib and
// providers. It provides CLI and HTTP server which you can use in your
// infrastructure as is.
package main
