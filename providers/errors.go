package providers

import "errors"

var (
	// ErrUnknownProvider is returned by NewByName for unsupported
	// names.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrNoIP is returned by providers if query has no IP address.
	// Providers work with addresses only, domains are resolved before.
	ErrNoIP = errors.New("query has no ip address")

	// ErrNoAnswer is returned if provider has responded but response
	// has no meaningful data.
	ErrNoAnswer = errors.New("provider has no answer")

	// ErrDNSFailure is returned if DNS server has responded with
	// non-successful rcode.
	ErrDNSFailure = errors.New("dns query has failed")

	// ErrDNSMismatch is returned if DNS reply does not correspond to
	// the query.
	ErrDNSMismatch = errors.New("dns reply does not match the query")

	// ErrNoAddress is returned by MyIP if nobody could detect an
	// address of the requested family.
	ErrNoAddress = errors.New("cannot detect ip address")
)
