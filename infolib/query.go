package infolib

import (
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/idna"
)

const maxDomainLength = 253

var queryIDNAProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(true),
	idna.ValidateLabels(true),
	idna.VerifyDNSLength(true),
	idna.BidiRule())

// Query is a normalized user input. It is either IP address or domain
// name. For domain queries IP is filled by Resolver when domain is
// resolved.
type Query struct {
	Raw  string
	Host string
	IP   net.IP
}

// IsDomain tells if this query was a domain name.
func (q Query) IsDomain() bool {
	return q.Host != ""
}

func (q Query) String() string {
	switch {
	case q.Host != "" && q.IP != nil:
		return q.Host + " (" + q.IP.String() + ")"
	case q.Host != "":
		return q.Host
	case q.IP != nil:
		return q.IP.String()
	}

	return q.Raw
}

// ParseQuery parses a user input into Query. It accepts IPv4, IPv6
// (with or without brackets) and domain names, internationalized
// domains are converted into ASCII form.
func ParseQuery(raw string) (Query, error) {
	rv := Query{Raw: raw}
	value := strings.TrimSpace(raw)

	if value == "" {
		return rv, ErrEmptyQuery
	}

	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		value = value[1 : len(value)-1]
	}

	if ip := net.ParseIP(value); ip != nil {
		rv.IP = ip

		return rv, nil
	}

	if strings.ContainsAny(value, ":/@ ") {
		return rv, fmt.Errorf("%w: %s", ErrInvalidQuery, raw)
	}

	host, err := queryIDNAProfile.ToASCII(strings.TrimSuffix(strings.ToLower(value), "."))
	if err != nil {
		return rv, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	if len(host) > maxDomainLength || !strings.Contains(host, ".") {
		return rv, fmt.Errorf("%w: %s", ErrInvalidQuery, raw)
	}

	// top level domains are never numeric, so this is a broken IP
	tld := host[strings.LastIndexByte(host, '.')+1:]
	if strings.Trim(tld, "0123456789") == "" {
		return rv, fmt.Errorf("%w: %s", ErrInvalidQuery, raw)
	}

	rv.Host = host

	return rv, nil
}
