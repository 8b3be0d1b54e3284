package providers

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/miekg/dns"
)

var domainResolverQueryTypes = []uint16{dns.TypeA, dns.TypeAAAA}

// DomainResolver resolves domain names into addresses with DoH. It has
// an ordered list of DoH clients and uses the next one only if the
// previous has failed. NXDOMAIN is a valid answer, it does not cause a
// fallback.
type DomainResolver struct {
	clients []*DoHClient
}

// LookupIPs returns IPv4 addresses followed by IPv6 addresses of the
// given domain. Empty list means that domain has no addresses.
func (d *DomainResolver) LookupIPs(ctx context.Context, domain string) ([]net.IP, error) {
	if len(d.clients) == 0 {
		return nil, ErrNoAnswer
	}

	var errs []error

	for _, client := range d.clients {
		ips, err := d.lookupWith(ctx, client, domain)
		if err == nil {
			return ips, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		errs = append(errs, fmt.Errorf("%s: %w", client.URL(), err))
	}

	return nil, fmt.Errorf("cannot resolve %s: %w", domain, errors.Join(errs...))
}

func (d *DomainResolver) lookupWith(ctx context.Context, client *DoHClient, domain string) ([]net.IP, error) {
	rv := []net.IP{}

	for _, qtype := range domainResolverQueryTypes {
		reply, err := client.Exchange(ctx, domain, qtype)
		if err != nil {
			return nil, err
		}

		if reply.Rcode == dns.RcodeNameError {
			return rv, nil
		}

		for _, rr := range reply.Answer {
			switch record := rr.(type) {
			case *dns.A:
				rv = append(rv, record.A)
			case *dns.AAAA:
				rv = append(rv, record.AAAA)
			}
		}
	}

	return rv, nil
}

// NewDomainResolver returns a resolver which uses clients in a given
// order.
func NewDomainResolver(clients ...*DoHClient) *DomainResolver {
	return &DomainResolver{
		clients: clients,
	}
}
