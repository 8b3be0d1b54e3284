package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/9seconds/ipinfo/infolib"
	"github.com/miekg/dns"
)

const (
	cymruOriginZone  = "origin.asn.cymru.com"
	cymruOrigin6Zone = "origin6.asn.cymru.com"
)

// cymruProvider asks Team Cymru IP to ASN mapping over DoH. A single
// TXT query to origin zone gives ASN, announced prefix, country and
// registry.
type cymruProvider struct {
	name string
	doh  *DoHClient
}

func (c cymruProvider) Name() string {
	return c.name
}

func (c cymruProvider) Lookup(ctx context.Context, query infolib.Query) (*infolib.IPInfo, error) {
	if query.IP == nil {
		return nil, ErrNoIP
	}

	labels, isIPv6, err := infolib.ReverseLabels(query.IP.String())
	if err != nil {
		return nil, fmt.Errorf("cannot build a query name: %w", err)
	}

	zone := cymruOriginZone
	if isIPv6 {
		zone = cymruOrigin6Zone
	}

	reply, err := c.doh.Exchange(ctx, labels+"."+zone, dns.TypeTXT)
	if err != nil {
		return nil, err
	}

	for _, rr := range reply.Answer {
		if txt, ok := rr.(*dns.TXT); ok {
			if info, err := parseCymruOrigin(strings.Join(txt.Txt, "")); err == nil {
				return info, nil
			}
		}
	}

	return nil, ErrNoAnswer
}

// parseCymruOrigin parses records like
// "15169 | 8.8.8.0/24 | US | arin | 2023-12-28".
func parseCymruOrigin(record string) (*infolib.IPInfo, error) {
	chunks := strings.Split(record, "|")
	if len(chunks) < 3 {
		return nil, fmt.Errorf("incorrect origin record: %s", record)
	}

	for i := range chunks {
		chunks[i] = strings.TrimSpace(chunks[i])
	}

	// multi-origin prefixes list several ASNs
	asnFields := strings.Fields(chunks[0])
	if len(asnFields) == 0 {
		return nil, fmt.Errorf("no asn in origin record: %s", record)
	}

	asn, err := strconv.ParseUint(asnFields[0], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("incorrect asn %s: %w", asnFields[0], err)
	}

	rv := &infolib.IPInfo{
		ASN:         uint32(asn),
		Network:     chunks[1],
		CountryCode: chunks[2],
	}

	if len(chunks) > 3 {
		rv.Registry = chunks[3]
	}

	return rv, nil
}

// NewCloudflareDoH returns a provider which asks Team Cymru via
// Cloudflare DoH.
func NewCloudflareDoH(client infolib.HTTPClient) infolib.Provider {
	return cymruProvider{
		name: NameCloudflareDoH,
		doh:  NewDoHClient(client, CloudflareDoHURL),
	}
}

// NewGoogleDoH returns a provider which asks Team Cymru via Google
// DoH.
func NewGoogleDoH(client infolib.HTTPClient) infolib.Provider {
	return cymruProvider{
		name: NameGoogleDoH,
		doh:  NewDoHClient(client, GoogleDoHURL),
	}
}
