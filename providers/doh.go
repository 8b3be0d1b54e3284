package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/9seconds/ipinfo/infolib"
	"github.com/miekg/dns"
)

const (
	// CloudflareDoHURL is an RFC8484 endpoint of Cloudflare resolver.
	CloudflareDoHURL = "https://cloudflare-dns.com/dns-query"

	// GoogleDoHURL is an RFC8484 endpoint of Google resolver.
	GoogleDoHURL = "https://dns.google/dns-query"

	dohContentType     = "application/dns-message"
	dohMaxResponseSize = dns.MaxMsgSize
)

// DoHClient sends DNS queries over HTTPS with RFC8484 wire format.
type DoHClient struct {
	client infolib.HTTPClient
	url    string
}

// URL returns an endpoint of DoH server.
func (d *DoHClient) URL() string {
	return d.url
}

// Exchange sends a single question and returns a reply. Replies with
// NXDOMAIN are returned as is, any other unsuccessful rcode is an
// error.
func (d *DoHClient) Exchange(ctx context.Context, name string, qtype uint16) (*dns.Msg, error) {
	query := &dns.Msg{}

	query.SetQuestion(dns.Fqdn(name), qtype)

	// RFC8484 4.1: use 0 to be cache friendly
	query.Id = 0

	packed, err := query.Pack()
	if err != nil {
		return nil, fmt.Errorf("cannot pack dns query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(packed))
	if err != nil {
		return nil, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Content-Type", dohContentType)
	req.Header.Set("Accept", dohContentType)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if contentType := resp.Header.Get("Content-Type"); !strings.HasPrefix(contentType, dohContentType) {
		return nil, fmt.Errorf("unexpected content type: %s", contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, dohMaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("cannot read response body: %w", err)
	}

	reply := &dns.Msg{}
	if err := reply.Unpack(body); err != nil {
		return nil, fmt.Errorf("cannot unpack dns reply: %w", err)
	}

	if err := validateDNSReply(query, reply); err != nil {
		return nil, err
	}

	if reply.Rcode != dns.RcodeSuccess && reply.Rcode != dns.RcodeNameError {
		return nil, fmt.Errorf("%w: %s", ErrDNSFailure, dns.RcodeToString[reply.Rcode])
	}

	return reply, nil
}

func validateDNSReply(query, reply *dns.Msg) error {
	switch {
	case !reply.Response:
		return fmt.Errorf("%w: not a response", ErrDNSMismatch)
	case reply.Id != query.Id:
		return fmt.Errorf("%w: id %d", ErrDNSMismatch, reply.Id)
	case len(reply.Question) != 1:
		return fmt.Errorf("%w: %d questions", ErrDNSMismatch, len(reply.Question))
	}

	asked, answered := query.Question[0], reply.Question[0]

	if !strings.EqualFold(asked.Name, answered.Name) ||
		asked.Qtype != answered.Qtype ||
		asked.Qclass != answered.Qclass {
		return fmt.Errorf("%w: %s", ErrDNSMismatch, answered.String())
	}

	return nil
}

// NewDoHClient returns a client for the given DoH endpoint.
func NewDoHClient(client infolib.HTTPClient, url string) *DoHClient {
	return &DoHClient{
		client: client,
		url:    url,
	}
}
