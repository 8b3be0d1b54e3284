package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/9seconds/ipinfo/infolib"
)

const myIPMaxResponseSize = 1024

var (
	// DefaultMyIPv4Sources is a list of endpoints which return IPv4
	// address of the caller.
	DefaultMyIPv4Sources = []string{
		"https://api-ipv4.ip.sb/ip",
		"https://api.ipify.org?format=json",
		"https://get.geojs.io/v1/ip.json",
	}

	// DefaultMyIPv6Sources is a list of endpoints which return IPv6
	// address of the caller.
	DefaultMyIPv6Sources = []string{
		"https://api-ipv6.ip.sb/ip",
		"https://api6.ipify.org?format=json",
		"https://get.geojs.io/v1/ip.json",
	}
)

// MyIP detects a public IP address of this machine. Sources are asked
// one by one until one of them returns an address of the requested
// family.
type MyIP struct {
	client      infolib.HTTPClient
	ipv4Sources []string
	ipv6Sources []string
}

// IPv4 returns a public IPv4 address.
func (m *MyIP) IPv4(ctx context.Context) (net.IP, error) {
	return m.detect(ctx, m.ipv4Sources, false)
}

// IPv6 returns a public IPv6 address.
func (m *MyIP) IPv6(ctx context.Context) (net.IP, error) {
	return m.detect(ctx, m.ipv6Sources, true)
}

func (m *MyIP) detect(ctx context.Context, sources []string, wantIPv6 bool) (net.IP, error) {
	for _, url := range sources {
		ip, err := m.ask(ctx, url)

		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			continue
		case wantIPv6 && ip.To4() == nil:
			return ip, nil
		case !wantIPv6 && ip.To4() != nil:
			return ip.To4(), nil
		}
	}

	return nil, ErrNoAddress
}

func (m *MyIP) ask(ctx context.Context, url string) (net.IP, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot build a request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(bufio.NewReader(resp.Body), myIPMaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("cannot read response body: %w", err)
	}

	return parseMyIPResponse(body)
}

// parseMyIPResponse accepts both plain text responses and JSON objects
// with ip field.
func parseMyIPResponse(body []byte) (net.IP, error) {
	text := strings.TrimSpace(string(body))

	if strings.HasPrefix(text, "{") {
		jsonResponse := struct {
			IP string `json:"ip"`
		}{}

		if err := json.Unmarshal([]byte(text), &jsonResponse); err != nil {
			return nil, fmt.Errorf("cannot parse a response: %w", err)
		}

		text = jsonResponse.IP
	}

	ip := net.ParseIP(text)
	if ip == nil {
		return nil, fmt.Errorf("incorrect ip address %q", text)
	}

	return ip, nil
}

// NewMyIP returns MyIP with default sources.
func NewMyIP(client infolib.HTTPClient) *MyIP {
	return NewMyIPWithSources(client, DefaultMyIPv4Sources, DefaultMyIPv6Sources)
}

// NewMyIPWithSources returns MyIP with custom sources.
func NewMyIPWithSources(client infolib.HTTPClient, ipv4Sources, ipv6Sources []string) *MyIP {
	return &MyIP{
		client:      client,
		ipv4Sources: ipv4Sources,
		ipv6Sources: ipv6Sources,
	}
}
