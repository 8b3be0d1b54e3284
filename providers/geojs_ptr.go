package providers

import (
	"context"
	"strings"

	"github.com/9seconds/ipinfo/infolib"
)

const geojsPTRURL = "https://get.geojs.io/v1/dns/ptr/"

type geojsPTRResponse struct {
	PTR string `json:"ptr"`
}

// geojsPTRProvider knows only a reverse DNS name. This is the least
// informative provider so it is used as the last resort.
type geojsPTRProvider struct {
	client infolib.HTTPClient
}

func (g geojsPTRProvider) Name() string {
	return NameGeoJSPTR
}

func (g geojsPTRProvider) Lookup(ctx context.Context, query infolib.Query) (*infolib.IPInfo, error) {
	if query.IP == nil {
		return nil, ErrNoIP
	}

	jsonResponse := geojsPTRResponse{}

	if err := getJSON(ctx, g.client, geojsPTRURL+query.IP.String()+".json", &jsonResponse); err != nil {
		return nil, err
	}

	ptr := strings.TrimSuffix(strings.TrimSpace(jsonResponse.PTR), ".")

	// geojs reports failures as a value of ptr field
	if ptr == "" || strings.Contains(ptr, " ") {
		return nil, ErrNoAnswer
	}

	return &infolib.IPInfo{
		Hostname: ptr,
	}, nil
}

// NewGeoJSPTR returns a provider which asks get.geojs.io for PTR
// records only.
func NewGeoJSPTR(client infolib.HTTPClient) infolib.Provider {
	return geojsPTRProvider{
		client: client,
	}
}
