package providers

import (
	"context"

	"github.com/9seconds/ipinfo/infolib"
)

const geojsGeoURL = "https://get.geojs.io/v1/ip/geo/"

type geojsResponse struct {
	IP               string    `json:"ip"`
	Country          string    `json:"country"`
	CountryCode      string    `json:"country_code"`
	Region           string    `json:"region"`
	City             string    `json:"city"`
	Latitude         flexFloat `json:"latitude"`
	Longitude        flexFloat `json:"longitude"`
	Timezone         string    `json:"timezone"`
	ASN              uint32    `json:"asn"`
	OrganizationName string    `json:"organization_name"`
}

type geojsProvider struct {
	client infolib.HTTPClient
}

func (g geojsProvider) Name() string {
	return NameGeoJS
}

func (g geojsProvider) Lookup(ctx context.Context, query infolib.Query) (*infolib.IPInfo, error) {
	if query.IP == nil {
		return nil, ErrNoIP
	}

	jsonResponse := geojsResponse{}

	if err := getJSON(ctx, g.client, geojsGeoURL+query.IP.String()+".json", &jsonResponse); err != nil {
		return nil, err
	}

	if jsonResponse.IP == "" {
		return nil, ErrNoAnswer
	}

	return &infolib.IPInfo{
		ASN:          jsonResponse.ASN,
		Organization: jsonResponse.OrganizationName,
		Country:      jsonResponse.Country,
		CountryCode:  jsonResponse.CountryCode,
		Region:       jsonResponse.Region,
		City:         jsonResponse.City,
		Latitude:     jsonResponse.Latitude.Ptr(),
		Longitude:    jsonResponse.Longitude.Ptr(),
		Timezone:     jsonResponse.Timezone,
	}, nil
}

// NewGeoJS returns a provider for get.geojs.io geolocation API.
func NewGeoJS(client infolib.HTTPClient) infolib.Provider {
	return geojsProvider{
		client: client,
	}
}
