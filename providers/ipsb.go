package providers

import (
	"context"
	"fmt"

	"github.com/9seconds/ipinfo/infolib"
)

const ipsbGeoURL = "https://api.ip.sb/geoip/"

type ipsbResponse struct {
	IP              string    `json:"ip"`
	Code            int       `json:"code"`
	Message         string    `json:"message"`
	Country         string    `json:"country"`
	CountryCode     string    `json:"country_code"`
	Region          string    `json:"region"`
	City            string    `json:"city"`
	PostalCode      string    `json:"postal_code"`
	Latitude        flexFloat `json:"latitude"`
	Longitude       flexFloat `json:"longitude"`
	Timezone        string    `json:"timezone"`
	ISP             string    `json:"isp"`
	Organization    string    `json:"organization"`
	ASN             uint32    `json:"asn"`
	ASNOrganization string    `json:"asn_organization"`
}

type ipsbProvider struct {
	client infolib.HTTPClient
}

func (i ipsbProvider) Name() string {
	return NameIPSB
}

func (i ipsbProvider) Lookup(ctx context.Context, query infolib.Query) (*infolib.IPInfo, error) {
	if query.IP == nil {
		return nil, ErrNoIP
	}

	jsonResponse := ipsbResponse{}

	if err := getJSON(ctx, i.client, ipsbGeoURL+query.IP.String(), &jsonResponse); err != nil {
		return nil, err
	}

	switch {
	case jsonResponse.Code != 0:
		return nil, fmt.Errorf("%w: %d %s", ErrNoAnswer, jsonResponse.Code, jsonResponse.Message)
	case jsonResponse.IP == "":
		return nil, ErrNoAnswer
	}

	organization := jsonResponse.Organization
	if organization == "" {
		organization = jsonResponse.ASNOrganization
	}

	return &infolib.IPInfo{
		ASN:          jsonResponse.ASN,
		Organization: organization,
		ISP:          jsonResponse.ISP,
		Country:      jsonResponse.Country,
		CountryCode:  jsonResponse.CountryCode,
		Region:       jsonResponse.Region,
		City:         jsonResponse.City,
		PostalCode:   jsonResponse.PostalCode,
		Latitude:     jsonResponse.Latitude.Ptr(),
		Longitude:    jsonResponse.Longitude.Ptr(),
		Timezone:     jsonResponse.Timezone,
	}, nil
}

// NewIPSB returns a provider for api.ip.sb geolocation API.
func NewIPSB(client infolib.HTTPClient) infolib.Provider {
	return ipsbProvider{
		client: client,
	}
}
