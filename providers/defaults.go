package providers

import (
	"fmt"

	"github.com/9seconds/ipinfo/infolib"
)

// ClientFactory returns HTTP client for a provider with a given name.
// Each provider should get its own client so circuit breakers do not
// interfere.
type ClientFactory func(name string) infolib.HTTPClient

// NewByName creates a provider by its name.
func NewByName(name string, client infolib.HTTPClient) (infolib.Provider, error) {
	switch name {
	case NameGeoJS:
		return NewGeoJS(client), nil
	case NameIPSB:
		return NewIPSB(client), nil
	case NameCloudflareDoH:
		return NewCloudflareDoH(client), nil
	case NameGoogleDoH:
		return NewGoogleDoH(client), nil
	case NameGeoJSPTR:
		return NewGeoJSPTR(client), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
}

// DefaultProviders returns all providers in DefaultOrder.
func DefaultProviders(factory ClientFactory) ([]infolib.Provider, error) {
	rv := make([]infolib.Provider, 0, len(DefaultOrder))

	for _, name := range DefaultOrder {
		prov, err := NewByName(name, factory(name))
		if err != nil {
			return nil, err
		}

		rv = append(rv, prov)
	}

	return rv, nil
}
