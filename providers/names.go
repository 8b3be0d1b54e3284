package providers

const (
	// Identifier for get.geojs.io geolocation API.
	NameGeoJS = "geojs.io"

	// Identifier for api.ip.sb geolocation API.
	NameIPSB = "ip.sb"

	// Identifier for Team Cymru origin lookups over Cloudflare DoH.
	NameCloudflareDoH = "cloudflare-doh"

	// Identifier for Team Cymru origin lookups over Google DoH.
	NameGoogleDoH = "google-doh"

	// Identifier for PTR lookups of get.geojs.io.
	NameGeoJSPTR = "geojs.io-ptr"
)

// DefaultOrder is an order of providers used if nothing else is
// configured. The fastest and the most detailed go first, PTR-only
// provider is the last resort.
var DefaultOrder = []string{
	NameGeoJS,
	NameIPSB,
	NameCloudflareDoH,
	NameGoogleDoH,
	NameGeoJSPTR,
}
