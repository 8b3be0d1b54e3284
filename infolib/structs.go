package infolib

import "net"

// IPInfo is a common shape of provider answers. Providers fill only
// those fields they actually know about, everything else stays empty.
type IPInfo struct {
	IP           net.IP   `json:"ip"`
	Hostname     string   `json:"hostname,omitempty"`
	ASN          uint32   `json:"asn,omitempty"`
	Organization string   `json:"organization,omitempty"`
	ISP          string   `json:"isp,omitempty"`
	Network      string   `json:"network,omitempty"`
	Registry     string   `json:"registry,omitempty"`
	Country      string   `json:"country,omitempty"`
	CountryCode  string   `json:"country_code,omitempty"`
	Region       string   `json:"region,omitempty"`
	City         string   `json:"city,omitempty"`
	PostalCode   string   `json:"postal_code,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Timezone     string   `json:"timezone,omitempty"`
	Provider     string   `json:"provider"`
}

// Empty tells that this result carries nothing except of IP and
// provider name.
func (i *IPInfo) Empty() bool {
	if i == nil {
		return true
	}

	return i.Hostname == "" &&
		i.ASN == 0 &&
		i.Organization == "" &&
		i.ISP == "" &&
		i.Network == "" &&
		i.Country == "" &&
		i.CountryCode == "" &&
		i.Region == "" &&
		i.City == "" &&
		i.PostalCode == "" &&
		i.Latitude == nil &&
		i.Longitude == nil &&
		i.Timezone == ""
}

// Normalize cleans up a country code: it has to be a known 2-letter
// ISO3166 code in upper case. Unknown codes are dropped.
func (i *IPInfo) Normalize() {
	if i == nil {
		return
	}

	i.CountryCode = normalizeCountryCode(i.CountryCode)
}

// LookupResult is a result of resolving of a single query within a
// batch.
type LookupResult struct {
	Query  string  `json:"query"`
	Result *IPInfo `json:"result"`
	Error  string  `json:"error,omitempty"`
}

// OK tells if this result has some information.
func (l *LookupResult) OK() bool {
	return l.Result != nil
}
