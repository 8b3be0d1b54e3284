package infolib

import (
	"strings"

	"github.com/pariz/gountries"
)

var countryCodeQuery = gountries.New()

func normalizeCountryCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return ""
	}

	if _, err := countryCodeQuery.FindCountryByAlpha(code); err != nil {
		return ""
	}

	return code
}
