package enums

import (
	"fmt"
	"strings"
)

// MomoProvider identifies a Ghana mobile money network.
type MomoProvider string

const (
	MomoProviderMTN        MomoProvider = "mtn"
	MomoProviderVodafone   MomoProvider = "vodafone"
	MomoProviderAirtelTigo MomoProvider = "airtel_tigo"
)

var validMomoProviders = []MomoProvider{
	MomoProviderMTN,
	MomoProviderVodafone,
	MomoProviderAirtelTigo,
}

// Gateway charge APIs use short provider codes that differ from the
// customer-facing names.
var momoProviderAliases = map[string]MomoProvider{
	"mtn":         MomoProviderMTN,
	"vodafone":    MomoProviderVodafone,
	"vod":         MomoProviderVodafone,
	"airtel_tigo": MomoProviderAirtelTigo,
	"airteltigo":  MomoProviderAirtelTigo,
	"tgo":         MomoProviderAirtelTigo,
}

// String implements fmt.Stringer.
func (m MomoProvider) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MomoProvider.
func (m MomoProvider) IsValid() bool {
	for _, candidate := range validMomoProviders {
		if candidate == m {
			return true
		}
	}
	return false
}

// GatewayCode returns the short provider code the gateway expects.
func (m MomoProvider) GatewayCode() string {
	switch m {
	case MomoProviderVodafone:
		return "vod"
	case MomoProviderAirtelTigo:
		return "tgo"
	default:
		return "mtn"
	}
}

// ParseMomoProvider converts raw input, including gateway short codes, into a
// MomoProvider.
func ParseMomoProvider(value string) (MomoProvider, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if provider, ok := momoProviderAliases[normalized]; ok {
		return provider, nil
	}
	return "", fmt.Errorf("invalid mobile money provider %q", value)
}
