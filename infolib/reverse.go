package infolib

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

const (
	reverseZoneIPv4 = ".in-addr.arpa"
	reverseZoneIPv6 = ".ip6.arpa"
)

// ReverseName returns a name which should be used for reverse DNS
// lookups of the given address. 8.8.4.4 becomes 4.4.8.8.in-addr.arpa,
// IPv6 addresses are expanded into 32 nibbles in reverse order and get
// ip6.arpa suffix. Returned name has no trailing dot.
//
// Anything which is not a valid IP address is rejected with
// ErrInvalidAddress.
func ReverseName(addr string) (string, error) {
	addr = strings.TrimSpace(addr)

	if addr == "" {
		return "", fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}

	name, err := dns.ReverseAddr(addr)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}

	return strings.TrimSuffix(name, "."), nil
}

// ReverseLabels returns labels of reverse name without a zone suffix.
// For 8.8.4.4 it is 4.4.8.8. This is what zones like Team Cymru origin
// expect. isIPv6 tells which zone the address belongs to.
func ReverseLabels(addr string) (labels string, isIPv6 bool, err error) {
	name, err := ReverseName(addr)
	if err != nil {
		return "", false, err
	}

	if strings.HasSuffix(name, reverseZoneIPv6) {
		return strings.TrimSuffix(name, reverseZoneIPv6), true, nil
	}

	return strings.TrimSuffix(name, reverseZoneIPv4), false, nil
}
