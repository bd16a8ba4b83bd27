package rbl

import (
	"context"
	"fmt"
	"net/netip"
)

// Checker validates caller-supplied addresses and runs the full multi-zone
// reputation lookup against a fixed zone list.
type Checker struct {
	resolver *Resolver
	zones    []string
}

// NewChecker creates a Checker that queries the given zones, in order, via
// resolver. The zone list is captured as-is; its order determines result
// order in every response.
func NewChecker(resolver *Resolver, zones []string) *Checker {
	initMetrics()
	return &Checker{
		resolver: resolver,
		zones:    zones,
	}
}

// Lookup parses ip, reverses it into its lookup-key form and fans the key
// out to every configured zone. It fails only with ErrInvalidAddress, before
// any network activity; once validation passes the aggregate lookup always
// succeeds, with per-zone failures recorded inside the results.
func (c *Checker) Lookup(ctx context.Context, ip string) (*LookupResponse, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		incLookup("invalid")
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, ip)
	}
	// Zone identifiers (fe80::1%eth0) parse but cannot appear in DNS labels.
	if addr.Zone() != "" {
		incLookup("invalid")
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, ip)
	}

	family := IPv4
	if addr.Is6() && !addr.Is4In6() {
		family = IPv6
	}

	key := ReverseKey(addr)
	results := c.resolver.QueryAllZones(ctx, key, c.zones)
	incLookup(string(family))

	return &LookupResponse{
		QueryIP:     ip,
		ReversedKey: key,
		IPVersion:   family,
		Results:     results,
	}, nil
}
