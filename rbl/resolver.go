package rbl

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

// Error strings surfaced in ZoneResult.Error. These are part of the response
// contract and must stay stable.
const (
	msgNoAnswer = "No answer from DNS server"
	msgTimeout  = "Query timeout"
)

// queryTimeout bounds both the UDP exchange and the overall lifetime of a
// single zone query.
const queryTimeout = 5 * time.Second

// Resolver issues reputation-zone A queries against a single upstream
// nameserver. It is safe for concurrent use; create one at startup and share
// it across requests.
type Resolver struct {
	client *dns.Client
	server string // host:port of the upstream nameserver
}

// NewResolver creates a Resolver that queries the nameserver at server
// (host:port).
func NewResolver(server string) *Resolver {
	initMetrics()
	return &Resolver{
		client: &dns.Client{Timeout: queryTimeout},
		server: server,
	}
}

// SystemResolverAddr returns the first nameserver from /etc/resolv.conf, or
// localhost when none can be read.
func SystemResolverAddr() string {
	cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(cfg.Servers) == 0 {
		return net.JoinHostPort("127.0.0.1", "53")
	}
	return net.JoinHostPort(cfg.Servers[0], cfg.Port)
}

// QueryZone resolves reversedKey against a single reputation zone and
// classifies the outcome. Reputation-zone semantics are inverted from
// ordinary DNS: an answer means the address is listed, NXDOMAIN is the
// nominal clean outcome. DNS-layer failures never propagate as errors; they
// are captured in ZoneResult.Error so a single broken zone cannot fail the
// aggregate lookup.
func (r *Resolver) QueryZone(ctx context.Context, reversedKey, zone string) ZoneResult {
	name := dns.Fqdn(reversedKey + "." + zone)

	m := new(dns.Msg)
	m.SetQuestion(name, dns.TypeA)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	start := time.Now()
	resp, _, err := r.client.ExchangeContext(ctx, m, r.server)
	observeZoneQuery(zone, time.Since(start).Seconds())

	result := ZoneResult{Zone: zone, ResponseAddresses: []string{}}

	switch {
	case err != nil:
		if isTimeout(err) {
			result.Error = errString(msgTimeout)
			incZoneQuery(zone, "timeout")
		} else {
			result.Error = errString(fmt.Sprintf("Error: %s", err))
			incZoneQuery(zone, "error")
		}
		log.Debugf("zone %s: query %s failed: %v", zone, name, err)

	case resp.Rcode == dns.RcodeNameError:
		// NXDOMAIN: not listed
		incZoneQuery(zone, "clean")

	case resp.Rcode != dns.RcodeSuccess:
		result.Error = errString(fmt.Sprintf("Error: %s", dns.RcodeToString[resp.Rcode]))
		incZoneQuery(zone, "error")

	default:
		addrs := answerAddresses(resp)
		if len(addrs) == 0 {
			result.Error = errString(msgNoAnswer)
			incZoneQuery(zone, "noanswer")
		} else {
			result.IsListed = true
			result.ResponseAddresses = addrs
			incZoneQuery(zone, "listed")
		}
	}

	return result
}

// answerAddresses extracts A record addresses in resolver-returned order.
func answerAddresses(resp *dns.Msg) []string {
	var addrs []string
	for _, rr := range resp.Answer {
		if a, ok := rr.(*dns.A); ok {
			addrs = append(addrs, a.A.String())
		}
	}
	return addrs
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func errString(msg string) *string {
	return &msg
}
