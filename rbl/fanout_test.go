package rbl

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zoneAwareHandler answers NXDOMAIN for every zone except those listed in
// listed, and delays its reply for zones with a "slow" label.
func zoneAwareHandler(delay time.Duration, listed ...string) dns.Handler {
	return dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		name := req.Question[0].Name
		if strings.Contains(name, ".slow.") {
			time.Sleep(delay)
		}
		for _, zone := range listed {
			if strings.HasSuffix(name, zone+".") {
				_ = w.WriteMsg(answerFor(req, "127.0.0.2"))
				return
			}
		}
		m := new(dns.Msg)
		m.SetRcode(req, dns.RcodeNameError)
		_ = w.WriteMsg(m)
	})
}

func answerFor(req *dns.Msg, addr string) *dns.Msg {
	m := new(dns.Msg)
	m.SetReply(req)
	m.Answer = append(m.Answer, &dns.A{
		Hdr: dns.RR_Header{
			Name:   req.Question[0].Name,
			Rrtype: dns.TypeA,
			Class:  dns.ClassINET,
			Ttl:    60,
		},
		A: []byte{127, 0, 0, 2},
	})
	return m
}

func TestQueryAllZonesOrder(t *testing.T) {
	zones := []string{
		"wl.none.example.com",
		"wl.med.example.com",
		"wl.hi.example.com",
		"bl.example.com",
	}
	addr := runLocalDNS(t, zoneAwareHandler(0, "bl.example.com"))
	r := NewResolver(addr)

	results := r.QueryAllZones(context.Background(), "2.0.0.127", zones)

	require.Len(t, results, len(zones))
	for i, zone := range zones {
		assert.Equal(t, zone, results[i].Zone)
	}
	assert.False(t, results[0].IsListed)
	assert.False(t, results[1].IsListed)
	assert.False(t, results[2].IsListed)
	assert.True(t, results[3].IsListed)
}

// A single slow zone must delay the aggregate by roughly one query timeout,
// not one timeout per zone.
func TestQueryAllZonesConcurrent(t *testing.T) {
	zones := []string{
		"wl.none.example.com",
		"wl.slow.example.com",
		"wl.hi.example.com",
		"bl.example.com",
	}
	addr := runLocalDNS(t, zoneAwareHandler(2*time.Second))

	r := NewResolver(addr)
	r.client.Timeout = 300 * time.Millisecond

	start := time.Now()
	results := r.QueryAllZones(context.Background(), "2.0.0.127", zones)
	elapsed := time.Since(start)

	require.Len(t, results, len(zones))
	assert.Less(t, elapsed, 4*r.client.Timeout, "zone queries ran sequentially")

	require.NotNil(t, results[1].Error)
	assert.Equal(t, "Query timeout", *results[1].Error)
	for _, i := range []int{0, 2, 3} {
		assert.Nil(t, results[i].Error)
	}
}

func TestQueryAllZonesCancellation(t *testing.T) {
	zones := []string{"wl.slow.example.com", "bl.slow.example.com"}
	addr := runLocalDNS(t, zoneAwareHandler(5*time.Second))
	r := NewResolver(addr)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	results := r.QueryAllZones(ctx, "2.0.0.127", zones)

	assert.Less(t, time.Since(start), 2*time.Second)
	for _, result := range results {
		require.NotNil(t, result.Error)
		assert.Equal(t, "Query timeout", *result.Error)
	}
}
