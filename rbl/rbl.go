// Package rbl implements reputation-zone lookups for IP addresses. An
// address is reversed into its DNSBL lookup-key form and resolved against a
// set of allow-list and block-list DNS zones in parallel. A zone answering
// with one or more A records means the address is listed there; NXDOMAIN
// means it is not. All other outcomes are reported as per-zone errors, never
// as lookup failures.
package rbl

import (
	"errors"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("rbl")

// ErrInvalidAddress is returned by Checker.Lookup when the input is not a
// syntactically valid IPv4 or IPv6 literal.
var ErrInvalidAddress = errors.New("invalid IP address")

// AddressFamily identifies which reversal strategy applies to an address.
type AddressFamily string

const (
	IPv4 AddressFamily = "IPv4"
	IPv6 AddressFamily = "IPv6"
)

// ZoneResult is the classified outcome of querying a single reputation zone.
// Exactly one of the following holds: listed with addresses, not listed, or
// failed with Error set. An error is never evidence of listing.
type ZoneResult struct {
	Zone              string   `json:"zone"`
	IsListed          bool     `json:"is_listed"`
	ResponseAddresses []string `json:"response_addresses"`
	Error             *string  `json:"error"`
}

// LookupResponse aggregates the per-zone results for one address. Results
// are ordered by zone declaration order, not by completion order.
type LookupResponse struct {
	QueryIP     string        `json:"query_ip"`
	ReversedKey string        `json:"reversed_key"`
	IPVersion   AddressFamily `json:"ip_version"`
	Results     []ZoneResult  `json:"results"`
}
