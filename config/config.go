// Package config loads process configuration from environment variables,
// typically provided via a .env file loaded at startup.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

const (
	defaultListenAddr = ":8080"
	defaultDBType     = "badger"
	defaultDBPath     = "repquery-status"
)

// DefaultZones are the reputation zones queried per lookup: three allow-list
// tiers at increasing trust, then the block list. Order is significant and is
// preserved in every response.
var DefaultZones = []string{
	"wl.none.hjrp-server.com",
	"wl.med.hjrp-server.com",
	"wl.hi.hjrp-server.com",
	"bl.hjrp-server.com",
}

// Config holds all process configuration.
type Config struct {
	// ListenAddr is the HTTP API listen address (LISTEN_ADDR).
	ListenAddr string
	// Zones are the reputation zones, in query/response order (ZONES,
	// comma separated).
	Zones []string
	// ResolverAddr is the upstream nameserver as host:port (RESOLVER_ADDR).
	// Empty means use the system resolver from /etc/resolv.conf.
	ResolverAddr string
	// CORSOrigins are the allowed CORS origins (CORS_ORIGINS, comma
	// separated, default "*").
	CORSOrigins []string
	// DBType selects the status-log backend: badger or dynamo (DB_TYPE).
	DBType string
	// DBPath is the badger path or dynamo table name (DB_PATH).
	DBPath string
	// Domain, when set, makes the server obtain and serve a TLS certificate
	// for that domain (DOMAIN).
	Domain string
	// ExternalTLS disables local certificate management when TLS is
	// terminated upstream (EXTERNAL_TLS).
	ExternalTLS bool
}

// FromEnv builds a Config from the environment, applying defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:  defaultListenAddr,
		Zones:       DefaultZones,
		CORSOrigins: []string{"*"},
		DBType:      defaultDBType,
		DBPath:      defaultDBPath,
	}

	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("ZONES"); v != "" {
		zones := splitList(v)
		if len(zones) == 0 {
			return nil, fmt.Errorf("ZONES is set but contains no zones")
		}
		cfg.Zones = zones
	}
	if v := os.Getenv("RESOLVER_ADDR"); v != "" {
		addr, err := normalizeResolverAddr(v)
		if err != nil {
			return nil, err
		}
		cfg.ResolverAddr = addr
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("DB_TYPE"); v != "" {
		cfg.DBType = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	cfg.Domain = os.Getenv("DOMAIN")
	if v := os.Getenv("EXTERNAL_TLS"); v != "" {
		externalTLS, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid EXTERNAL_TLS value %q: %w", v, err)
		}
		cfg.ExternalTLS = externalTLS
	}

	return cfg, nil
}

// normalizeResolverAddr accepts a bare host or host:port and returns
// host:port, defaulting to the standard DNS port.
func normalizeResolverAddr(v string) (string, error) {
	if _, _, err := net.SplitHostPort(v); err == nil {
		return v, nil
	}
	// Bare IPv6 literals need brackets before a port can be attached.
	if ip := net.ParseIP(v); ip != nil {
		return net.JoinHostPort(v, "53"), nil
	}
	if !strings.Contains(v, ":") {
		return net.JoinHostPort(v, "53"), nil
	}
	return "", fmt.Errorf("invalid RESOLVER_ADDR value %q", v)
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
