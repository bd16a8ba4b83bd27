// Package api exposes the reputation lookup engine and the status log over
// an HTTP JSON API.
package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/caddyserver/certmagic"
	"github.com/gorilla/mux"
	logging "github.com/ipfs/go-log/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hjrp/repquery/rbl"
	"github.com/hjrp/repquery/statuslog"
)

var log = logging.Logger("api")

// Server serves the HTTP API. Addr, Checker and Status must be set before
// OnStartup. When Domain is set and ExternalTLS is false, the listener is
// wrapped in a certmagic-managed TLS config.
type Server struct {
	Addr        string
	Domain      string
	ExternalTLS bool
	CORSOrigins []string

	Checker *rbl.Checker
	Status  *statuslog.Store

	ln           net.Listener
	nlSetup      bool
	closeCertMgr func()

	handler http.Handler
}

// OnStartup binds the listener and starts serving in the background.
func (s *Server) OnStartup() error {
	initMetrics()

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}

	if s.Domain != "" && !s.ExternalTLS {
		certCfg := certmagic.NewDefault()
		certCfg.Storage = &certmagic.FileStorage{Path: fmt.Sprintf("%s-certs", strings.Replace(s.Domain, ".", "_", -1))}
		myACME := certmagic.NewACMEIssuer(certCfg, certmagic.ACMEIssuer{
			CA:     certmagic.LetsEncryptProductionCA,
			Agreed: true,
		})
		certCfg.Issuers = []certmagic.Issuer{myACME}

		tlsConfig := certCfg.TLSConfig()
		tlsConfig.NextProtos = append([]string{"h2", "http/1.1"}, tlsConfig.NextProtos...)

		ctx, cancel := context.WithCancel(context.Background())
		if err := certCfg.ManageAsync(ctx, []string{s.Domain}); err != nil {
			cancel()
			return err
		}
		s.closeCertMgr = cancel

		ln = tls.NewListener(ln, tlsConfig)
	}

	s.ln = ln
	s.nlSetup = true
	s.handler = withRequestMetrics(withCORS(s.CORSOrigins, s.Router()))

	go func() {
		log.Infof("HTTP API listener at %s", s.ln.Addr().String())
		http.Serve(s.ln, s.handler)
	}()

	return nil
}

// Router builds the API route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/", s.handleRoot).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/dns-query", s.handleLookup).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/status", s.handleStatusCreate).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/status", s.handleStatusList).Methods(http.MethodGet, http.MethodOptions)
	api.Use(mux.CORSMethodMiddleware(api))

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// OnShutdown closes the listener and stops certificate management.
func (s *Server) OnShutdown() error {
	if !s.nlSetup {
		return nil
	}

	s.ln.Close()
	if s.closeCertMgr != nil {
		s.closeCertMgr()
	}
	s.nlSetup = false
	return nil
}
