package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	logging "github.com/ipfs/go-log/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hjrp/repquery/api"
	"github.com/hjrp/repquery/config"
	"github.com/hjrp/repquery/rbl"
	"github.com/hjrp/repquery/statuslog"
)

var log = logging.Logger("repquery")

func main() {
	fmt.Printf("%s %s\n", name, version) // always print version
	registerVersionMetric()
	err := godotenv.Load()
	if err == nil {
		fmt.Println(".env found and loaded")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	ds, err := statuslog.NewDatastore(cfg.DBType, cfg.DBPath)
	if err != nil {
		log.Fatalf("opening status datastore: %v", err)
	}

	resolverAddr := cfg.ResolverAddr
	if resolverAddr == "" {
		resolverAddr = rbl.SystemResolverAddr()
	}
	resolver := rbl.NewResolver(resolverAddr)
	checker := rbl.NewChecker(resolver, cfg.Zones)

	srv := &api.Server{
		Addr:        cfg.ListenAddr,
		Domain:      cfg.Domain,
		ExternalTLS: cfg.ExternalTLS,
		CORSOrigins: cfg.CORSOrigins,
		Checker:     checker,
		Status:      statuslog.New(ds),
	}
	if err := srv.OnStartup(); err != nil {
		log.Fatalf("starting HTTP API: %v", err)
	}
	log.Infof("querying %d reputation zones via %s", len(cfg.Zones), resolverAddr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	if err := srv.OnShutdown(); err != nil {
		log.Errorf("stopping HTTP API: %v", err)
	}
	if err := ds.Close(); err != nil {
		log.Errorf("closing status datastore: %v", err)
	}
}

func registerVersionMetric() {
	m := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "repquery",
		Name:        "info",
		Help:        "Information about repquery instance.",
		ConstLabels: prometheus.Labels{"version": version},
	})
	prometheus.MustRegister(m)
	m.Set(1)
}
