// Command adsb2ais runs the ADS-B/SBS to AIS NMEA protocol bridge.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/unklstewy/adsb2ais/internal/bridge"
	"github.com/unklstewy/adsb2ais/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/bridge.yaml", "path to the bridge's YAML config file")
	flag.Parse()

	logger := log.New(os.Stdout, "adsb2ais: ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("loading config: %v", err)
	}

	b := bridge.New(cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Println("shutting down (signal received)")
		cancel()
		b.Stop()
		<-sigCh
		logger.Println("second signal received, forcing exit")
		os.Exit(1)
	}()

	if err := b.Run(ctx); err != nil {
		logger.Fatalf("bridge exited with error: %v", err)
	}
}
