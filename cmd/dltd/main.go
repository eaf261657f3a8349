// Command dltd is the DLT daemon: it receives ingest datagrams from
// local clients, encodes them to DLT frames, and forwards them to a
// storage endpoint over UDP/IPv4.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devendranaga/dlt-logger/internal/config"
	"github.com/devendranaga/dlt-logger/internal/consolelog"
	"github.com/devendranaga/dlt-logger/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "/etc/dltd/config.json", "path to the daemon's JSON configuration file")
		verbose    = flag.Bool("v", false, "verbose (debug-level) logging")
	)
	flag.Parse()

	logCfg := consolelog.DefaultConfig()
	if *verbose {
		logCfg.Level = consolelog.LevelDebug
	}
	consolelog.SetDefault(consolelog.New(logCfg))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	svc, err := service.New(cfg)
	if err != nil {
		log.Fatalf("failed to start service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runDone := make(chan error, 1)
	go func() { runDone <- svc.Run(ctx) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	alreadyExited := false
	select {
	case <-sigCh:
		consolelog.Infof("received shutdown signal")
	case err := <-runDone:
		alreadyExited = true
		if err != nil {
			consolelog.Errorf("reactor loop exited: %v", err)
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := svc.Shutdown(shutdownCtx); err != nil {
		consolelog.Errorf("shutdown error: %v", err)
	}

	if !alreadyExited {
		<-runDone
	}
}
