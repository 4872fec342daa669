package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mdzio/go-logging"

	"github.com/strefethen/sonos-transport/internal/config"
	"github.com/strefethen/sonos-transport/internal/server"
)

var log = logging.Get("main")

func main() {
	if err := run(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.SetLevel(cfg.LogLevel)
	addr := net.JoinHostPort(cfg.Host, cfg.Port)

	handler, shutdownHandler, err := server.NewHandler(cfg, server.Options{})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-shutdownCh
		log.Infof("Received %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownHandler(ctx); err != nil {
			log.Warningf("Shutdown error: %v", err)
		}
		if err := srv.Shutdown(ctx); err != nil {
			log.Warningf("Shutdown error: %v", err)
		}
	}()

	log.Infof("sonos-transport listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
