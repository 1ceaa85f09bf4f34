// Command sensorfeed replays a recorded sensor session as a websocket feed so
// the game can be played and demoed without a depth camera.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/tomz197/gestris/internal/config"
	"github.com/tomz197/gestris/internal/sensor"
)

func newRouter(cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Handle("/", sensor.NewFeedHandler(func() sensor.Source {
		return sensor.NewReplayFile(cfg.FeedFile, cfg.SensorFPS, cfg.SensorReplayLoop)
	}))
	return r
}

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err == nil && cfg.FeedFile == "" {
		err = errors.New("FEED_FILE is required")
	}
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	cfg.ConfigureLogging()

	if _, err := os.Stat(cfg.FeedFile); err != nil {
		logrus.Fatalf("feed file: %v", err)
	}

	addr := net.JoinHostPort(cfg.FeedHost, strconv.Itoa(cfg.FeedPort))
	server := &http.Server{
		Addr:              addr,
		Handler:           newRouter(cfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logrus.WithFields(logrus.Fields{
		"file": cfg.FeedFile,
		"fps":  cfg.SensorFPS,
		"loop": cfg.SensorReplayLoop,
	}).Infof("starting sensor feed on ws://%s", addr)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	<-done
	logrus.Info("shutting down sensor feed")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.Fatalf("shutdown error: %v", err)
	}
}
