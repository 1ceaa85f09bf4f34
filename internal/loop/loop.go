// Package loop wires a game server, terminal clients and the gesture pipeline
// together.
package loop

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/tomz197/gestris/internal/command"
	"github.com/tomz197/gestris/internal/config"
	"github.com/tomz197/gestris/internal/draw"
	"github.com/tomz197/gestris/internal/gesture"
	"github.com/tomz197/gestris/internal/loop/client"
	"github.com/tomz197/gestris/internal/loop/server"
	"github.com/tomz197/gestris/internal/sensor"
	"github.com/tomz197/gestris/internal/tetris"
)

// NewServer creates a game server whose games are tetris games. A non-zero
// seed makes every game deterministic: game n uses seed+n.
func NewServer(seed uint64, opts server.Options) *server.Server {
	if opts.NewGame == nil {
		opts.NewGame = GameFactory(seed)
	}
	return server.New(opts)
}

// GameFactory returns a constructor for tetris games.
func GameFactory(seed uint64) func() server.Game {
	if seed == 0 {
		return func() server.Game { return tetris.NewGame(nil) }
	}
	var n atomic.Uint64
	return func() server.Game {
		return tetris.NewSeededGame(seed + n.Add(1) - 1)
	}
}

// NewSensorSource builds the sensor source named by cfg. It returns nil when
// no sensor is configured.
func NewSensorSource(cfg *config.Config) sensor.Source {
	switch {
	case cfg.SensorURL != "":
		return sensor.NewWebSocketSource(cfg.SensorURL)
	case cfg.SensorReplay != "":
		return sensor.NewReplayFile(cfg.SensorReplay, cfg.SensorFPS, cfg.SensorReplayLoop)
	}
	return nil
}

// RunGestures feeds frames from src through a gesture dispatcher into sub.
// Blocks until ctx is cancelled or src fails.
func RunGestures(ctx context.Context, src sensor.Source, cfg gesture.Config, sub command.Submitter, opts ...gesture.DispatcherOption) error {
	d := gesture.NewDispatcher(cfg, sub, opts...)
	if err := src.Run(ctx, d.HandleFrame); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("gesture input: %w", err)
	}
	return nil
}

// StartGestures runs RunGestures in the background. Failures are logged; the
// game stays playable from the keyboard.
func StartGestures(ctx context.Context, src sensor.Source, cfg gesture.Config, sub command.Submitter) {
	if src == nil {
		return
	}
	go func() {
		if err := RunGestures(ctx, src, cfg, sub); err != nil {
			logrus.WithError(err).Warn("gesture input stopped")
		}
	}()
}

// Options configures a local game.
type Options struct {
	Seed         uint64
	Sensor       sensor.Source // Optional
	Gestures     gesture.Config
	TermSizeFunc draw.TermSizeFunc
	Username     string
}

// Run plays a single local game on r and w until the player quits or ctx is
// cancelled.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.Gestures == (gesture.Config{}) {
		opts.Gestures = gesture.DefaultConfig()
	}

	srv := NewServer(opts.Seed, server.Options{})
	go srv.Run(ctx)
	StartGestures(ctx, opts.Sensor, opts.Gestures, srv)

	c := client.NewClient(srv, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
	})
	err := c.Run(ctx)

	cancel()
	<-srv.Done()
	return err
}
