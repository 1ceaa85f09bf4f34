package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/tomz197/gestris/internal/config"
	"github.com/tomz197/gestris/internal/gesture"
	"github.com/tomz197/gestris/internal/loop"
)

func main() {
	os.Exit(run(os.Stdin, os.Stdout, os.Stderr))
}

// run plays the local game and returns the process exit code. Deferred
// cleanup (log file, terminal mode) runs before main exits.
func run(stdin *os.File, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	cfg.ConfigureLogging()

	// The terminal belongs to the game; logs go to LOG_FILE or nowhere.
	logrus.SetOutput(io.Discard)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		defer logrus.SetOutput(io.Discard)
		logrus.SetOutput(f)
	}

	gestures, err := gesture.LoadConfig(cfg.GestureConfig)
	if err != nil {
		logrus.WithError(err).Error("gesture config")
		fmt.Fprintf(stderr, "gesture config: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fd := int(stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logrus.WithError(err).Error("enable raw mode")
		fmt.Fprintf(stderr, "failed to enable raw mode: %v\n", err)
		return 1
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	err = loop.Run(ctx, bufio.NewReader(stdin), stdout, loop.Options{
		Seed:     cfg.GameSeed,
		Sensor:   loop.NewSensorSource(cfg),
		Gestures: gestures,
		Username: os.Getenv("USER"),
	})
	if err != nil {
		logrus.WithError(err).Error("game stopped")
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(stderr, "game error: %v\n", err)
		return 1
	}
	return 0
}
