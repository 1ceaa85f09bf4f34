package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/sirupsen/logrus"

	"github.com/tomz197/gestris/internal/config"
	"github.com/tomz197/gestris/internal/draw"
	"github.com/tomz197/gestris/internal/gesture"
	"github.com/tomz197/gestris/internal/loop"
	"github.com/tomz197/gestris/internal/loop/client"
	"github.com/tomz197/gestris/internal/loop/server"
	"github.com/tomz197/gestris/internal/metrics"
)

// sharedGame is the one game every SSH client views and controls. It starts
// with the first connection.
type sharedGame struct {
	cfg      *config.Config
	gestures gesture.Config

	once   sync.Once
	server *server.Server
	cancel context.CancelFunc
}

func (g *sharedGame) get() *server.Server {
	g.once.Do(func() {
		var ctx context.Context
		ctx, g.cancel = context.WithCancel(context.Background())
		g.server = loop.NewServer(g.cfg.GameSeed, server.Options{})
		go g.server.Run(ctx)
		loop.StartGestures(ctx, loop.NewSensorSource(g.cfg), g.gestures, g.server)
		logrus.WithField("session", g.server.ID()).Info("shared game started")
	})
	return g.server
}

// stop notifies connected players, waits for them to leave and stops the game.
func (g *sharedGame) stop(timeout time.Duration) {
	// Waits for a start in progress and blocks any later one.
	g.once.Do(func() {})
	if g.server == nil {
		return
	}
	logrus.Info("notifying connected players about shutdown")
	g.server.Shutdown(timeout)
	g.cancel()
	<-g.server.Done()
}

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	cfg.ConfigureLogging()

	gestures, err := gesture.LoadConfig(cfg.GestureConfig)
	if err != nil {
		logrus.Fatalf("gesture config: %v", err)
	}

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logrus.Warnf("failed to get working directory: %v", workErr)
	}
	logrus.WithFields(logrus.Fields{
		"host":       cfg.SSHHost,
		"port":       cfg.SSHPort,
		"hostKey":    cfg.SSHHostKey,
		"workingDir": workingDir,
		"sensor":     cfg.SensorEnabled(),
	}).Info("SSH config")

	game := &sharedGame{cfg: cfg, gestures: gestures}

	var metricsServer *metrics.Server
	if cfg.MetricsPort > 0 {
		metricsServer = metrics.NewServer(cfg.MetricsPort, cfg.MetricsEndpoint)
		metricsServer.Start()
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSHHost, strconv.Itoa(cfg.SSHPort))),
		wish.WithMiddleware(
			gameMiddleware(game, cfg.IdleTimeout),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.SSHHostKey != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSHHostKey))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logrus.Fatalf("failed to create server: %v", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logrus.Infof("starting SSH server on %s", s.Addr)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	<-done
	logrus.Info("shutting down server")

	game.stop(15 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			logrus.Warnf("metrics shutdown: %v", err)
		}
	}
	if err := s.Shutdown(ctx); err != nil {
		logrus.Fatalf("shutdown error: %v", err)
	}
}

// gameMiddleware handles SSH sessions and runs a client of the shared game.
func gameMiddleware(game *sharedGame, idleTimeout time.Duration) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			log := logrus.WithFields(logrus.Fields{"user": sess.User(), "remote": sess.RemoteAddr().String()})
			log.WithFields(logrus.Fields{
				"terminal": pty.Term,
				"width":    pty.Window.Width,
				"height":   pty.Window.Height,
			}).Info("new game session")

			// Create a terminal size tracker that updates on window changes
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			gameServer := game.get()
			if gameServer == nil {
				fmt.Fprintln(sess, "Server is shutting down, try again later.")
				return
			}

			c := client.NewClient(gameServer, bufio.NewReader(sess), sess, client.ClientOptions{
				TermSizeFunc: sizeTracker.getSize,
				Username:     sess.User(),
				IdleTimeout:  idleTimeout,
			})
			if err := c.Run(sess.Context()); err != nil {
				log.WithError(err).Warn("game client error")
			}

			log.Info("session ended")
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
