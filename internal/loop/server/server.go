package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tomz197/gestris/internal/command"
	"github.com/tomz197/gestris/internal/loop/config"
	"github.com/tomz197/gestris/internal/metrics"
	"github.com/tomz197/gestris/internal/tetris"
)

// ErrServerStopped is returned when a request reaches a server whose Run
// loop has exited.
var ErrServerStopped = errors.New("game server stopped")

// GameServer is the interface clients use to communicate with the game server.
type GameServer interface {
	Register(username string) *ClientHandle
	Unregister(clientID int)
	Submit(cmd command.Command, src command.Source)
	Restart() error
	Snapshot() tetris.Snapshot
	GameOver() bool
	Clients() int
}

// Compile-time checks.
var (
	_ GameServer        = (*Server)(nil)
	_ command.Submitter = (*Server)(nil)
	_ Game              = (*tetris.Game)(nil)
)

// Options configures a Server.
type Options struct {
	// NewGame creates a fresh game on start and on every restart. Defaults
	// to a clock-seeded tetris game.
	NewGame func() Game
	// Timing defaults to DefaultTiming when zero.
	Timing Timing
	// After defaults to time.After. Tests inject a manual clock.
	After func(time.Duration) <-chan time.Time
	// Observer is optional.
	Observer Observer
}

type request struct {
	cmd command.Command
	src command.Source
}

// Server owns one game session. All mutations happen on the Run goroutine;
// keyboard clients and the gesture dispatcher enqueue commands with Submit.
type Server struct {
	id       string
	newGame  func() Game
	timing   Timing
	after    func(time.Duration) <-chan time.Time
	observer Observer
	log      *logrus.Entry

	// Owned by the Run goroutine.
	game  Game
	state State

	over     atomic.Bool
	snapshot atomic.Pointer[tetris.Snapshot]

	commands  chan request
	restartCh chan struct{}
	done      chan struct{}

	clients      map[int]*ClientHandle
	nextClientID int
	mu           sync.RWMutex
}

// New creates a game server with a fresh game. Call Run to start the
// scheduler.
func New(opts Options) *Server {
	if opts.NewGame == nil {
		opts.NewGame = func() Game { return tetris.NewGame(nil) }
	}
	if opts.Timing == (Timing{}) {
		opts.Timing = DefaultTiming()
	}
	if opts.After == nil {
		opts.After = time.After
	}

	id := uuid.NewString()
	s := &Server{
		id:           id,
		newGame:      opts.NewGame,
		timing:       opts.Timing,
		after:        opts.After,
		observer:     opts.Observer,
		log:          logrus.WithField("session", id),
		commands:     make(chan request, config.CommandQueueSize),
		restartCh:    make(chan struct{}, 1),
		done:         make(chan struct{}),
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
	}
	s.game = s.newGame()
	snap := s.game.Snapshot()
	s.snapshot.Store(&snap)
	return s
}

// ID returns the session id used in logs.
func (s *Server) ID() string { return s.id }

// Run drives the game until ctx is cancelled. Automatic move-downs, queued
// commands and restarts are multiplexed in one select so the game state is
// only touched from this goroutine.
func (s *Server) Run(ctx context.Context) {
	defer close(s.done)
	s.log.Info("game server started")
	defer s.log.Info("game server stopped")

	tick := s.start()
	for {
		select {
		case <-ctx.Done():
			return

		case <-tick:
			s.apply(command.MoveDown, command.SourceScheduler)
			tick = s.schedule()

		case req := <-s.commands:
			if s.state == StateGameOver {
				s.log.WithField("command", req.cmd).Debug("discarding command after game over")
				continue
			}
			s.apply(req.cmd, req.src)
			if s.state == StateGameOver {
				tick = nil
			}

		case <-s.restartCh:
			s.game = s.newGame()
			s.log.Info("game restarted")
			tick = s.start()
		}
	}
}

// start enters RUNNING with an observation pass and arms the first tick.
func (s *Server) start() <-chan time.Time {
	s.state = StateRunning
	s.over.Store(false)
	s.observe()
	if s.game.GameOver() {
		s.finish()
		return nil
	}
	return s.schedule()
}

func (s *Server) schedule() <-chan time.Time {
	if s.state != StateRunning {
		return nil
	}
	d := TickDelay(s.game.Score(), s.timing)
	metrics.TickDelaySeconds.Set(d.Seconds())
	return s.after(d)
}

// apply dispatches one command, observes the result and leaves RUNNING if the
// game ended.
func (s *Server) apply(cmd command.Command, src command.Source) {
	if err := s.dispatch(cmd); err != nil {
		s.log.WithError(err).WithField("source", src).Error("command failed, ending game")
		s.finish()
		return
	}
	metrics.CommandsTotal.WithLabelValues(src.String(), cmd.String()).Inc()
	s.observe()
	if s.game.GameOver() {
		s.finish()
	}
}

func (s *Server) dispatch(cmd command.Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatch %s: panic: %v", cmd, r)
		}
	}()
	command.Dispatch(s.game, cmd)
	return nil
}

// observe publishes the current state to the snapshot, observer and clients.
func (s *Server) observe() {
	snap := s.game.Snapshot()
	s.snapshot.Store(&snap)
	metrics.Score.Set(float64(snap.Score))
	if s.observer != nil {
		s.observer.StateChanged(snap)
	}
	s.broadcast(ClientEvent{Type: EventStateChanged})
}

func (s *Server) finish() {
	s.state = StateGameOver
	s.over.Store(true)
	score := s.game.Score()
	metrics.GamesOverTotal.Inc()
	s.log.WithField("score", score).Info("game over")
	if s.observer != nil {
		s.observer.GameOver(score)
	}
	s.broadcast(ClientEvent{Type: EventGameOver, Score: score})
}

func (s *Server) broadcast(ev ClientEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

// Submit enqueues a command. When the queue is full the command is dropped.
func (s *Server) Submit(cmd command.Command, src command.Source) {
	if !cmd.Valid() {
		return
	}
	select {
	case s.commands <- request{cmd: cmd, src: src}:
	default:
		metrics.CommandsDroppedTotal.WithLabelValues(src.String()).Inc()
		s.log.WithFields(logrus.Fields{"command": cmd, "source": src}).Debug("command queue full, dropping")
	}
}

// Restart replaces the game with a fresh one and resumes scheduling.
func (s *Server) Restart() error {
	select {
	case <-s.done:
		return ErrServerStopped
	default:
	}
	select {
	case s.restartCh <- struct{}{}:
	default:
		// Restart already pending
	}
	return nil
}

// Snapshot returns the state published by the last observation pass.
func (s *Server) Snapshot() tetris.Snapshot {
	return *s.snapshot.Load()
}

// GameOver reports whether the scheduler is in the game over state.
func (s *Server) GameOver() bool {
	return s.over.Load()
}

// Done is closed when Run returns.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Register registers a new client with the given username and returns its handle.
func (s *Server) Register(username string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: username,
		EventsCh: make(chan ClientEvent, config.ClientEventBuffer),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle
	s.log.WithFields(logrus.Fields{"client": handle.ID, "user": username}).Info("client joined")
	return handle
}

// Unregister removes a client and closes its event channel.
func (s *Server) Unregister(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(s.clients, clientID)
	s.log.WithField("client", clientID).Info("client left")
}

// Clients returns the number of registered clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown notifies all connected clients and waits for them to disconnect
// (up to the given timeout). The caller should cancel the server context
// after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.broadcast(ClientEvent{Type: EventServerShutdown})

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			if s.Clients() == 0 {
				return
			}
		}
	}
}
