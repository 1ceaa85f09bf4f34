package server

import (
	"time"

	"github.com/tomz197/gestris/internal/command"
	"github.com/tomz197/gestris/internal/loop/config"
	"github.com/tomz197/gestris/internal/tetris"
)

// Game is the game-state handle the server drives. *tetris.Game satisfies it.
type Game interface {
	command.Target
	GameOver() bool
	Score() int
	Snapshot() tetris.Snapshot
}

// Observer receives a callback after every observation pass and once when a
// game ends. Calls come from the server goroutine and must not block.
type Observer interface {
	StateChanged(snap tetris.Snapshot)
	GameOver(score int)
}

// State is the scheduler state.
type State int

const (
	StateRunning State = iota
	StateGameOver
)

func (s State) String() string {
	if s == StateGameOver {
		return "game_over"
	}
	return "running"
}

// Timing controls the automatic move-down cadence.
type Timing struct {
	MaxDelay      time.Duration
	MinDelay      time.Duration
	DelayDecrease time.Duration
}

// DefaultTiming returns the standard cadence: 1s at score 0, 25ms faster per
// point, floored at 75ms.
func DefaultTiming() Timing {
	return Timing{
		MaxDelay:      config.MaxDelay,
		MinDelay:      config.MinDelay,
		DelayDecrease: config.DelayDecrease,
	}
}

// TickDelay returns the wait before the next automatic move-down.
func TickDelay(score int, t Timing) time.Duration {
	if score <= 0 {
		return max(t.MaxDelay, t.MinDelay)
	}
	if t.DelayDecrease > 0 && score > int((t.MaxDelay-t.MinDelay)/t.DelayDecrease) {
		return t.MinDelay
	}
	return max(t.MaxDelay-time.Duration(score)*t.DelayDecrease, t.MinDelay)
}

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan ClientEvent // Events sent to client (redraw, game over, shutdown)
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type  ClientEventType
	Score int // Final score for game over events
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventStateChanged ClientEventType = iota
	EventGameOver
	EventServerShutdown
)
