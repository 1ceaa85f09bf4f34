package client

import "time"

// Screen is the phase a client is displaying.
type Screen int

const (
	ScreenPlaying  Screen = iota // Board, previews and score
	ScreenGameOver               // Final score and restart prompt
	ScreenShutdown               // Server is shutting down
)

// ClientState holds per-connection view state. The game itself lives on the
// server; clients only read snapshots.
type ClientState struct {
	Screen        Screen
	prevScreen    Screen
	FinalScore    int
	Running       bool
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	wasInactive   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Screen:     ScreenPlaying,
		prevScreen: ScreenPlaying,
		Running:    true,
	}
}
