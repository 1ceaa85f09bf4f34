// Package config centralizes the tunable game loop parameters.
package config

import "time"

// Scheduler cadence. The wait between automatic move-downs shrinks by
// DelayDecrease per point of score, never below MinDelay.
const (
	MaxDelay      = 1000 * time.Millisecond
	MinDelay      = 75 * time.Millisecond
	DelayDecrease = 25 * time.Millisecond
)

// Server queues
const (
	CommandQueueSize  = 256
	ClientEventBuffer = 16
)

// Board layout in terminal cells
const (
	CellWidth   = 2 // Terminal columns per grid cell
	PreviewCols = 4 // Grid cells across the next/held preview boxes
	PreviewRows = 2
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	DefaultIdleTimeout = 120 * time.Second
	IdleWarnBefore     = 30 * time.Second // Warning shown this long before disconnect
)

// Client rendering
const (
	ClientTargetFPS       = 30
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)
