// Package client renders a game server's state to one terminal and feeds
// that terminal's keyboard into the server.
package client

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tomz197/gestris/internal/command"
	"github.com/tomz197/gestris/internal/draw"
	"github.com/tomz197/gestris/internal/input"
	"github.com/tomz197/gestris/internal/loop/config"
	"github.com/tomz197/gestris/internal/loop/server"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	idleTimeout  time.Duration
	log          *logrus.Entry
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	// IdleTimeout disconnects a client that sends no keys for this long.
	// Zero disables it.
	IdleTimeout time.Duration
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	username := opts.Username
	if len(username) > config.MaxUsernameLength {
		username = username[:config.MaxUsernameLength]
	}

	handle := gs.Register(username)
	c := &Client{
		server:       gs,
		handle:       handle,
		state:        NewClientState(),
		canvas:       draw.NewCanvas(canvasWidth, canvasHeight),
		chunkWriter:  draw.NewChunkWriter(w),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		username:     username,
		termSizeFunc: termSizeFunc,
		idleTimeout:  opts.IdleTimeout,
		log:          logrus.WithFields(logrus.Fields{"client": handle.ID, "user": username}),
	}
	c.updateScreen()
	c.updateState()
	return c
}

// Run starts the client loop. Blocks until the client quits, its input ends,
// ctx is cancelled or the shutdown countdown expires.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.server.Unregister(c.handle.ID)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		select {
		case <-ctx.Done():
			c.state.Running = false
			continue
		default:
		}

		c.processInput()
		c.processServerEvents()
		c.updateScreen()
		c.updateState()

		if err := c.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads keys and forwards them to the server.
func (c *Client) processInput() {
	in := input.ReadInput(c.inputStream)

	if len(in.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if c.idleTimeout > 0 {
		idle := time.Since(c.lastInput)
		switch {
		case idle > c.idleTimeout:
			c.log.Info("disconnecting idle client")
			c.state.Running = false
		case idle > c.idleTimeout-c.idleWarning():
			c.state.isInactive = true
		}
	}

	c.handleKeys(in.Keys)

	if in.Quit || c.inputStream.Closed() {
		c.state.Running = false
	}
}

// handleKeys submits game commands while playing and restarts a finished game.
func (c *Client) handleKeys(keys []input.KeyPress) {
	for _, kp := range keys {
		switch c.state.Screen {
		case ScreenPlaying:
			if cmd, ok := input.CommandFor(kp); ok {
				c.server.Submit(cmd, command.SourceKeyboard)
			}
		case ScreenGameOver:
			if input.IsRestart(kp) {
				if err := c.server.Restart(); err != nil {
					c.log.WithError(err).Warn("restart failed")
				}
				return
			}
		}
	}
}

func (c *Client) idleWarning() time.Duration {
	return min(config.IdleWarnBefore, c.idleTimeout/2)
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventGameOver:
				c.state.FinalScore = event.Score
			case server.EventServerShutdown:
				c.state.Screen = ScreenShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen centers the canvas in the terminal and forces a full redraw
// when the terminal changed size.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	offsetCol := max((termWidth-canvasWidth)/2, 0)
	offsetRow := max((termHeight-canvasHeight)/2, 0)
	if offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.SetOffset(offsetCol, offsetRow)
	}
}

// updateState derives the screen from the server and runs the shutdown
// countdown.
func (c *Client) updateState() {
	if c.state.Screen == ScreenShutdown {
		c.state.shutdownTimer -= c.state.delta.Seconds()
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
		return
	}

	if c.server.GameOver() {
		if c.state.Screen != ScreenGameOver {
			c.state.FinalScore = c.server.Snapshot().Score
		}
		c.state.Screen = ScreenGameOver
	} else {
		c.state.Screen = ScreenPlaying
	}
}
