package sensor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultFPS is the body-frame rate of the depth sensor.
const DefaultFPS = 30

// maxLineSize bounds a single recorded frame, color pixels included.
const maxLineSize = 16 << 20

// ReplaySource replays recorded JSON-lines frames at a fixed rate.
type ReplaySource struct {
	open     func() (io.ReadCloser, error)
	interval time.Duration
	loop     bool
}

// NewReplayFile replays the recording at path at fps frames per second. With
// loop set, the file is reopened when it ends. fps <= 0 replays without pacing.
func NewReplayFile(path string, fps int, loop bool) *ReplaySource {
	return &ReplaySource{
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
		interval: frameInterval(fps),
		loop:     loop,
	}
}

// NewReplayReader replays the frames in r once.
func NewReplayReader(r io.Reader, fps int) *ReplaySource {
	return &ReplaySource{
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(r), nil
		},
		interval: frameInterval(fps),
	}
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Second / time.Duration(fps)
}

// Run implements Source.
func (s *ReplaySource) Run(ctx context.Context, handle FrameHandler) error {
	var ticker *time.Ticker
	if s.interval > 0 {
		ticker = time.NewTicker(s.interval)
		defer ticker.Stop()
	}

	for {
		if err := s.replayOnce(ctx, ticker, handle); err != nil {
			return err
		}
		if !s.loop || ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *ReplaySource) replayOnce(ctx context.Context, ticker *time.Ticker, handle FrameHandler) error {
	rc, err := s.open()
	if err != nil {
		return fmt.Errorf("open replay: %w", err)
	}
	defer rc.Close()

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		frame, err := Decode(data)
		if err != nil {
			return fmt.Errorf("replay line %d: %w", line, err)
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return nil
		}
		handle(frame)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read replay: %w", err)
	}
	return nil
}
