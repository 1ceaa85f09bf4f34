package sensor

import "context"

// FrameHandler is invoked once per arriving frame, on the source's goroutine.
// It must return well within one frame period.
type FrameHandler func(Frame)

// Source delivers frames until its context is cancelled.
type Source interface {
	// Run blocks, calling handle for every frame. It returns nil or the
	// context error once ctx is done, or a non-nil error if the source
	// cannot continue.
	Run(ctx context.Context, handle FrameHandler) error
}
