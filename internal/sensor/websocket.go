package sensor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/tomz197/gestris/internal/metrics"
)

// WebSocketSource reads JSON frames from a websocket feed and reconnects with
// exponential backoff whenever the feed drops.
type WebSocketSource struct {
	url        string
	dialer     *websocket.Dialer
	newBackOff func() backoff.BackOff
	log        *logrus.Entry
}

// WebSocketOption configures a WebSocketSource.
type WebSocketOption func(*WebSocketSource)

// WithBackOff replaces the reconnect policy.
func WithBackOff(newBackOff func() backoff.BackOff) WebSocketOption {
	return func(s *WebSocketSource) {
		s.newBackOff = newBackOff
	}
}

// NewWebSocketSource creates a source for the feed at url (ws:// or wss://).
func NewWebSocketSource(url string, opts ...WebSocketOption) *WebSocketSource {
	s := &WebSocketSource{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 5 * time.Second,
		},
		newBackOff: defaultBackOff,
		log:        logrus.WithField("sensor", url),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// Run implements Source. Connection failures are logged and retried until ctx
// is cancelled or the backoff policy gives up.
func (s *WebSocketSource) Run(ctx context.Context, handle FrameHandler) error {
	b := backoff.WithContext(s.newBackOff(), ctx)

	for {
		delivered, err := s.stream(ctx, handle)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if delivered {
			b.Reset()
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return fmt.Errorf("sensor feed %s: %w", s.url, err)
		}
		s.log.Warnf("sensor feed unavailable, retrying in %v: %v", wait, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// stream reads frames from one connection until it fails. delivered reports
// whether at least one frame reached the handler.
func (s *WebSocketSource) stream(ctx context.Context, handle FrameHandler) (delivered bool, err error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return false, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	metrics.SensorConnected.Set(1)
	defer metrics.SensorConnected.Set(0)
	s.log.Info("sensor feed connected")

	// Unblock ReadMessage on cancellation.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				err = errors.New("feed closed")
			}
			return delivered, err
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}

		frame, err := Decode(data)
		if err != nil {
			s.log.Debugf("skipping malformed frame: %v", err)
			continue
		}
		handle(frame)
		delivered = true
	}
}
