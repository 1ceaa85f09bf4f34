package sensor

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const feedWriteTimeout = 2 * time.Second

// FeedHandler serves frames to websocket clients. Every connection gets its
// own source from newSource, so each viewer sees the recording from the start.
type FeedHandler struct {
	newSource func() Source
	upgrader  websocket.Upgrader
}

// NewFeedHandler creates a websocket handler streaming frames from sources
// built by newSource.
func NewFeedHandler(newSource func() Source) *FeedHandler {
	return &FeedHandler{
		newSource: newSource,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		return
	}
	defer conn.Close()

	log := logrus.WithField("remote", r.RemoteAddr)
	log.Info("feed client connected")
	defer log.Info("feed client disconnected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Control frames are only processed while reading; a read error means the
	// client went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	err = h.newSource().Run(ctx, func(f Frame) {
		if ctx.Err() != nil {
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
		if err := conn.WriteJSON(f); err != nil {
			log.Debugf("feed write failed: %v", err)
			cancel()
		}
	})
	if err != nil && ctx.Err() == nil {
		log.WithError(err).Warn("feed source failed")
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(feedWriteTimeout))
}
