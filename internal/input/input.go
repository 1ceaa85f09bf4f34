// Package input decodes raw terminal bytes into key presses and maps them to
// game commands.
package input

import (
	"bufio"
	"sync/atomic"
)

// Key identifies a decoded key.
type Key int

const (
	KeyRune Key = iota // Printable byte, see KeyPress.Char
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyCtrlC
)

// KeyPress is one decoded key press.
type KeyPress struct {
	Key  Key
	Char byte // Lower-cased for letters; set only when Key is KeyRune
}

// Input is everything read since the previous ReadInput call.
type Input struct {
	Keys    []KeyPress
	Quit    bool
	Pressed []byte
}

// Has reports whether k was pressed.
func (in Input) Has(k Key) bool {
	for _, kp := range in.Keys {
		if kp.Key == k {
			return true
		}
	}
	return false
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed atomic.Bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				s.closed.Store(true)
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed.Load() && len(s.ch) == 0
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// decodes them.
func ReadInput(s *Stream) Input {
	var buf []byte
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Input{Keys: Parse(buf), Pressed: buf}
	for _, kp := range in.Keys {
		if kp.Key == KeyCtrlC || (kp.Key == KeyRune && kp.Char == 'q') {
			in.Quit = true
		}
	}
	return in
}

// Parse decodes raw bytes, including CSI arrow key sequences.
func Parse(buf []byte) []KeyPress {
	var keys []KeyPress
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if k, ok := arrowKey(buf[i+2]); ok {
				keys = append(keys, KeyPress{Key: k})
				i += 2
				continue
			}
		}

		switch b {
		case ' ':
			keys = append(keys, KeyPress{Key: KeySpace})
		case '\n', '\r':
			keys = append(keys, KeyPress{Key: KeyEnter})
		case '\x1b':
			keys = append(keys, KeyPress{Key: KeyEscape})
		case '\b', '\x7f':
			keys = append(keys, KeyPress{Key: KeyBackspace})
		case '\x03':
			keys = append(keys, KeyPress{Key: KeyCtrlC})
		default:
			if b >= 'A' && b <= 'Z' {
				b += 'a' - 'A'
			}
			if b >= 0x20 && b < 0x7f {
				keys = append(keys, KeyPress{Key: KeyRune, Char: b})
			}
		}
	}
	return keys
}

func arrowKey(code byte) (Key, bool) {
	switch code {
	case 'A':
		return KeyUp, true
	case 'B':
		return KeyDown, true
	case 'C':
		return KeyRight, true
	case 'D':
		return KeyLeft, true
	}
	return 0, false
}
