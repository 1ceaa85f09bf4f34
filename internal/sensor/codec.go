package sensor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrTooManyBodies is returned when a frame carries more than MaxBodies bodies.
var ErrTooManyBodies = errors.New("frame has more bodies than body slots")

// Decode parses a single JSON frame.
func Decode(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	if err := f.Validate(); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// Validate checks structural limits of the frame.
func (f Frame) Validate() error {
	if len(f.Bodies) > MaxBodies {
		return fmt.Errorf("%w: %d > %d", ErrTooManyBodies, len(f.Bodies), MaxBodies)
	}
	return nil
}

// Encoder writes frames as JSON lines.
type Encoder struct {
	enc *json.Encoder
}

// NewEncoder returns an encoder writing one frame per line to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: json.NewEncoder(w)}
}

// Encode writes f followed by a newline.
func (e *Encoder) Encode(f Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	return e.enc.Encode(f)
}
