// Package sensor describes the body-tracking frames delivered by a depth/color
// sensor and provides sources that deliver them.
package sensor

import (
	"fmt"
	"time"
)

// MaxBodies is the number of body slots in every frame.
const MaxBodies = 6

// JointType names an anatomical joint. The string value is the wire name.
type JointType string

const (
	JointHead          JointType = "Head"
	JointNeck          JointType = "Neck"
	JointHandLeft      JointType = "HandLeft"
	JointHandRight     JointType = "HandRight"
	JointShoulderLeft  JointType = "ShoulderLeft"
	JointShoulderRight JointType = "ShoulderRight"
	JointKneeLeft      JointType = "KneeLeft"
)

// TrackingState is the sensor's confidence in a joint position.
type TrackingState int

const (
	NotTracked TrackingState = iota
	Inferred
	Tracked
)

func (s TrackingState) String() string {
	switch s {
	case Inferred:
		return "inferred"
	case Tracked:
		return "tracked"
	default:
		return "notTracked"
	}
}

// MarshalText encodes the state as its wire name.
func (s TrackingState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a wire name.
func (s *TrackingState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "notTracked", "":
		*s = NotTracked
	case "inferred":
		*s = Inferred
	case "tracked":
		*s = Tracked
	default:
		return fmt.Errorf("unknown tracking state %q", text)
	}
	return nil
}

// Vector3 is a position in sensor space, in metres.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Joint is one joint position with its tracking state.
type Joint struct {
	Vector3
	State TrackingState `json:"state"`
}

// IsTracked reports whether the sensor has a confident position.
func (j Joint) IsTracked() bool {
	return j.State == Tracked
}

// Body is one body slot of a frame.
type Body struct {
	Tracked bool                `json:"tracked"`
	Joints  map[JointType]Joint `json:"joints,omitempty"`
}

// Joint returns the named joint, or a NotTracked zero joint if the body does
// not report it.
func (b Body) Joint(t JointType) Joint {
	return b.Joints[t]
}

// ColorFrame is a raw BGRA color image accompanying a body frame.
type ColorFrame struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pixels []byte `json:"pixels,omitempty"`
}

// Frame is one synchronized body (and optional color) frame.
type Frame struct {
	Seq    uint64      `json:"seq"`
	Time   time.Time   `json:"time"`
	Bodies []Body      `json:"bodies"`
	Color  *ColorFrame `json:"color,omitempty"`
}
