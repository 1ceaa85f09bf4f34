// Package gesture turns tracked body joints into debounced game commands.
package gesture

import (
	"math"

	"github.com/tomz197/gestris/internal/command"
	"github.com/tomz197/gestris/internal/sensor"
)

// Intent is a candidate command recognised from a pose.
type Intent int

const (
	None Intent = iota
	RotateCCW
	RotateCW
	MoveLeft
	MoveRight
	Drop
	Hold
)

func (i Intent) String() string {
	switch i {
	case RotateCCW:
		return "rotate_ccw"
	case RotateCW:
		return "rotate_cw"
	case MoveLeft:
		return "move_left"
	case MoveRight:
		return "move_right"
	case Drop:
		return "drop"
	case Hold:
		return "hold"
	default:
		return "none"
	}
}

// Command maps the intent to the game command it issues. ok is false for None.
func (i Intent) Command() (cmd command.Command, ok bool) {
	switch i {
	case RotateCCW:
		return command.RotateCCW, true
	case RotateCW:
		return command.RotateCW, true
	case MoveLeft:
		return command.MoveLeft, true
	case MoveRight:
		return command.MoveRight, true
	case Drop:
		return command.Drop, true
	case Hold:
		return command.Hold, true
	default:
		return 0, false
	}
}

// HandLeftUp reports whether the left hand is above the head.
func HandLeftUp(head, handLeft sensor.Joint) bool {
	return handLeft.Y-head.Y > 0
}

// HandRightUp reports whether the right hand is above the head.
func HandRightUp(head, handRight sensor.Joint) bool {
	return handRight.Y-head.Y > 0
}

// HandLeftLeft reports whether the left hand is extended past reach on the
// left while the right hand stays inside the head's right bound.
func HandLeftLeft(head, handLeft, handRight sensor.Joint, reach float64) bool {
	return handLeft.X < head.X-reach && handRight.X <= head.X+reach
}

// HandRightRight mirrors HandLeftLeft.
func HandRightRight(head, handLeft, handRight sensor.Joint, reach float64) bool {
	return handRight.X > head.X+reach && handLeft.X >= head.X-reach
}

// Crouch reports whether the right hand is at or below left-knee height.
func Crouch(handRight, kneeLeft sensor.Joint) bool {
	return handRight.Y <= kneeLeft.Y
}

// HandsTogether reports whether both hands are within proximity on x and y.
func HandsTogether(handLeft, handRight sensor.Joint, proximity float64) bool {
	return math.Abs(handLeft.Y-handRight.Y) < proximity &&
		math.Abs(handLeft.X-handRight.X) < proximity
}

// Classifier evaluates every predicate against a snapshot.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a classifier with the given thresholds.
func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Classify returns the intent of every predicate that holds, in evaluation
// order: rotate ccw, move left, move right, rotate cw, drop, hold. Rotate cw
// deliberately comes after the moves and not next to rotate ccw; the game
// applies a frame's commands in this order, so a rotate plus move pose
// resolves the same way the sensor game always has. Do not regroup it.
// Predicates are independent, so one pose can yield several intents. Nothing
// is returned unless the head is tracked.
func (c *Classifier) Classify(s JointSnapshot) []Intent {
	if !s.Head.IsTracked() {
		return nil
	}

	var intents []Intent
	if HandLeftUp(s.Head, s.HandLeft) {
		intents = append(intents, RotateCCW)
	}
	if HandLeftLeft(s.Head, s.HandLeft, s.HandRight, c.thresholds.Reach) {
		intents = append(intents, MoveLeft)
	}
	if HandRightRight(s.Head, s.HandLeft, s.HandRight, c.thresholds.Reach) {
		intents = append(intents, MoveRight)
	}
	if HandRightUp(s.Head, s.HandRight) {
		intents = append(intents, RotateCW)
	}
	if Crouch(s.HandRight, s.KneeLeft) {
		intents = append(intents, Drop)
	}
	if HandsTogether(s.HandLeft, s.HandRight, c.thresholds.Proximity) {
		intents = append(intents, Hold)
	}
	return intents
}
