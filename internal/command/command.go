// Package command defines the game commands accepted by the puzzle state and
// dispatches them onto it.
package command

import "fmt"

// Command is a single intent-to-act against the game state.
type Command int

const (
	RotateCW Command = iota + 1
	RotateCCW
	MoveLeft
	MoveRight
	MoveDown
	Drop
	Hold
)

var commandNames = map[Command]string{
	RotateCW:  "rotate_cw",
	RotateCCW: "rotate_ccw",
	MoveLeft:  "move_left",
	MoveRight: "move_right",
	MoveDown:  "move_down",
	Drop:      "drop",
	Hold:      "hold",
}

// String returns the snake_case name used in logs and metric labels.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// Valid reports whether c is one of the known commands.
func (c Command) Valid() bool {
	_, ok := commandNames[c]
	return ok
}

// Source identifies which producer issued a command.
type Source int

const (
	SourceKeyboard Source = iota
	SourceGesture
	SourceScheduler
)

func (s Source) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourceGesture:
		return "gesture"
	case SourceScheduler:
		return "scheduler"
	default:
		return "unknown"
	}
}

// Target is the mutator surface of the game state. Every method must silently
// ignore moves that are not legal in the current position.
type Target interface {
	RotateCW()
	RotateCCW()
	MoveLeft()
	MoveRight()
	MoveDown()
	Drop()
	Hold()
}

// Submitter accepts commands for later, serialized application.
type Submitter interface {
	Submit(cmd Command, src Source)
}

// Dispatch applies cmd to t. Unknown commands are ignored.
func Dispatch(t Target, cmd Command) {
	switch cmd {
	case RotateCW:
		t.RotateCW()
	case RotateCCW:
		t.RotateCCW()
	case MoveLeft:
		t.MoveLeft()
	case MoveRight:
		t.MoveRight()
	case MoveDown:
		t.MoveDown()
	case Drop:
		t.Drop()
	case Hold:
		t.Hold()
	}
}
