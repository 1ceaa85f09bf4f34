package input

import "github.com/tomz197/gestris/internal/command"

// CommandFor maps a key press to a game command.
//
//	Left / a   move left      Up / w   rotate clockwise
//	Right / d  move right     z        rotate counter-clockwise
//	Down / s   move down      c        hold
//	Space      drop
func CommandFor(kp KeyPress) (command.Command, bool) {
	switch kp.Key {
	case KeyLeft:
		return command.MoveLeft, true
	case KeyRight:
		return command.MoveRight, true
	case KeyDown:
		return command.MoveDown, true
	case KeyUp:
		return command.RotateCW, true
	case KeySpace:
		return command.Drop, true
	case KeyRune:
		switch kp.Char {
		case 'a':
			return command.MoveLeft, true
		case 'd':
			return command.MoveRight, true
		case 's':
			return command.MoveDown, true
		case 'w':
			return command.RotateCW, true
		case 'z':
			return command.RotateCCW, true
		case 'c':
			return command.Hold, true
		}
	}
	return 0, false
}

// IsRestart reports whether kp restarts a finished game.
func IsRestart(kp KeyPress) bool {
	return kp.Key == KeySpace || kp.Key == KeyEnter
}
