package gesture

import "github.com/tomz197/gestris/internal/sensor"

// Gate throttles how often each body slot may dispatch commands. A slot's
// counter is 0 when open; an admitted frame sets it to 1, and every further
// tracked frame advances it until it wraps back to 0 at the cooldown period.
//
// Counters of untracked bodies are left alone, so a cooldown survives a gap
// in tracking. Gate is not safe for concurrent use.
type Gate struct {
	period   int
	counters [sensor.MaxBodies]int
}

// NewGate creates a gate with the given cooldown period in frames.
func NewGate(period int) *Gate {
	if period < 1 {
		period = 1
	}
	return &Gate{period: period}
}

// Admit records one tracked frame for slot and reports whether this frame may
// dispatch. Out-of-range slots are never admitted.
func (g *Gate) Admit(slot int) bool {
	if slot < 0 || slot >= len(g.counters) {
		return false
	}

	if g.counters[slot] == 0 {
		g.counters[slot] = 1
		if g.period == 1 {
			g.counters[slot] = 0
		}
		return true
	}

	g.counters[slot]++
	if g.counters[slot] >= g.period {
		g.counters[slot] = 0
	}
	return false
}

// Counter returns the current counter of slot.
func (g *Gate) Counter(slot int) int {
	if slot < 0 || slot >= len(g.counters) {
		return 0
	}
	return g.counters[slot]
}

// Reset opens every slot.
func (g *Gate) Reset() {
	g.counters = [sensor.MaxBodies]int{}
}
