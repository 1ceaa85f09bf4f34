// Package metrics holds the Prometheus collectors for the gesture pipeline and
// the game loop, plus the HTTP server that exposes them.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "gestris"

var (
	// FramesTotal counts sensor frames handed to the gesture dispatcher.
	FramesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sensor_frames_total",
		Help:      "Sensor frames received by the gesture dispatcher.",
	})

	// GateDecisionsTotal counts debounce decisions by result (admitted, suppressed).
	GateDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gesture_gate_decisions_total",
		Help:      "Debounce gate decisions for tracked bodies.",
	}, []string{"result"})

	// IntentsTotal counts classified intents that passed the gate.
	IntentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gesture_intents_total",
		Help:      "Gesture intents dispatched as commands.",
	}, []string{"intent"})

	// CommandsTotal counts commands applied to the game state.
	CommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_total",
		Help:      "Commands applied to the game state by source and command.",
	}, []string{"source", "command"})

	// CommandsDroppedTotal counts commands rejected because the queue was full.
	CommandsDroppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_dropped_total",
		Help:      "Commands dropped because the server queue was full.",
	}, []string{"source"})

	// GamesOverTotal counts finished games.
	GamesOverTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "games_over_total",
		Help:      "Games that reached game over.",
	})

	// TickDelaySeconds is the scheduler's current wait between automatic moves.
	TickDelaySeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tick_delay_seconds",
		Help:      "Current delay between automatic move-down ticks.",
	})

	// Score is the running game's score.
	Score = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "score",
		Help:      "Score of the current game.",
	})

	// SensorConnected is 1 while a sensor feed is delivering frames.
	SensorConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sensor_connected",
		Help:      "Whether the sensor feed is connected.",
	})
)

// Collectors returns every application collector for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		FramesTotal,
		GateDecisionsTotal,
		IntentsTotal,
		CommandsTotal,
		CommandsDroppedTotal,
		GamesOverTotal,
		TickDelaySeconds,
		Score,
		SensorConnected,
	}
}
