package gesture

import (
	"github.com/sirupsen/logrus"

	"github.com/tomz197/gestris/internal/command"
	"github.com/tomz197/gestris/internal/metrics"
	"github.com/tomz197/gestris/internal/sensor"
)

// ColorSink receives the color image of each frame for display.
type ColorSink interface {
	ShowColor(frame *sensor.ColorFrame)
}

// Dispatcher routes sensor frames through classification and debounce to a
// command submitter. HandleFrame must be called from a single goroutine.
type Dispatcher struct {
	classifier *Classifier
	gate       *Gate
	submitter  command.Submitter
	color      ColorSink
	log        *logrus.Entry
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithColorSink forwards color frames to sink.
func WithColorSink(sink ColorSink) DispatcherOption {
	return func(d *Dispatcher) {
		d.color = sink
	}
}

// NewDispatcher creates a dispatcher submitting commands to submitter.
func NewDispatcher(cfg Config, submitter command.Submitter, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		classifier: NewClassifier(cfg.Thresholds),
		gate:       NewGate(cfg.CooldownPeriod),
		submitter:  submitter,
		log:        logrus.WithField("component", "gesture"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// HandleFrame processes one frame. It satisfies sensor.FrameHandler.
func (d *Dispatcher) HandleFrame(f sensor.Frame) {
	metrics.FramesTotal.Inc()

	if d.color != nil && f.Color != nil {
		d.color.ShowColor(f.Color)
	}

	for slot, body := range f.Bodies {
		if slot >= sensor.MaxBodies {
			break
		}
		if !body.Tracked {
			continue
		}

		snap := SnapshotFromBody(body)
		if !snap.Head.IsTracked() {
			continue
		}

		if !d.gate.Admit(slot) {
			metrics.GateDecisionsTotal.WithLabelValues("suppressed").Inc()
			continue
		}
		metrics.GateDecisionsTotal.WithLabelValues("admitted").Inc()

		for _, intent := range d.classifier.Classify(snap) {
			cmd, ok := intent.Command()
			if !ok {
				continue
			}
			metrics.IntentsTotal.WithLabelValues(intent.String()).Inc()
			d.log.WithFields(logrus.Fields{
				"slot":   slot,
				"intent": intent,
				"seq":    f.Seq,
			}).Debug("gesture recognised")
			d.submitter.Submit(cmd, command.SourceGesture)
		}
	}
}

// Gate exposes the debounce state for inspection.
func (d *Dispatcher) Gate() *Gate {
	return d.gate
}
