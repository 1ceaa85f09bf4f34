package gesture

import (
	"testing"

	"github.com/tomz197/gestris/internal/command"
	"github.com/tomz197/gestris/internal/sensor"
)

func tracked(x, y float64) sensor.Joint {
	return sensor.Joint{Vector3: sensor.Vector3{X: x, Y: y, Z: 2}, State: sensor.Tracked}
}

// neutralPose is a player standing with hands by their sides.
func neutralPose() JointSnapshot {
	return JointSnapshot{
		Head:          tracked(0, 0.6),
		Neck:          tracked(0, 0.45),
		HandLeft:      tracked(-0.2, 0),
		HandRight:     tracked(0.2, 0),
		ShoulderLeft:  tracked(-0.18, 0.4),
		ShoulderRight: tracked(0.18, 0.4),
		KneeLeft:      tracked(-0.1, -0.5),
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*JointSnapshot)
		want   []Intent
	}{
		{
			name:   "neutral pose",
			modify: func(*JointSnapshot) {},
			want:   nil,
		},
		{
			name:   "left hand above head",
			modify: func(s *JointSnapshot) { s.HandLeft = tracked(-0.2, 0.9) },
			want:   []Intent{RotateCCW},
		},
		{
			name:   "right hand above head",
			modify: func(s *JointSnapshot) { s.HandRight = tracked(0.2, 0.9) },
			want:   []Intent{RotateCW},
		},
		{
			name:   "left hand extended",
			modify: func(s *JointSnapshot) { s.HandLeft = tracked(-0.6, 0.3) },
			want:   []Intent{MoveLeft},
		},
		{
			name:   "right hand extended",
			modify: func(s *JointSnapshot) { s.HandRight = tracked(0.6, 0.3) },
			want:   []Intent{MoveRight},
		},
		{
			name: "both hands extended cancel out",
			modify: func(s *JointSnapshot) {
				s.HandLeft = tracked(-0.6, 0.3)
				s.HandRight = tracked(0.6, 0.3)
			},
			want: nil,
		},
		{
			name: "right hand exactly at right bound still allows move left",
			modify: func(s *JointSnapshot) {
				s.HandLeft = tracked(-0.6, 0.3)
				s.HandRight = tracked(0.45, 0.3)
			},
			want: []Intent{MoveLeft},
		},
		{
			name:   "right hand at knee height",
			modify: func(s *JointSnapshot) { s.HandRight = tracked(0.2, -0.5) },
			want:   []Intent{Drop},
		},
		{
			name: "hands together",
			modify: func(s *JointSnapshot) {
				s.HandLeft = tracked(0, 0.1)
				s.HandRight = tracked(0.05, 0.12)
			},
			want: []Intent{Hold},
		},
		{
			name:   "left hand raised and extended fires both",
			modify: func(s *JointSnapshot) { s.HandLeft = tracked(-0.6, 0.9) },
			want:   []Intent{RotateCCW, MoveLeft},
		},
		{
			name: "hands together above head fires three",
			modify: func(s *JointSnapshot) {
				s.HandLeft = tracked(0, 0.9)
				s.HandRight = tracked(0.05, 0.92)
			},
			want: []Intent{RotateCCW, RotateCW, Hold},
		},
		{
			name: "rotate cw comes after move left",
			modify: func(s *JointSnapshot) {
				s.HandLeft = tracked(-0.6, 0.3)
				s.HandRight = tracked(0.2, 0.9)
			},
			want: []Intent{MoveLeft, RotateCW},
		},
		{
			name: "hand level with head is not up",
			modify: func(s *JointSnapshot) {
				s.HandLeft = tracked(-0.2, 0.6)
			},
			want: nil,
		},
	}

	c := NewClassifier(DefaultConfig().Thresholds)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := neutralPose()
			tt.modify(&s)
			got := c.Classify(s)
			if !equalIntents(got, tt.want) {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify_HeadNotTracked(t *testing.T) {
	c := NewClassifier(DefaultConfig().Thresholds)

	for _, state := range []sensor.TrackingState{sensor.NotTracked, sensor.Inferred} {
		t.Run(state.String(), func(t *testing.T) {
			// Every predicate would fire with a tracked head.
			s := neutralPose()
			s.HandLeft = tracked(-0.6, 0.9)
			s.HandRight = tracked(-0.55, 0.92)
			s.KneeLeft = tracked(0, 1.5)
			s.Head.State = state

			if got := c.Classify(s); got != nil {
				t.Errorf("Classify() = %v, want no intents", got)
			}
		})
	}
}

func TestHandLeftLeft_MirrorsHandRightRight(t *testing.T) {
	xs := []float64{-1, -0.75, -0.5, -0.375, -0.25, 0, 0.25, 0.375, 0.5, 0.75, 1}
	heads := []float64{0, 0.5, -0.25}
	reaches := []float64{0.5, 0.25}

	for _, h := range heads {
		for _, reach := range reaches {
			for _, lx := range xs {
				for _, rx := range xs {
					head := tracked(h, 0.6)
					left := tracked(h+lx, 0)
					right := tracked(h+rx, 0)

					// Mirror about the head: the left hand takes the right
					// hand's reflected x and vice versa.
					mirroredLeft := tracked(h-rx, 0)
					mirroredRight := tracked(h-lx, 0)

					l := HandLeftLeft(head, left, right, reach)
					r := HandRightRight(head, mirroredLeft, mirroredRight, reach)
					if l != r {
						t.Fatalf("head=%v reach=%v L=%v R=%v: HandLeftLeft=%v, mirrored HandRightRight=%v",
							h, reach, lx, rx, l, r)
					}
				}
			}
		}
	}
}

func TestIntent_Command(t *testing.T) {
	tests := []struct {
		intent Intent
		want   command.Command
	}{
		{RotateCCW, command.RotateCCW},
		{RotateCW, command.RotateCW},
		{MoveLeft, command.MoveLeft},
		{MoveRight, command.MoveRight},
		{Drop, command.Drop},
		{Hold, command.Hold},
	}
	for _, tt := range tests {
		got, ok := tt.intent.Command()
		if !ok || got != tt.want {
			t.Errorf("%v.Command() = %v, %v; want %v", tt.intent, got, ok, tt.want)
		}
	}
	if _, ok := None.Command(); ok {
		t.Error("None should not map to a command")
	}
}

func equalIntents(a, b []Intent) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
