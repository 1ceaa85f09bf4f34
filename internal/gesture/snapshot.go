package gesture

import "github.com/tomz197/gestris/internal/sensor"

// JointSnapshot holds the joints used for classification, for one body in one
// frame.
type JointSnapshot struct {
	Head          sensor.Joint
	Neck          sensor.Joint
	HandLeft      sensor.Joint
	HandRight     sensor.Joint
	ShoulderLeft  sensor.Joint
	ShoulderRight sensor.Joint
	KneeLeft      sensor.Joint
}

// SnapshotFromBody extracts the classification joints from b.
func SnapshotFromBody(b sensor.Body) JointSnapshot {
	return JointSnapshot{
		Head:          b.Joint(sensor.JointHead),
		Neck:          b.Joint(sensor.JointNeck),
		HandLeft:      b.Joint(sensor.JointHandLeft),
		HandRight:     b.Joint(sensor.JointHandRight),
		ShoulderLeft:  b.Joint(sensor.JointShoulderLeft),
		ShoulderRight: b.Joint(sensor.JointShoulderRight),
		KneeLeft:      b.Joint(sensor.JointKneeLeft),
	}
}
