package component

import "github.com/jakecoffman/cp"

// Vehicle identifies a tracked vehicle. ID is stable for the vehicle's life.
type Vehicle struct {
	ID string
	// Throttle and Steer are in [-1, 1].
	Throttle float64
	Steer    float64
	MaxSpeed float64
	// Ticks counts physics steps since spawn.
	Ticks int
}

var VehicleComponent = NewComponent[Vehicle]()

// PhysicsBody stores Chipmunk runtime data. The physics plane maps cp X to
// world X and cp Y to world Z.
type PhysicsBody struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Width  float64
	Length float64
	Mass   float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
