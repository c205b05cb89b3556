package component

// Input stores per-frame input state for an entity.
type Input struct {
	// Move is forward throttle in [-1, 1].
	Move float64
	// Turn is yaw input in [-1, 1], positive turning left.
	Turn float64

	FreeLook     bool
	LookX, LookY float64
}

var InputComponent = NewComponent[Input]()
