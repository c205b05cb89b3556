package component

type Player struct {
	MoveSpeed float64
	TurnSpeed float64
	// Heading is the yaw in radians, 0 facing -Z.
	Heading float64
}

var PlayerComponent = NewComponent[Player]()
