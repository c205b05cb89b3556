package component

// TTL counts down physics ticks until the entity is despawned.
type TTL struct {
	Frames int
}

var TTLComponent = NewComponent[TTL]()
