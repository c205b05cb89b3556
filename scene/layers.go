package scene

// Layers is a 32-bit visibility mask. A camera sees a node when their masks
// intersect.
type Layers uint32

// DefaultLayer is the layer every node and camera starts on.
const DefaultLayer = 0

func LayerMask(n int) Layers {
	if n < 0 || n > 31 {
		return 0
	}
	return Layers(1) << uint(n)
}

// Set replaces the mask with the single layer n.
func (l *Layers) Set(n int) {
	*l = LayerMask(n)
}

func (l *Layers) Enable(n int) {
	*l |= LayerMask(n)
}

func (l *Layers) Disable(n int) {
	*l &^= LayerMask(n)
}

func (l Layers) Has(n int) bool {
	return l&LayerMask(n) != 0
}

// Test reports whether l and other share at least one layer.
func (l Layers) Test(other Layers) bool {
	return l&other != 0
}
