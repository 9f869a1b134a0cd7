package bhoctree

// Options holds the tunables for an Engine. Zero values are not sensible
// defaults; construct with DefaultOptions and override as needed.
type Options struct {
	// LeafSize is the maximum point count before a node stops subdividing.
	LeafSize int
	// MaxLevel bounds recursion depth during octree build.
	MaxLevel int
	// Theta is the Barnes-Hut opening angle. Theta2 is derived from it
	// (Theta*Theta) and is what the evaluators actually compare against.
	Theta float32
	// MaxDist cuts off force contributions beyond this distance.
	MaxDist float32
	// VelocityDecay is the per-tick velocity damping factor applied by
	// UpdateNodes (1 = no damping).
	VelocityDecay float32

	// MaxPoints and MaxNodes bound the preallocated arenas.
	MaxPoints int
	MaxNodes  int
}

// DefaultOptions returns the reference parameterization: LeafSize 16,
// MaxLevel 10, Theta 0.9 (Theta2 = 0.81), MaxDist unbounded, VelocityDecay
// 0.9, arenas sized to 1<<16 as in the original fixed-size buffers.
func DefaultOptions() Options {
	return Options{
		LeafSize:      16,
		MaxLevel:      10,
		Theta:         0.9,
		MaxDist:       1e30,
		VelocityDecay: 0.9,
		MaxPoints:     1 << 16,
		MaxNodes:      1 << 16,
	}
}

func (o Options) theta2() float32 {
	return o.Theta * o.Theta
}
