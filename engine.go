package bhoctree

// Engine owns every arena the force pipeline touches. The point and node
// slices are preallocated once to Options.MaxPoints / Options.MaxNodes.
// The dual-tree traversal stack is the exception: it starts empty, grows
// with append during CalcMultibodyForceDual and keeps its capacity for
// later calls. There is no
// persistent tree state across ticks: BuildOctree recomputes
// SortedMorton, Indices, SortedPoints and the node arrays from scratch
// every call.
//
// Points and Vel are arenas the caller fills directly (Points[i] is the
// world-space position of point i, Vel[i] its velocity) before calling
// BuildOctree(n, ...) — this mirrors the flat, shared-array calling
// convention of the original core rather than taking a points slice as a
// parameter.
type Engine struct {
	opts Options

	// Point arrays, arena length Options.MaxPoints, active length n.
	Points  []Vec3
	Vel     []Vec3
	Forces  []Vec3 // sorted-space output of the force evaluators
	Indices []int  // sorted slot -> original point id

	SortedPoints []Vec3
	SortedMorton []uint32

	// Node arrays, arena length Options.MaxNodes, active length M.
	NodeStart  []int
	NodeEnd    []int
	NodeLevel  []int
	NodeParent []int
	NodeNext   []int
	NodeCenter []Vec3
	NodeExtent []float32
	NodeForce  []Vec3

	TreeCenter Vec3
	TreeExtent float32

	n         int // active point count from the last BuildOctree call
	nodeCount int
	overflow  bool // set when buildNode would exceed the node arena

	keys  []uint64  // sort scratch, arena length MaxPoints
	stack []nodePair // dual-tree traversal scratch
}

// NewEngine allocates an Engine with arenas sized per opts.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		opts:         opts,
		Points:       make([]Vec3, opts.MaxPoints),
		Vel:          make([]Vec3, opts.MaxPoints),
		Forces:       make([]Vec3, opts.MaxPoints),
		Indices:      make([]int, opts.MaxPoints),
		SortedPoints: make([]Vec3, opts.MaxPoints),
		SortedMorton: make([]uint32, opts.MaxPoints),
		NodeStart:    make([]int, opts.MaxNodes),
		NodeEnd:      make([]int, opts.MaxNodes),
		NodeLevel:    make([]int, opts.MaxNodes),
		NodeParent:   make([]int, opts.MaxNodes),
		NodeNext:     make([]int, opts.MaxNodes),
		NodeCenter:   make([]Vec3, opts.MaxNodes),
		NodeExtent:   make([]float32, opts.MaxNodes),
		NodeForce:    make([]Vec3, opts.MaxNodes),
		keys:         make([]uint64, opts.MaxPoints),
	}
	return e
}

// N returns the active point count set by the last BuildOctree call.
func (e *Engine) N() int { return e.n }

// NodeCount returns the active node count set by the last BuildOctree call.
func (e *Engine) NodeCount() int { return e.nodeCount }

// Options returns the Engine's configuration.
func (e *Engine) Options() Options { return e.opts }

// buildNode emits node ni covering sorted-point range [start, end) at the
// given level with the given parent, then recurses into non-empty
// octants in order 0..7. It returns after setting NodeNext[ni] to the
// index of the first node that is not a descendant of ni, per the
// pre-order/next-pointer layout spec.md requires.
func (e *Engine) buildNode(level, start, end, parentIdx int) {
	if e.overflow || e.nodeCount >= e.opts.MaxNodes {
		e.overflow = true
		return
	}
	ni := e.nodeCount
	e.nodeCount++
	e.NodeStart[ni] = start
	e.NodeEnd[ni] = end
	e.NodeLevel[ni] = level
	e.NodeParent[ni] = parentIdx

	if e.opts.LeafSize <= 0 || end-start <= e.opts.LeafSize || level >= e.opts.MaxLevel {
		e.NodeNext[ni] = e.nodeCount
		return
	}

	var count [8]int
	shift := uint((e.opts.MaxLevel - level - 1) * 3)
	for i := start; i < end; i++ {
		octant := (e.SortedMorton[i] >> shift) & 7
		count[octant]++
	}

	for octant := 0; octant < 8; octant++ {
		if count[octant] == 0 {
			continue
		}
		e.buildNode(level+1, start, start+count[octant], ni)
		start += count[octant]
	}
	e.NodeNext[ni] = e.nodeCount
}

// BuildOctree builds the Morton octree over Points[:n]. It populates
// Indices, SortedMorton, SortedPoints, the node arrays, TreeCenter and
// TreeExtent, and returns the node count.
//
// n <= 0 returns (0, nil) and writes nothing, per spec.md's defensive
// policy for empty input. n > Options.MaxPoints or a build that would
// exceed Options.MaxNodes return a sentinel error instead of silently
// corrupting the arenas (the original fixed-size C buffers had no such
// guard and would simply overrun memory).
func (e *Engine) BuildOctree(n, leafSize, maxLevel int) (int, error) {
	if n <= 0 {
		e.n = 0
		e.nodeCount = 0
		return 0, nil
	}
	if n > e.opts.MaxPoints {
		return 0, ErrTooManyPoints
	}
	e.opts.LeafSize = leafSize
	e.opts.MaxLevel = maxLevel
	e.n = n
	e.nodeCount = 0
	e.overflow = false

	center, extent := boundingCube(e.Points, n)
	e.TreeCenter = center
	e.TreeExtent = extent

	lo := Vec3{center.X - extent*0.5, center.Y - extent*0.5, center.Z - extent*0.5}
	scale := float32(mortonMax) / (extent + mortonEps)

	for i := 0; i < n; i++ {
		p := e.Points[i]
		ix := quantize(p.X, lo.X, scale)
		iy := quantize(p.Y, lo.Y, scale)
		iz := quantize(p.Z, lo.Z, scale)
		code := mortonEncode(ix, iy, iz)
		e.keys[i] = packMortonIndex(code, i)
	}

	sortMortonKeys(e.keys[:n])

	for i := 0; i < n; i++ {
		key := e.keys[i]
		code := unpackMorton(key)
		idx := unpackIndex(key)
		e.SortedMorton[i] = code
		e.Indices[i] = idx
		e.SortedPoints[i] = e.Points[idx]
	}

	e.buildNode(0, 0, n, 0)
	if e.overflow {
		e.nodeCount = 0
		return 0, ErrTooManyNodes
	}

	return e.nodeCount, nil
}
