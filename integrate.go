package bhoctree

import "math"

// ApplyChargeForces scatters the sorted-space Forces array into
// unsorted-space velocity via Indices: Vel[Indices[i]] += strength *
// Forces[i]. forces and indices share sorted index space; the
// sorted-vs-unsorted distinction must not be collapsed (spec.md section
// 9 flags this as a common source of bugs).
func (e *Engine) ApplyChargeForces(strength float32) {
	for i := 0; i < e.n; i++ {
		k := e.Indices[i]
		e.Vel[k] = e.Vel[k].Add(e.Forces[i].Scale(strength))
	}
}

// linkMinLenSq is the minimum squared distance used by LinkForce, below
// which the rest-length spring force would blow up.
const linkMinLenSq = 1.0

// LinkForce applies a symmetric Hookean spring force toward linkDistance
// along each link, operating on predicted next positions (p + v) rather
// than current positions, and writing the result into Vel. Indices here
// are in original (unsorted) space.
func (e *Engine) LinkForce(links []Link, linkStrength, linkDistance float32) error {
	for _, lk := range links {
		i, j := lk.I, lk.J
		if i < 0 || i >= e.n || j < 0 || j >= e.n {
			return ErrLinkIndexRange
		}
		pi := e.Points[i].Add(e.Vel[i])
		pj := e.Points[j].Add(e.Vel[j])
		d := pj.Sub(pi)
		l2 := d.LenSq()
		if l2 < linkMinLenSq {
			l2 = linkMinLenSq
		}
		l := float32(math.Sqrt(float64(l2)))
		s := (l - linkDistance) / l * linkStrength
		d = d.Scale(s)

		e.Vel[j] = e.Vel[j].Sub(d)
		e.Vel[i] = e.Vel[i].Add(d)
	}
	return nil
}

// UpdateNodes integrates positions under velocity damping: Points += Vel;
// Vel *= velocityDecay. This is the Verlet-style step that consumes the
// force output of a tick.
func (e *Engine) UpdateNodes(velocityDecay float32) {
	for i := 0; i < e.n; i++ {
		e.Points[i] = e.Points[i].Add(e.Vel[i])
		e.Vel[i] = e.Vel[i].Scale(velocityDecay)
	}
}

// TickMode selects which force evaluator Tick uses.
type TickMode int

const (
	SingleTree TickMode = iota
	DualTree
)

// Tick runs one full simulation step in the documented order: build,
// accumulate, evaluate (single- or dual-tree per mode), apply charge
// forces, link force, integrate. n is the active point count; links may
// be nil or empty.
func (e *Engine) Tick(n int, links []Link, mode TickMode, chargeStrength, linkStrength, linkDistance float32) error {
	if _, err := e.BuildOctree(n, e.opts.LeafSize, e.opts.MaxLevel); err != nil {
		return err
	}
	if e.n == 0 {
		return nil
	}
	e.AccumulatePoints()

	switch mode {
	case DualTree:
		e.CalcMultibodyForceDual(e.opts.MaxDist)
	default:
		e.CalcMultibodyForce(e.opts.MaxDist)
	}

	e.ApplyChargeForces(chargeStrength)
	if err := e.LinkForce(links, linkStrength, linkDistance); err != nil {
		return err
	}
	e.UpdateNodes(e.opts.VelocityDecay)
	return nil
}
