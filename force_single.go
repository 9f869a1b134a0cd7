package bhoctree

import (
	"runtime"
	"sync"
)

// CalcMultibodyForce evaluates, for every point in sorted order, a
// repulsive force against the tree using the Barnes-Hut multipole
// acceptance criterion (MAC). It is a non-recursive pre-order walk
// driven entirely by NodeNext: accepting a node skips its whole subtree
// via NodeNext, rejecting one descends into the first child (the
// pre-order successor).
//
// theta2 = Options.Theta^2 is the fixed opening-angle criterion; the MAC
// compares the node's side length squared against theta2 * l2 and
// accepts on strict `<` — matching the reference kernel's tie-break
// exactly, since ties are not a place this rewrite is free to diverge.
// Softening 1/(1+l2) bounds the force at zero separation and fixes the
// implicit unit softening length. maxDist cuts off long-range
// contributions in both the approximated and exact branches.
//
// Writes Forces[0:N] in sorted space.
func (e *Engine) CalcMultibodyForce(maxDist float32) {
	e.calcMultibodyForceRange(0, e.n, maxDist)
}

func (e *Engine) calcMultibodyForceRange(lo, hi int, maxDist float32) {
	theta2 := e.opts.theta2()
	maxDist2 := maxDist * maxDist
	m := e.nodeCount

	for pointI := lo; pointI < hi; pointI++ {
		p := e.SortedPoints[pointI]
		var f Vec3

		nodeI := 0
		for nodeI < m {
			d := e.NodeCenter[nodeI].Sub(p)
			l2 := d.LenSq()
			w := e.NodeExtent[nodeI]

			if w*w < theta2*l2 {
				if l2 < maxDist2 {
					mass := float32(e.NodeEnd[nodeI] - e.NodeStart[nodeI])
					c := mass / (1 + l2)
					f = f.Add(d.Scale(c))
				}
				nodeI = e.NodeNext[nodeI]
			} else {
				if e.NodeNext[nodeI] == nodeI+1 && l2 < maxDist2 {
					for i := e.NodeStart[nodeI]; i < e.NodeEnd[nodeI]; i++ {
						pd := e.SortedPoints[i].Sub(p)
						pl2 := pd.LenSq()
						c := 1 / (1 + pl2)
						f = f.Add(pd.Scale(c))
					}
				}
				nodeI++
			}
		}
		e.Forces[pointI] = f
	}
}

// CalcMultibodyForceParallel is the data-parallel variant of
// CalcMultibodyForce: the per-point loop writes only its own Forces[i],
// so partitioning it across workers preserves bit-exactness (spec.md
// section 5 calls this out explicitly). workers <= 0 uses
// runtime.GOMAXPROCS(0).
func (e *Engine) CalcMultibodyForceParallel(maxDist float32, workers int) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	n := e.n
	if n == 0 {
		return
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		e.calcMultibodyForceRange(0, n, maxDist)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			e.calcMultibodyForceRange(lo, hi, maxDist)
		}(lo, hi)
	}
	wg.Wait()
}
