package bhoctree

// nodePair is a pending node-vs-node interaction in the dual-tree
// traversal stack.
type nodePair struct {
	a, b int
}

// CalcMultibodyForceDual evaluates node-node pair interactions instead
// of point-vs-tree, then distributes the accumulated node forces down to
// leaf points. Every accepted pair updates both endpoints with opposite
// signs, so the result is symmetric (Newton's third law) by
// construction: summing Forces over all points is zero up to float
// rounding.
//
// The traversal stack is a growable slice rather than the reference
// kernel's fixed 4096-entry array with a silent drop on overflow —
// spec.md's own design notes flag that cap as "almost certainly a bug
// for large inputs" and explicitly sanction sizing it dynamically.
func (e *Engine) CalcMultibodyForceDual(maxDist float32) {
	n := e.n
	m := e.nodeCount

	for i := 0; i < n; i++ {
		e.Forces[i] = Vec3{}
	}
	for i := 0; i < m; i++ {
		e.NodeForce[i] = Vec3{}
	}
	if m <= 0 {
		return
	}

	theta2 := e.opts.theta2()
	maxDist2 := maxDist * maxDist

	e.stack = append(e.stack[:0], nodePair{0, 0})

	for len(e.stack) > 0 {
		top := len(e.stack) - 1
		pair := e.stack[top]
		e.stack = e.stack[:top]
		niA, niB := pair.a, pair.b

		d := e.NodeCenter[niB].Sub(e.NodeCenter[niA])
		l2 := d.LenSq()
		wA, wB := e.NodeExtent[niA], e.NodeExtent[niB]
		combinedW := wA + wB

		if niA != niB && combinedW*combinedW < theta2*l2 {
			if l2 < maxDist2 {
				massA := float32(e.NodeEnd[niA] - e.NodeStart[niA])
				massB := float32(e.NodeEnd[niB] - e.NodeStart[niB])
				common := 1 / (1 + l2)

				e.NodeForce[niA] = e.NodeForce[niA].Add(d.Scale(massB * common))
				e.NodeForce[niB] = e.NodeForce[niB].Sub(d.Scale(massA * common))
			}
			continue
		}

		leafA := e.NodeNext[niA] == niA+1
		leafB := e.NodeNext[niB] == niB+1

		switch {
		case leafA && leafB:
			for i := e.NodeStart[niA]; i < e.NodeEnd[niA]; i++ {
				pi := e.SortedPoints[i]
				jStart := e.NodeStart[niB]
				if niA == niB {
					jStart = i + 1
				}
				for j := jStart; j < e.NodeEnd[niB]; j++ {
					pd := e.SortedPoints[j].Sub(pi)
					pl2 := pd.LenSq()
					if pl2 < maxDist2 {
						c := 1 / (1 + pl2)
						contrib := pd.Scale(c)
						e.Forces[i] = e.Forces[i].Add(contrib)
						e.Forces[j] = e.Forces[j].Sub(contrib)
					}
				}
			}

		case niA == niB:
			// Self-interaction: enumerate unique child pairs (Ci,Ci) and
			// (Ci,Cj) for i<j by walking siblings via NodeNext.
			childI := niA + 1
			for childI < e.NodeNext[niA] {
				e.stack = append(e.stack, nodePair{childI, childI})
				childJ := e.NodeNext[childI]
				for childJ < e.NodeNext[niA] {
					e.stack = append(e.stack, nodePair{childI, childJ})
					childJ = e.NodeNext[childJ]
				}
				childI = e.NodeNext[childI]
			}

		case !leafA && (leafB || wA > wB):
			childA := niA + 1
			for childA < e.NodeNext[niA] {
				e.stack = append(e.stack, nodePair{childA, niB})
				childA = e.NodeNext[childA]
			}

		default:
			childB := niB + 1
			for childB < e.NodeNext[niB] {
				e.stack = append(e.stack, nodePair{niA, childB})
				childB = e.NodeNext[childB]
			}
		}
	}

	// Downward pass: parents are always processed before children since
	// nodes are in pre-order.
	for ni := 1; ni < m; ni++ {
		p := e.NodeParent[ni]
		if p == ni {
			continue
		}
		e.NodeForce[ni] = e.NodeForce[ni].Add(e.NodeForce[p])
	}

	// Distribute accumulated node force uniformly to each leaf's points.
	for ni := 0; ni < m; ni++ {
		if e.NodeNext[ni] != ni+1 {
			continue
		}
		fn := e.NodeForce[ni]
		for i := e.NodeStart[ni]; i < e.NodeEnd[ni]; i++ {
			e.Forces[i] = e.Forces[i].Add(fn)
		}
	}
}
