package bhoctree

// AccumulatePoints computes each node's center of mass and extent from
// the tree built by the last BuildOctree call.
//
// It runs two passes over the M active nodes:
//  1. a reverse (leaf-to-root) sweep: leaves sum their sorted points,
//     then every node (except the root, whose parent is itself) adds its
//     running sum into its parent's. Because nodes are in pre-order,
//     children always have a higher index than their parent, so a
//     child's sum is complete before its parent is visited.
//  2. a forward pass dividing each node's sum by its mass (end - start;
//     never zero, since empty octants never get a node) and setting
//     NodeExtent[k] = TreeExtent / 2^level.
func (e *Engine) AccumulatePoints() {
	m := e.nodeCount
	for i := 0; i < m; i++ {
		e.NodeCenter[i] = Vec3{}
	}

	for ni := m - 1; ni >= 0; ni-- {
		if e.NodeNext[ni] == ni+1 { // leaf
			var sum Vec3
			for i := e.NodeStart[ni]; i < e.NodeEnd[ni]; i++ {
				sum = sum.Add(e.SortedPoints[i])
			}
			e.NodeCenter[ni] = e.NodeCenter[ni].Add(sum)
		}
		parent := e.NodeParent[ni]
		if parent == ni {
			continue // root sentinel
		}
		e.NodeCenter[parent] = e.NodeCenter[parent].Add(e.NodeCenter[ni])
	}

	for i := 0; i < m; i++ {
		mass := float32(e.NodeEnd[i] - e.NodeStart[i])
		e.NodeCenter[i] = e.NodeCenter[i].Scale(1 / mass)
		e.NodeExtent[i] = e.TreeExtent / float32(int(1)<<uint(e.NodeLevel[i]))
	}
}
