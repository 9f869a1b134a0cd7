package bhoctree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalcMultibodyForceTwoPoints(t *testing.T) {
	pts := []Vec3{{0, 0, 0}, {1, 0, 0}}
	e := buildEngine(t, pts)
	e.AccumulatePoints()
	e.CalcMultibodyForce(100)

	f0 := forceForOriginal(e, 0)
	f1 := forceForOriginal(e, 1)

	require.InDelta(t, 0.5, f0.X, 1e-5)
	require.InDelta(t, 0, f0.Y, 1e-5)
	require.InDelta(t, 0, f0.Z, 1e-5)

	require.InDelta(t, -0.5, f1.X, 1e-5)
	require.InDelta(t, 0, f1.Y, 1e-5)
	require.InDelta(t, 0, f1.Z, 1e-5)
}

// forceForOriginal looks up the force for original point id, translating
// through the sorted-space permutation.
func forceForOriginal(e *Engine, origID int) Vec3 {
	for i := 0; i < e.N(); i++ {
		if e.Indices[i] == origID {
			return e.Forces[i]
		}
	}
	panic("id not found")
}

func TestCalcMultibodyForceColinear(t *testing.T) {
	pts := []Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}
	opts := DefaultOptions()
	opts.Theta = 0.9
	e := NewEngine(opts)
	copy(e.Points, pts)
	_, err := e.BuildOctree(len(pts), opts.LeafSize, opts.MaxLevel)
	require.NoError(t, err)
	e.AccumulatePoints()
	e.CalcMultibodyForce(100)

	var sumX float32
	for i := 0; i < e.N(); i++ {
		require.InDelta(t, 0, e.Forces[i].Y, 1e-6)
		require.InDelta(t, 0, e.Forces[i].Z, 1e-6)
		sumX += e.Forces[i].X
	}
	require.InDelta(t, 0, sumX, 1e-3)
}

func directSumForces(pts []Vec3) []Vec3 {
	n := len(pts)
	out := make([]Vec3, n)
	for i := 0; i < n; i++ {
		var f Vec3
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := pts[j].Sub(pts[i])
			l2 := d.LenSq()
			c := 1 / (1 + l2)
			f = f.Add(d.Scale(c))
		}
		out[i] = f
	}
	return out
}

func TestCalcMultibodyForceAgreesWithDirectSum(t *testing.T) {
	pts := randomPoints(1000, 21)
	opts := DefaultOptions()
	opts.LeafSize = 16
	opts.MaxLevel = 10
	opts.Theta = 0.9
	e := NewEngine(opts)
	copy(e.Points, pts)
	m, err := e.BuildOctree(len(pts), opts.LeafSize, opts.MaxLevel)
	require.NoError(t, err)
	require.LessOrEqual(t, m, opts.MaxNodes)

	e.AccumulatePoints()
	e.CalcMultibodyForce(100)

	direct := directSumForces(e.SortedPoints[:e.N()])

	var num, den float64
	for i := 0; i < e.N(); i++ {
		dx := float64(e.Forces[i].X) - float64(direct[i].X)
		dy := float64(e.Forces[i].Y) - float64(direct[i].Y)
		dz := float64(e.Forces[i].Z) - float64(direct[i].Z)
		num += dx*dx + dy*dy + dz*dz
		den += float64(direct[i].X)*float64(direct[i].X) +
			float64(direct[i].Y)*float64(direct[i].Y) +
			float64(direct[i].Z)*float64(direct[i].Z)
	}
	relErr := math.Sqrt(num / den)
	require.Less(t, relErr, 0.02)
}

func TestCalcMultibodyForceParallelMatchesSerial(t *testing.T) {
	pts := randomPoints(1500, 22)
	e1 := buildEngine(t, pts)
	e1.AccumulatePoints()
	e1.CalcMultibodyForce(1e30)

	e2 := buildEngine(t, pts)
	e2.AccumulatePoints()
	e2.CalcMultibodyForceParallel(1e30, 4)

	for i := 0; i < e1.N(); i++ {
		require.Equal(t, e1.Forces[i], e2.Forces[i])
	}
}
