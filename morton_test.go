package bhoctree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDilate3(t *testing.T) {
	require.Equal(t, uint32(0), dilate3(0))
	require.Equal(t, uint32(1), dilate3(1))
	require.Equal(t, uint32(8), dilate3(1<<1))
	require.Equal(t, uint32(1<<27), dilate3(1<<9))
}

func TestBoundingCubeEmpty(t *testing.T) {
	center, extent := boundingCube(nil, 0)
	require.Equal(t, Vec3{}, center)
	require.Equal(t, float32(0), extent)
}

func TestBoundingCubeDegenerate(t *testing.T) {
	pts := []Vec3{{1, 2, 3}, {1, 2, 3}, {1, 2, 3}}
	center, extent := boundingCube(pts, len(pts))
	require.Equal(t, Vec3{1, 2, 3}, center)
	require.Equal(t, float32(0), extent)
}

func TestQuantizeClamp(t *testing.T) {
	require.Equal(t, uint32(0), quantize(-5, 0, 1))
	require.Equal(t, uint32(mortonMax), quantize(5000, 0, 1))
	require.Equal(t, uint32(512), quantize(512, 0, 1))
}
