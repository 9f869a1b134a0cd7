package bhoctree

// mortonEps avoids division by zero when the bounding cube degenerates
// (every point coincident).
const mortonEps = 1e-8

// mortonBits is the number of bits used per axis when quantizing a
// coordinate before dilation; 10 bits per axis gives a 30-bit code.
const mortonBits = 10
const mortonMax = (1 << mortonBits) - 1 // 1023

// dilate3 spreads the low 10 bits of x so that two zero bits are
// inserted between each original bit, producing a 30-bit field suitable
// for interleaving with two other dilated axes.
func dilate3(x uint32) uint32 {
	x &= 0x3ff
	x = (x | (x << 16)) & 0x30000ff
	x = (x | (x << 8)) & 0x300f00f
	x = (x | (x << 4)) & 0x30c30c3
	x = (x | (x << 2)) & 0x9249249
	return x
}

// boundingCube returns the center and side length of the smallest cube
// containing all of pts[:n], expanded from the axis-aligned bounding box
// by taking the largest of the three extents. For n == 0 it returns the
// zero cube.
func boundingCube(pts []Vec3, n int) (center Vec3, extent float32) {
	if n == 0 {
		return Vec3{}, 0
	}
	minV := pts[0]
	maxV := pts[0]
	for i := 1; i < n; i++ {
		p := pts[i]
		if p.X < minV.X {
			minV.X = p.X
		}
		if p.X > maxV.X {
			maxV.X = p.X
		}
		if p.Y < minV.Y {
			minV.Y = p.Y
		}
		if p.Y > maxV.Y {
			maxV.Y = p.Y
		}
		if p.Z < minV.Z {
			minV.Z = p.Z
		}
		if p.Z > maxV.Z {
			maxV.Z = p.Z
		}
	}
	dx, dy, dz := maxV.X-minV.X, maxV.Y-minV.Y, maxV.Z-minV.Z
	extent = dx
	if dy > extent {
		extent = dy
	}
	if dz > extent {
		extent = dz
	}
	center = Vec3{(minV.X + maxV.X) * 0.5, (minV.Y + maxV.Y) * 0.5, (minV.Z + maxV.Z) * 0.5}
	return center, extent
}

// quantize maps a coordinate inside [lo, lo+extent] to a 10-bit integer,
// clamping the result to [0, mortonMax] to tolerate points that sit
// exactly on (or, due to float rounding, just past) the upper face.
func quantize(coord, lo, scale float32) uint32 {
	q := int32((coord - lo) * scale)
	if q < 0 {
		return 0
	}
	if q > mortonMax {
		return mortonMax
	}
	return uint32(q)
}

// mortonEncode interleaves the dilated bits of three quantized axes into
// a single 30-bit Morton (Z-order) code.
func mortonEncode(ix, iy, iz uint32) uint32 {
	return dilate3(ix) | (dilate3(iy) << 1) | (dilate3(iz) << 2)
}
