// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
)

// M3 is a column-major 3x3 matrix of float32.
type M3 [3]V3

// I3 returns the 3x3 identity matrix.
func I3() M3 { return M3{{1}, {0, 1}, {0, 0, 1}} }

// MulM3 returns l ⋅ r.
func MulM3(l, r M3) (m M3) {
	for i := range m {
		for j := range m {
			for k := range m {
				m[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	return
}

// TransposeM3 returns the transpose of n.
func TransposeM3(n M3) (m M3) {
	for i := range m {
		m[i][i] = n[i][i]
		for j := i + 1; j < len(m); j++ {
			m[i][j], m[j][i] = n[j][i], n[i][j]
		}
	}
	return
}

// InvertM3 returns the inverse of n.
func InvertM3(n M3) (m M3) {
	s0 := n[1][1]*n[2][2] - n[1][2]*n[2][1]
	s1 := n[1][0]*n[2][2] - n[1][2]*n[2][0]
	s2 := n[1][0]*n[2][1] - n[1][1]*n[2][0]
	idet := 1 / (n[0][0]*s0 - n[0][1]*s1 + n[0][2]*s2)
	m[0][0] = s0 * idet
	m[0][1] = -(n[0][1]*n[2][2] - n[0][2]*n[2][1]) * idet
	m[0][2] = (n[0][1]*n[1][2] - n[0][2]*n[1][1]) * idet
	m[1][0] = -s1 * idet
	m[1][1] = (n[0][0]*n[2][2] - n[0][2]*n[2][0]) * idet
	m[1][2] = -(n[0][0]*n[1][2] - n[0][2]*n[1][0]) * idet
	m[2][0] = s2 * idet
	m[2][1] = -(n[0][0]*n[2][1] - n[0][1]*n[2][0]) * idet
	m[2][2] = (n[0][0]*n[1][1] - n[0][1]*n[1][0]) * idet
	return
}

// RotateXM3 returns a matrix that rotates by angle
// radians about the X axis.
func RotateXM3(angle float32) M3 {
	s, c := sincos(angle)
	return M3{{1}, {0, c, s}, {0, -s, c}}
}

// RotateYM3 returns a matrix that rotates by angle
// radians about the Y axis.
func RotateYM3(angle float32) M3 {
	s, c := sincos(angle)
	return M3{{c, 0, -s}, {0, 1}, {s, 0, c}}
}

// RotateZM3 returns a matrix that rotates by angle
// radians about the Z axis.
func RotateZM3(angle float32) M3 {
	s, c := sincos(angle)
	return M3{{c, s}, {-s, c}, {0, 0, 1}}
}

// RotateQM3 returns the rotation matrix of q.
// q must be a unit quaternion.
func RotateQM3(q Q) M3 {
	x, y, z, w := q.XYZW()
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	return M3{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy)},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx)},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy)},
	}
}

// M4 is a column-major 4x4 matrix of float32.
type M4 [4]V4

// I4 returns the 4x4 identity matrix.
func I4() M4 { return M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}} }

// MulM4 returns l ⋅ r.
func MulM4(l, r M4) (m M4) {
	for i := range m {
		for j := range m {
			for k := range m {
				m[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	return
}

// TransposeM4 returns the transpose of n.
func TransposeM4(n M4) (m M4) {
	for i := range m {
		m[i][i] = n[i][i]
		for j := i + 1; j < len(m); j++ {
			m[i][j], m[j][i] = n[j][i], n[i][j]
		}
	}
	return
}

// InvertM4 returns the inverse of n.
func InvertM4(n M4) (m M4) {
	s0 := n[0][0]*n[1][1] - n[0][1]*n[1][0]
	s1 := n[0][0]*n[1][2] - n[0][2]*n[1][0]
	s2 := n[0][0]*n[1][3] - n[0][3]*n[1][0]
	s3 := n[0][1]*n[1][2] - n[0][2]*n[1][1]
	s4 := n[0][1]*n[1][3] - n[0][3]*n[1][1]
	s5 := n[0][2]*n[1][3] - n[0][3]*n[1][2]
	c0 := n[2][0]*n[3][1] - n[2][1]*n[3][0]
	c1 := n[2][0]*n[3][2] - n[2][2]*n[3][0]
	c2 := n[2][0]*n[3][3] - n[2][3]*n[3][0]
	c3 := n[2][1]*n[3][2] - n[2][2]*n[3][1]
	c4 := n[2][1]*n[3][3] - n[2][3]*n[3][1]
	c5 := n[2][2]*n[3][3] - n[2][3]*n[3][2]
	idet := 1 / (s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0)
	m[0][0] = (c5*n[1][1] - c4*n[1][2] + c3*n[1][3]) * idet
	m[0][1] = (-c5*n[0][1] + c4*n[0][2] - c3*n[0][3]) * idet
	m[0][2] = (s5*n[3][1] - s4*n[3][2] + s3*n[3][3]) * idet
	m[0][3] = (-s5*n[2][1] + s4*n[2][2] - s3*n[2][3]) * idet
	m[1][0] = (-c5*n[1][0] + c2*n[1][2] - c1*n[1][3]) * idet
	m[1][1] = (c5*n[0][0] - c2*n[0][2] + c1*n[0][3]) * idet
	m[1][2] = (-s5*n[3][0] + s2*n[3][2] - s1*n[3][3]) * idet
	m[1][3] = (s5*n[2][0] - s2*n[2][2] + s1*n[2][3]) * idet
	m[2][0] = (c4*n[1][0] - c2*n[1][1] + c0*n[1][3]) * idet
	m[2][1] = (-c4*n[0][0] + c2*n[0][1] - c0*n[0][3]) * idet
	m[2][2] = (s4*n[3][0] - s2*n[3][1] + s0*n[3][3]) * idet
	m[2][3] = (-s4*n[2][0] + s2*n[2][1] - s0*n[2][3]) * idet
	m[3][0] = (-c3*n[1][0] + c1*n[1][1] - c0*n[1][2]) * idet
	m[3][1] = (c3*n[0][0] - c1*n[0][1] + c0*n[0][2]) * idet
	m[3][2] = (-s3*n[3][0] + s1*n[3][1] - s0*n[3][2]) * idet
	m[3][3] = (s3*n[2][0] - s1*n[2][1] + s0*n[2][2]) * idet
	return
}

// M3M4 returns a 4x4 transform whose upper-left 3x3
// is m.
func M3M4(m M3) M4 {
	return M4{
		{m[0][0], m[0][1], m[0][2]},
		{m[1][0], m[1][1], m[1][2]},
		{m[2][0], m[2][1], m[2][2]},
		{0, 0, 0, 1},
	}
}

// M4M3 returns the upper-left 3x3 of m.
func M4M3(m M4) M3 {
	return M3{
		{m[0][0], m[0][1], m[0][2]},
		{m[1][0], m[1][1], m[1][2]},
		{m[2][0], m[2][1], m[2][2]},
	}
}

// RotateXM4 returns a transform that rotates by angle
// radians about the X axis.
func RotateXM4(angle float32) M4 { return M3M4(RotateXM3(angle)) }

// RotateYM4 returns a transform that rotates by angle
// radians about the Y axis.
func RotateYM4(angle float32) M4 { return M3M4(RotateYM3(angle)) }

// RotateZM4 returns a transform that rotates by angle
// radians about the Z axis.
func RotateZM4(angle float32) M4 { return M3M4(RotateZM3(angle)) }

// RotateQM4 returns the rotation transform of q.
// q must be a unit quaternion.
func RotateQM4(q Q) M4 { return M3M4(RotateQM3(q)) }

// TranslateM4 returns a translation transform.
func TranslateM4(x, y, z float32) M4 {
	return M4{{1}, {0, 1}, {0, 0, 1}, {x, y, z, 1}}
}

// ScaleM4 returns a scale transform.
func ScaleM4(x, y, z float32) M4 {
	return M4{{x}, {0, y}, {0, 0, z}, {0, 0, 0, 1}}
}

func sincos(angle float32) (s, c float32) {
	s64, c64 := math.Sincos(float64(angle))
	return float32(s64), float32(c64)
}
