// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
)

// Q is a quaternion of float32.
// V holds the imaginary part (x, y, z) and R holds
// the real part (w).
//
// The zero value is not a rotation; use IQ for the
// identity.
type Q struct {
	V V3
	R float32
}

// NormEpsilon is the tolerance that IsNormQ allows
// between the squared length of a quaternion and 1.
const NormEpsilon = 1e-5

// Below this length of the imaginary part, AxisAngle
// considers the rotation to be the identity.
const axisEpsilon = 1e-6

// SlerpQ blends linearly when the cosine between its
// inputs is within this distance of 1.
const slerpEpsilon = 1e-6

// NewQ returns the quaternion w + xi + yj + zk.
func NewQ(x, y, z, w float32) Q { return Q{V: V3{x, y, z}, R: w} }

// IQ returns the identity quaternion.
func IQ() Q { return Q{R: 1} }

// XYZW returns the components of q in x, y, z, w order.
func (q Q) XYZW() (x, y, z, w float32) { return q.V[0], q.V[1], q.V[2], q.R }

// V4Q returns v as a quaternion.
// v is interpreted in x, y, z, w order.
func V4Q(v V4) Q { return NewQ(v[0], v[1], v[2], v[3]) }

// QV4 returns q as a V4 in x, y, z, w order.
func QV4(q Q) V4 { return V4{q.V[0], q.V[1], q.V[2], q.R} }

// SliceQ returns a quaternion whose components are the
// first four elements of s, in x, y, z, w order.
// It panics if len(s) < 4.
func SliceQ(s []float32) Q {
	_ = s[3]
	return NewQ(s[0], s[1], s[2], s[3])
}

// WriteQ writes the components of q into the first four
// elements of s, in x, y, z, w order.
// It panics if len(s) < 4.
func WriteQ(s []float32, q Q) {
	_ = s[3]
	s[0], s[1], s[2], s[3] = q.V[0], q.V[1], q.V[2], q.R
}

// RotateXQ returns a quaternion that rotates by angle
// radians about the X axis.
func RotateXQ(angle float32) Q {
	s, c := sincos(angle * 0.5)
	return Q{V: V3{s, 0, 0}, R: c}
}

// RotateYQ returns a quaternion that rotates by angle
// radians about the Y axis.
func RotateYQ(angle float32) Q {
	s, c := sincos(angle * 0.5)
	return Q{V: V3{0, s, 0}, R: c}
}

// RotateZQ returns a quaternion that rotates by angle
// radians about the Z axis.
func RotateZQ(angle float32) Q {
	s, c := sincos(angle * 0.5)
	return Q{V: V3{0, 0, s}, R: c}
}

// RotateQ returns a quaternion that rotates by angle
// radians about axis.
// axis must be a unit vector.
func RotateQ(angle float32, axis V3) Q {
	s, c := sincos(angle * 0.5)
	return Q{V: ScaleV3(s, axis), R: c}
}

// YPRQ returns the rotation about the Y axis by yaw,
// followed by X by pitch and Z by roll, as intrinsic
// rotations. It is equivalent to
//
//	MulQ(MulQ(RotateYQ(yaw), RotateXQ(pitch)), RotateZQ(roll))
func YPRQ(yaw, pitch, roll float32) Q {
	return MulQ(MulQ(RotateYQ(yaw), RotateXQ(pitch)), RotateZQ(roll))
}

// M3Q returns the unit quaternion of the rotation matrix m.
// m must be orthonormal with determinant 1.
func M3Q(m M3) Q {
	m00, m11, m22 := m[0][0], m[1][1], m[2][2]
	// The branch keeps s away from zero.
	switch tr := m00 + m11 + m22; {
	case tr > 0:
		s := 0.5 / sqrt(tr+1)
		return NewQ(
			(m[1][2]-m[2][1])*s,
			(m[2][0]-m[0][2])*s,
			(m[0][1]-m[1][0])*s,
			0.25/s,
		)
	case m00 > m11 && m00 > m22:
		s := 2 * sqrt(1+m00-m11-m22)
		return NewQ(
			0.25*s,
			(m[1][0]+m[0][1])/s,
			(m[2][0]+m[0][2])/s,
			(m[1][2]-m[2][1])/s,
		)
	case m11 > m22:
		s := 2 * sqrt(1+m11-m00-m22)
		return NewQ(
			(m[1][0]+m[0][1])/s,
			0.25*s,
			(m[2][1]+m[1][2])/s,
			(m[2][0]-m[0][2])/s,
		)
	default:
		s := 2 * sqrt(1+m22-m00-m11)
		return NewQ(
			(m[2][0]+m[0][2])/s,
			(m[2][1]+m[1][2])/s,
			0.25*s,
			(m[0][1]-m[1][0])/s,
		)
	}
}

// M4Q returns the unit quaternion of the rotation in
// the upper-left 3x3 of m.
func M4Q(m M4) Q { return M3Q(M4M3(m)) }

// AxisAngle returns the rotation axis and the angle,
// in radians, of the unit quaternion q.
// If q is the identity (or close enough to it that the
// axis is meaningless), it returns the X axis and 0.
func AxisAngle(q Q) (axis V3, angle float32) {
	s := math.Sqrt(float64(DotV3(q.V, q.V)))
	if s < axisEpsilon {
		return UnitX(), 0
	}
	axis = ScaleV3(float32(1/s), q.V)
	angle = float32(2 * math.Atan2(s, float64(q.R)))
	return
}

// MulQ returns the Hamilton product l ⋅ r.
// The resulting rotation applies r first, then l.
func MulQ(l, r Q) (q Q) {
	v := ScaleV3(r.R, l.V)
	w := ScaleV3(l.R, r.V)
	v = AddV3(v, w)
	w = Cross(l.V, r.V)
	d := DotV3(l.V, r.V)
	q.V = AddV3(v, w)
	q.R = l.R*r.R - d
	return
}

// RotateV3 returns v rotated by the unit quaternion q.
// q and NegQ(q) produce the same result.
func RotateV3(q Q, v V3) V3 {
	t := ScaleV3(2, Cross(q.V, v))
	return AddV3(AddV3(v, ScaleV3(q.R, t)), Cross(q.V, t))
}

// ConjQ returns the conjugate of q.
func ConjQ(q Q) Q { return Q{V: NegV3(q.V), R: q.R} }

// NegQ returns -q.
func NegQ(q Q) Q { return Q{V: NegV3(q.V), R: -q.R} }

// ScaleQ returns s ⋅ q.
func ScaleQ(s float32, q Q) Q { return Q{V: ScaleV3(s, q.V), R: s * q.R} }

// InvQ returns the inverse of q.
// For unit quaternions, this is the same as ConjQ.
func InvQ(q Q) Q { return ScaleQ(1/LenSqQ(q), ConjQ(q)) }

// DotQ returns q ⋅ p.
func DotQ(q, p Q) float32 { return DotV3(q.V, p.V) + q.R*p.R }

// LenSqQ returns the squared length of q.
func LenSqQ(q Q) float32 { return DotQ(q, q) }

// LenQ returns the length of q.
func LenQ(q Q) float32 { return sqrt(LenSqQ(q)) }

// RLenQ returns the reciprocal of the length of q.
func RLenQ(q Q) float32 { return 1 / LenQ(q) }

// IsNormQ returns whether q is a unit quaternion,
// within NormEpsilon.
func IsNormQ(q Q) bool {
	return math.Abs(float64(LenSqQ(q))-1) <= NormEpsilon
}

// NormQ returns q normalized.
func NormQ(q Q) Q { return ScaleQ(RLenQ(q), q) }

// LerpQ linearly interpolates between q and p, along
// the shorter arc.
// The blend is normalized for 0 < t < 1, and the
// endpoints are returned as is.
func LerpQ(q, p Q, t float32) Q {
	switch t {
	case 0:
		return q
	case 1:
		return p
	}
	if DotQ(q, p) < 0 {
		p = NegQ(p)
	}
	return NormQ(V4Q(LerpV4(QV4(q), QV4(p), t)))
}

// SlerpQ spherically interpolates between the unit
// quaternions q and p, along the shorter arc.
func SlerpQ(q, p Q, t float32) Q {
	switch t {
	case 0:
		return q
	case 1:
		return p
	}
	d := float64(DotQ(q, p))
	if d < 0 {
		p = NegQ(p)
		d = -d
	}
	if d > 1-slerpEpsilon {
		return NormQ(V4Q(LerpV4(QV4(q), QV4(p), t)))
	}
	th := math.Acos(d)
	sth := math.Sin(th)
	a := float32(math.Sin((1-float64(t))*th) / sth)
	b := float32(math.Sin(float64(t)*th) / sth)
	return V4Q(AddV4(ScaleV4(a, QV4(q)), ScaleV4(b, QV4(p))))
}

// AngleBetween returns the angle, in radians, of the
// rotation that takes the unit quaternion q to p.
func AngleBetween(q, p Q) float32 {
	d := MulQ(ConjQ(q), p)
	s := math.Sqrt(float64(DotV3(d.V, d.V)))
	return float32(2 * math.Atan2(s, math.Abs(float64(d.R))))
}

// ApproxEqQ returns whether every component of q is
// within eps of the respective component of p.
func ApproxEqQ(q, p Q, eps float32) bool {
	a, b := QV4(q), QV4(p)
	for i := range a {
		if d := a[i] - b[i]; d > eps || d < -eps {
			return false
		}
	}
	return true
}

func sqrt(x float32) float32 { return float32(math.Sqrt(float64(x))) }
