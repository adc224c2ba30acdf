package geom

import "math"

type Vector4 struct {
	X Element
	Y Element
	Z Element
	W Element
}

type Quaternion = Vector4

func NewVector4(x, y, z, w Element) *Vector4 {
	return &Vector4{X: x, Y: y, Z: z, W: w}
}

func NewQuaternion(x, y, z, w Element) *Quaternion {
	return &Quaternion{X: x, Y: y, Z: z, W: w}
}

func NewIdentityQuaternion() *Quaternion {
	return &Quaternion{W: 1}
}

func NewQuaternionFromArray(arr [4]Element) *Quaternion {
	return &Quaternion{X: arr[0], Y: arr[1], Z: arr[2], W: arr[3]}
}

// NewQuaternionFromAxisAngle returns the rotation of angle radians around a unit axis.
func NewQuaternionFromAxisAngle(axis *Vector3, angle Element) *Quaternion {
	s := math.Sin(angle / 2)
	return &Quaternion{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: math.Cos(angle / 2)}
}

// NewQuaternionFromMatrix4 extracts the rotation of the upper 3x3 part of m.
// The result is normalized and has a non-negative W.
func NewQuaternionFromMatrix4(m *Matrix4) *Quaternion {
	r00, r01, r02 := m[0], m[4], m[8]
	r10, r11, r12 := m[1], m[5], m[9]
	r20, r21, r22 := m[2], m[6], m[10]

	var q Quaternion
	trace := r00 + r11 + r22
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = Quaternion{X: (r21 - r12) * s, Y: (r02 - r20) * s, Z: (r10 - r01) * s, W: 0.25 / s}
	case r00 > r11 && r00 > r22:
		s := 2 * math.Sqrt(1+r00-r11-r22)
		q = Quaternion{X: 0.25 * s, Y: (r01 + r10) / s, Z: (r02 + r20) / s, W: (r21 - r12) / s}
	case r11 > r22:
		s := 2 * math.Sqrt(1+r11-r00-r22)
		q = Quaternion{X: (r01 + r10) / s, Y: 0.25 * s, Z: (r12 + r21) / s, W: (r02 - r20) / s}
	default:
		s := 2 * math.Sqrt(1+r22-r00-r11)
		q = Quaternion{X: (r02 + r20) / s, Y: (r12 + r21) / s, Z: 0.25 * s, W: (r10 - r01) / s}
	}
	if q.W < 0 {
		q = Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: -q.W}
	}
	return q.Normalize()
}

func (v *Vector4) Add(v2 *Vector4) *Vector4 {
	return &Vector4{X: v.X + v2.X, Y: v.Y + v2.Y, Z: v.Z + v2.Z, W: v.W + v2.W}
}

func (v *Vector4) Sub(v2 *Vector4) *Vector4 {
	return &Vector4{X: v.X - v2.X, Y: v.Y - v2.Y, Z: v.Z - v2.Z, W: v.W - v2.W}
}

func (v *Vector4) Scale(s Element) *Vector4 {
	return &Vector4{X: v.X * s, Y: v.Y * s, Z: v.Z * s, W: v.W * s}
}

func (v *Vector4) Dot(v2 *Vector4) Element {
	return v.X*v2.X + v.Y*v2.Y + v.Z*v2.Z + v.W*v2.W
}

func (v *Vector4) Len() Element {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W)
}

func (v *Vector4) LenSqr() Element {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W
}

// Normalize returns a unit copy of v. A zero quaternion becomes the identity.
func (v *Vector4) Normalize() *Vector4 {
	l := v.Len()
	if l <= 0 {
		return &Vector4{W: 1}
	}
	return &Vector4{X: v.X / l, Y: v.Y / l, Z: v.Z / l, W: v.W / l}
}

func (v *Vector4) Inverse() *Vector4 {
	return &Vector4{X: -v.X, Y: -v.Y, Z: -v.Z, W: v.W}
}

// Mul returns the Hamilton product q * q2 (rotation q2 followed by q).
func (q *Quaternion) Mul(q2 *Quaternion) *Quaternion {
	return &Quaternion{
		X: q.W*q2.X + q.X*q2.W + q.Y*q2.Z - q.Z*q2.Y,
		Y: q.W*q2.Y - q.X*q2.Z + q.Y*q2.W + q.Z*q2.X,
		Z: q.W*q2.Z + q.X*q2.Y - q.Y*q2.X + q.Z*q2.W,
		W: q.W*q2.W - q.X*q2.X - q.Y*q2.Y - q.Z*q2.Z,
	}
}

// Then returns the normalized rotation applying q first and q2 second.
func (q *Quaternion) Then(q2 *Quaternion) *Quaternion {
	return q2.Mul(q).Normalize()
}

func (q *Quaternion) ApplyTo(v *Vector3) *Vector3 {
	return q.ToMatrix4().ApplyToVector(v)
}

func (q *Quaternion) ToMatrix4() *Matrix4 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	return &Matrix4{
		1 - 2*(y*y+z*z), 2 * (x*y + w*z), 2 * (x*z - w*y), 0,
		2 * (x*y - w*z), 1 - 2*(x*x+z*z), 2 * (y*z + w*x), 0,
		2 * (x*z + w*y), 2 * (y*z - w*x), 1 - 2*(x*x+y*y), 0,
		0, 0, 0, 1,
	}
}

// ToAxisAngle returns the rotation angle in radians and its unit axis.
// The identity rotation reports angle 0 around the X axis.
func (q *Quaternion) ToAxisAngle() (Element, *Vector3) {
	n := q.Normalize()
	w := Clamp(n.W, -1, 1)
	s := math.Sqrt(1 - w*w)
	if s < 1e-8 {
		return 2 * math.Acos(w), &Vector3{X: 1}
	}
	return 2 * math.Acos(w), &Vector3{X: n.X / s, Y: n.Y / s, Z: n.Z / s}
}

func (q *Quaternion) ApproxEqual(q2 *Quaternion, eps Element) bool {
	return Abs(q.X-q2.X) <= eps && Abs(q.Y-q2.Y) <= eps && Abs(q.Z-q2.Z) <= eps && Abs(q.W-q2.W) <= eps
}
