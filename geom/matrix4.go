package geom

import (
	"errors"
	"math"
)

var ErrSingularMatrix = errors.New("geom: singular matrix")

// Matrix4 is an affine transform stored column by column.
// Translation lives at indices 12..14 and ApplyTo maps a point through it.
type Matrix4 [16]Element

func NewMatrix4() *Matrix4 {
	return &Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func NewMatrix4FromSlice(a []Element) *Matrix4 {
	mat := &Matrix4{}
	copy(mat[:], a[:])
	return mat
}

func NewScaleMatrix4(x, y, z Element) *Matrix4 {
	return &Matrix4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

func NewTranslateMatrix4(x, y, z Element) *Matrix4 {
	return &Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// NewRotationMatrix4 returns the right-handed rotation of angle radians around a unit axis.
func NewRotationMatrix4(axis *Vector3, angle Element) *Matrix4 {
	x, y, z := axis.X, axis.Y, axis.Z
	c, s := math.Cos(angle), math.Sin(angle)
	c1 := 1 - c
	return &Matrix4{
		x*x*c1 + c, x*y*c1 + z*s, x*z*c1 - y*s, 0,
		x*y*c1 - z*s, y*y*c1 + c, y*z*c1 + x*s, 0,
		x*z*c1 + y*s, y*z*c1 - x*s, z*z*c1 + c, 0,
		0, 0, 0, 1,
	}
}

func NewRotationXMatrix4(angle Element) *Matrix4 {
	return NewRotationMatrix4(&Vector3{X: 1}, angle)
}

func NewRotationYMatrix4(angle Element) *Matrix4 {
	return NewRotationMatrix4(&Vector3{Y: 1}, angle)
}

func NewRotationZMatrix4(angle Element) *Matrix4 {
	return NewRotationMatrix4(&Vector3{Z: 1}, angle)
}

func NewRotationMatrix4FromQuaternion(q *Quaternion) *Matrix4 {
	return q.ToMatrix4()
}

// NewTRSMatrix4 scales, then rotates, then translates.
func NewTRSMatrix4(pos *Vector3, rot *Quaternion, scale *Vector3) *Matrix4 {
	return NewTranslateMatrix4(pos.X, pos.Y, pos.Z).
		Mul(rot.ToMatrix4()).
		Mul(NewScaleMatrix4(scale.X, scale.Y, scale.Z))
}

// Mul returns the transform that applies a first and then b.
func (b *Matrix4) Mul(a *Matrix4) *Matrix4 {
	r := &Matrix4{}

	r[0] = a[0]*b[0] + a[1]*b[4] + a[2]*b[8] + a[3]*b[12]
	r[1] = a[0]*b[1] + a[1]*b[5] + a[2]*b[9] + a[3]*b[13]
	r[2] = a[0]*b[2] + a[1]*b[6] + a[2]*b[10] + a[3]*b[14]
	r[3] = a[0]*b[3] + a[1]*b[7] + a[2]*b[11] + a[3]*b[15]

	r[4] = a[4]*b[0] + a[5]*b[4] + a[6]*b[8] + a[7]*b[12]
	r[5] = a[4]*b[1] + a[5]*b[5] + a[6]*b[9] + a[7]*b[13]
	r[6] = a[4]*b[2] + a[5]*b[6] + a[6]*b[10] + a[7]*b[14]
	r[7] = a[4]*b[3] + a[5]*b[7] + a[6]*b[11] + a[7]*b[15]

	r[8] = a[8]*b[0] + a[9]*b[4] + a[10]*b[8] + a[11]*b[12]
	r[9] = a[8]*b[1] + a[9]*b[5] + a[10]*b[9] + a[11]*b[13]
	r[10] = a[8]*b[2] + a[9]*b[6] + a[10]*b[10] + a[11]*b[14]
	r[11] = a[8]*b[3] + a[9]*b[7] + a[10]*b[11] + a[11]*b[15]

	r[12] = a[12]*b[0] + a[13]*b[4] + a[14]*b[8] + a[15]*b[12]
	r[13] = a[12]*b[1] + a[13]*b[5] + a[14]*b[9] + a[15]*b[13]
	r[14] = a[12]*b[2] + a[13]*b[6] + a[14]*b[10] + a[15]*b[14]
	r[15] = a[12]*b[3] + a[13]*b[7] + a[14]*b[11] + a[15]*b[15]
	return r
}

func (m *Matrix4) cofactors() (t11, t12, t13, t14, det Element) {
	t11 = m[9]*m[14]*m[7] - m[13]*m[10]*m[7] + m[13]*m[6]*m[11] - m[5]*m[14]*m[11] - m[9]*m[6]*m[15] + m[5]*m[10]*m[15]
	t12 = m[12]*m[10]*m[7] - m[8]*m[14]*m[7] - m[12]*m[6]*m[11] + m[4]*m[14]*m[11] + m[8]*m[6]*m[15] - m[4]*m[10]*m[15]
	t13 = m[8]*m[13]*m[7] - m[12]*m[9]*m[7] + m[12]*m[5]*m[11] - m[4]*m[13]*m[11] - m[8]*m[5]*m[15] + m[4]*m[9]*m[15]
	t14 = m[12]*m[9]*m[6] - m[8]*m[13]*m[6] - m[12]*m[5]*m[10] + m[4]*m[13]*m[10] + m[8]*m[5]*m[14] - m[4]*m[9]*m[14]
	det = m[0]*t11 + m[1]*t12 + m[2]*t13 + m[3]*t14
	return
}

func (m *Matrix4) Det() Element {
	_, _, _, _, det := m.cofactors()
	return det
}

// Inverse returns ErrSingularMatrix when the determinant is zero.
func (m *Matrix4) Inverse() (*Matrix4, error) {
	t11, t12, t13, t14, det := m.cofactors()
	if det == 0 {
		return nil, ErrSingularMatrix
	}

	r := &Matrix4{}
	r[0] = t11 / det
	r[1] = (m[13]*m[10]*m[3] - m[9]*m[14]*m[3] - m[13]*m[2]*m[11] + m[1]*m[14]*m[11] + m[9]*m[2]*m[15] - m[1]*m[10]*m[15]) / det
	r[2] = (m[5]*m[14]*m[3] - m[13]*m[6]*m[3] + m[13]*m[2]*m[7] - m[1]*m[14]*m[7] - m[5]*m[2]*m[15] + m[1]*m[6]*m[15]) / det
	r[3] = (m[9]*m[6]*m[3] - m[5]*m[10]*m[3] - m[9]*m[2]*m[7] + m[1]*m[10]*m[7] + m[5]*m[2]*m[11] - m[1]*m[6]*m[11]) / det
	r[4] = t12 / det
	r[5] = (m[8]*m[14]*m[3] - m[12]*m[10]*m[3] + m[12]*m[2]*m[11] - m[0]*m[14]*m[11] - m[8]*m[2]*m[15] + m[0]*m[10]*m[15]) / det
	r[6] = (m[12]*m[6]*m[3] - m[4]*m[14]*m[3] - m[12]*m[2]*m[7] + m[0]*m[14]*m[7] + m[4]*m[2]*m[15] - m[0]*m[6]*m[15]) / det
	r[7] = (m[4]*m[10]*m[3] - m[8]*m[6]*m[3] + m[8]*m[2]*m[7] - m[0]*m[10]*m[7] - m[4]*m[2]*m[11] + m[0]*m[6]*m[11]) / det
	r[8] = t13 / det
	r[9] = (m[12]*m[9]*m[3] - m[8]*m[13]*m[3] - m[12]*m[1]*m[11] + m[0]*m[13]*m[11] + m[8]*m[1]*m[15] - m[0]*m[9]*m[15]) / det
	r[10] = (m[4]*m[13]*m[3] - m[12]*m[5]*m[3] + m[12]*m[1]*m[7] - m[0]*m[13]*m[7] - m[4]*m[1]*m[15] + m[0]*m[5]*m[15]) / det
	r[11] = (m[8]*m[5]*m[3] - m[4]*m[9]*m[3] - m[8]*m[1]*m[7] + m[0]*m[9]*m[7] + m[4]*m[1]*m[11] - m[0]*m[5]*m[11]) / det
	r[12] = t14 / det
	r[13] = (m[8]*m[13]*m[2] - m[12]*m[9]*m[2] + m[12]*m[1]*m[10] - m[0]*m[13]*m[10] - m[8]*m[1]*m[14] + m[0]*m[9]*m[14]) / det
	r[14] = (m[12]*m[5]*m[2] - m[4]*m[13]*m[2] - m[12]*m[1]*m[6] + m[0]*m[13]*m[6] + m[4]*m[1]*m[14] - m[0]*m[5]*m[14]) / det
	r[15] = (m[4]*m[9]*m[2] - m[8]*m[5]*m[2] + m[8]*m[1]*m[6] - m[0]*m[9]*m[6] - m[4]*m[1]*m[10] + m[0]*m[5]*m[10]) / det

	return r, nil
}

func (m *Matrix4) Transposed() *Matrix4 {
	return &Matrix4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

func (m *Matrix4) Clone() *Matrix4 {
	r := *m
	return &r
}

func (mat *Matrix4) ToArray(a []Element) {
	copy(a, mat[:])
}

func (mat *Matrix4) ToFloat32() [16]float32 {
	var r [16]float32
	for i, v := range mat {
		r[i] = float32(v)
	}
	return r
}

func (mat *Matrix4) Translation() *Vector3 {
	return &Vector3{X: mat[12], Y: mat[13], Z: mat[14]}
}

func (mat *Matrix4) ApplyTo(v *Vector3) *Vector3 {
	return &Vector3{
		mat[0]*v.X + mat[4]*v.Y + mat[8]*v.Z + mat[12],
		mat[1]*v.X + mat[5]*v.Y + mat[9]*v.Z + mat[13],
		mat[2]*v.X + mat[6]*v.Y + mat[10]*v.Z + mat[14],
	}
}

// ApplyToVector transforms a direction, ignoring translation.
func (mat *Matrix4) ApplyToVector(v *Vector3) *Vector3 {
	return &Vector3{
		mat[0]*v.X + mat[4]*v.Y + mat[8]*v.Z,
		mat[1]*v.X + mat[5]*v.Y + mat[9]*v.Z,
		mat[2]*v.X + mat[6]*v.Y + mat[10]*v.Z,
	}
}

// TransformNormal maps a surface normal through the inverse transpose of mat and renormalizes it.
func (mat *Matrix4) TransformNormal(n *Vector3) (*Vector3, error) {
	inv, err := mat.Inverse()
	if err != nil {
		return nil, err
	}
	r, _ := inv.Transposed().ApplyToVector(n).Normalize()
	return r, nil
}

// Decompose splits an affine transform without shear into translation, rotation and scale.
func (mat *Matrix4) Decompose() (*Vector3, *Quaternion, *Vector3) {
	pos := mat.Translation()
	scale := &Vector3{
		X: NewVector3(mat[0], mat[1], mat[2]).Len(),
		Y: NewVector3(mat[4], mat[5], mat[6]).Len(),
		Z: NewVector3(mat[8], mat[9], mat[10]).Len(),
	}
	if mat.Det() < 0 {
		scale.X = -scale.X
	}
	r := NewMatrix4()
	for i, s := range []Element{scale.X, scale.Y, scale.Z} {
		if s == 0 {
			continue
		}
		r[i*4] = mat[i*4] / s
		r[i*4+1] = mat[i*4+1] / s
		r[i*4+2] = mat[i*4+2] / s
	}
	return pos, NewQuaternionFromMatrix4(r), scale
}

func (mat *Matrix4) ApproxEqual(m2 *Matrix4, eps Element) bool {
	for i := range mat {
		if Abs(mat[i]-m2[i]) > eps {
			return false
		}
	}
	return true
}
