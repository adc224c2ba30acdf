package geom

import "math"

// Element is the scalar type of every vector and matrix in this package.
type Element = float64

// NormalizeEpsilon is the shortest length Normalize accepts.
const NormalizeEpsilon = 1e-6

type Vector3 struct {
	X Element
	Y Element
	Z Element
}

func NewVector3(x, y, z Element) *Vector3 {
	return &Vector3{X: x, Y: y, Z: z}
}

func NewVector3FromArray(arr [3]Element) *Vector3 {
	return &Vector3{X: arr[0], Y: arr[1], Z: arr[2]}
}

func NewVector3FromSlice(arr []Element) *Vector3 {
	return &Vector3{X: arr[0], Y: arr[1], Z: arr[2]}
}

func (v *Vector3) Add(v2 *Vector3) *Vector3 {
	return &Vector3{X: v.X + v2.X, Y: v.Y + v2.Y, Z: v.Z + v2.Z}
}

func (v *Vector3) Sub(v2 *Vector3) *Vector3 {
	return &Vector3{X: v.X - v2.X, Y: v.Y - v2.Y, Z: v.Z - v2.Z}
}

func (v *Vector3) Dot(v2 *Vector3) Element {
	return v.X*v2.X + v.Y*v2.Y + v.Z*v2.Z
}

func (v *Vector3) Cross(v2 *Vector3) *Vector3 {
	return &Vector3{
		X: v.Y*v2.Z - v.Z*v2.Y,
		Y: v.Z*v2.X - v.X*v2.Z,
		Z: v.X*v2.Y - v.Y*v2.X,
	}
}

func (v *Vector3) Scale(s Element) *Vector3 {
	return &Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v *Vector3) Neg() *Vector3 {
	return &Vector3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

func (v *Vector3) Len() Element {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v *Vector3) LenSqr() Element {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v *Vector3) Distance(v2 *Vector3) Element {
	return v.Sub(v2).Len()
}

// Normalize returns v scaled to unit length.
// Vectors shorter than NormalizeEpsilon yield the unit Y axis and ok == false.
func (v *Vector3) Normalize() (n *Vector3, ok bool) {
	l := v.Len()
	if l <= NormalizeEpsilon {
		return &Vector3{Y: 1}, false
	}
	return &Vector3{X: v.X / l, Y: v.Y / l, Z: v.Z / l}, true
}

// Angle returns the angle between two unit vectors in radians.
func (v *Vector3) Angle(v2 *Vector3) Element {
	return math.Acos(Clamp(v.Dot(v2), -1, 1))
}

func (v *Vector3) ApproxEqual(v2 *Vector3, eps Element) bool {
	return Abs(v.X-v2.X) <= eps && Abs(v.Y-v2.Y) <= eps && Abs(v.Z-v2.Z) <= eps
}

func (v *Vector3) ToArray(array []Element) {
	array[0] = v.X
	array[1] = v.Y
	array[2] = v.Z
}

func (v *Vector3) ToFloat32() [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func Abs(v Element) Element {
	return math.Abs(v)
}

func Clamp(v, min, max Element) Element {
	return math.Max(min, math.Min(v, max))
}

func Radians(deg Element) Element {
	return deg * math.Pi / 180
}

func Degrees(rad Element) Element {
	return rad * 180 / math.Pi
}
