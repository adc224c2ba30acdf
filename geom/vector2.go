package geom

import "math"

type Vector2 struct {
	X Element
	Y Element
}

func NewVector2(x, y Element) *Vector2 {
	return &Vector2{X: x, Y: y}
}

func (v *Vector2) Add(v2 *Vector2) *Vector2 {
	return &Vector2{X: v.X + v2.X, Y: v.Y + v2.Y}
}

func (v *Vector2) Sub(v2 *Vector2) *Vector2 {
	return &Vector2{X: v.X - v2.X, Y: v.Y - v2.Y}
}

func (v *Vector2) Scale(s Element) *Vector2 {
	return &Vector2{X: v.X * s, Y: v.Y * s}
}

func (v *Vector2) Dot(v2 *Vector2) Element {
	return v.X*v2.X + v.Y*v2.Y
}

func (v *Vector2) Len() Element {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// FlipV converts a bottom-left texture origin to a top-left one.
func (v *Vector2) FlipV() *Vector2 {
	return &Vector2{X: v.X, Y: 1 - v.Y}
}

func (v *Vector2) ApproxEqual(v2 *Vector2, eps Element) bool {
	return Abs(v.X-v2.X) <= eps && Abs(v.Y-v2.Y) <= eps
}
