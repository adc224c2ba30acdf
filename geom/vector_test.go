package geom

import (
	"math"
	"testing"
)

func TestVector2(t *testing.T) {
	v := NewVector2(0.25, 0.75)
	if *v.FlipV() != *NewVector2(0.25, 0.25) {
		t.Error("FlipV: ", v.FlipV())
	}
	if v.Add(v).Sub(v).Dot(NewVector2(4, 0)) != 1 {
		t.Error("Add/Sub/Dot: ", v)
	}
}

func TestVector3(t *testing.T) {
	const eps = 0.000001

	zero := NewVector3(0, 0, 0)
	if zero.Len() != 0 || zero.LenSqr() != 0 || zero.Dot(zero) != 0 {
		t.Error("len != 0")
	}

	if n, ok := zero.Normalize(); ok || *n != *NewVector3(0, 1, 0) {
		t.Error("Normalize should fall back to the Y axis.", n, ok)
	}
	if n, ok := NewVector3(0, 0, 1e-7).Normalize(); ok || n.Len() != 1 {
		t.Error("Normalize should reject tiny vectors.", n, ok)
	}

	v, ok := NewVector3(3, 0, 4).Normalize()
	if !ok || math.Abs(v.Len()-1) > eps || !v.ApproxEqual(NewVector3(0.6, 0, 0.8), eps) {
		t.Error("Normalize: ", v)
	}

	x, y := NewVector3(1, 0, 0), NewVector3(0, 1, 0)
	if *x.Cross(y) != *NewVector3(0, 0, 1) {
		t.Error("Cross: ", x.Cross(y))
	}
	if math.Abs(x.Angle(y)-math.Pi/2) > eps {
		t.Error("Angle: ", x.Angle(y))
	}
	if x.Angle(NewVector3(1+1e-12, 0, 0)) != 0 {
		t.Error("Angle should clamp the dot product.")
	}
	if NewVector3(1, 2, 3).Distance(NewVector3(1, 2, 5)) != 2 {
		t.Error("Distance")
	}
}
