package geom

import (
	"math"
	"testing"
)

func TestMatrixMul(t *testing.T) {
	const eps = 0.000001

	tr := NewTranslateMatrix4(1, 2, 3)
	rot := NewRotationZMatrix4(math.Pi / 2)

	// rotate first, then translate
	m := tr.Mul(rot)
	p := m.ApplyTo(NewVector3(1, 0, 0))
	if !p.ApproxEqual(NewVector3(1, 3, 3), eps) {
		t.Error("tr.Mul(rot): ", p)
	}

	// translate first, then rotate
	m = rot.Mul(tr)
	p = m.ApplyTo(NewVector3(1, 0, 0))
	if !p.ApproxEqual(NewVector3(-2, 2, 3), eps) {
		t.Error("rot.Mul(tr): ", p)
	}
}

func TestRotationMatrix(t *testing.T) {
	const eps = 0.000001

	for i, c := range []struct {
		axis   *Vector3
		angle  Element
		v, exp *Vector3
	}{
		{NewVector3(1, 0, 0), math.Pi / 2, NewVector3(0, 1, 0), NewVector3(0, 0, 1)},
		{NewVector3(0, 1, 0), math.Pi / 2, NewVector3(0, 0, 1), NewVector3(1, 0, 0)},
		{NewVector3(0, 0, 1), math.Pi / 2, NewVector3(1, 0, 0), NewVector3(0, 1, 0)},
		{NewVector3(0, 0, 1), -math.Pi / 2, NewVector3(1, 0, 0), NewVector3(0, -1, 0)},
		{NewVector3(0, 0, 1), 0, NewVector3(1, 2, 3), NewVector3(1, 2, 3)},
	} {
		r := NewRotationMatrix4(c.axis, c.angle).ApplyTo(c.v)
		if !r.ApproxEqual(c.exp, eps) {
			t.Error("rotation: ", i, r, c.exp)
		}
	}
}

func TestMatrixInverse(t *testing.T) {
	const eps = 0.000001

	m := NewTRSMatrix4(NewVector3(1, -2, 3),
		NewQuaternionFromAxisAngle(NewVector3(0, 0.6, 0.8), 0.7),
		NewVector3(2, 2, 2))
	inv, err := m.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	if !inv.Mul(m).ApproxEqual(NewMatrix4(), eps) || !m.Mul(inv).ApproxEqual(NewMatrix4(), eps) {
		t.Error("m * inv(m) != I", m.Mul(inv))
	}

	if _, err := NewScaleMatrix4(1, 0, 1).Inverse(); err != ErrSingularMatrix {
		t.Error("singular matrix should fail: ", err)
	}

	if !m.Transposed().Transposed().ApproxEqual(m, 0) {
		t.Error("transpose")
	}
}

func TestTransformNormal(t *testing.T) {
	const eps = 0.000001

	// non-uniform scale keeps normals perpendicular to the surface
	m := NewScaleMatrix4(2, 1, 1)
	n, err := m.TransformNormal(NewVector3(1, 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	edge := m.ApplyToVector(NewVector3(1, -1, 0))
	if math.Abs(n.Dot(edge)) > eps || math.Abs(n.Len()-1) > eps {
		t.Error("normal: ", n, edge)
	}

	n, _ = NewTranslateMatrix4(5, 5, 5).TransformNormal(NewVector3(0, 0, 3))
	if !n.ApproxEqual(NewVector3(0, 0, 1), eps) {
		t.Error("translation must not affect normals: ", n)
	}

	if _, err := NewScaleMatrix4(0, 0, 0).TransformNormal(NewVector3(0, 0, 1)); err == nil {
		t.Error("singular matrix should fail")
	}
}

func TestDecomposeMatrix(t *testing.T) {
	const eps = 0.000001

	pos := NewVector3(1, 2, 3)
	rot := NewEuler(10*math.Pi/180, 20*math.Pi/180, 30*math.Pi/180, RotationOrderZXY).ToQuaternion()
	scale := NewVector3(1.5, 1.6, 1.7)

	mat := NewTRSMatrix4(pos, rot, scale)
	pos1, rot1, scale1 := mat.Decompose()

	if pos.Sub(pos1).Len() > eps {
		t.Error("pos: ", pos, pos1)
	}
	if rot.Sub(rot1).Len() > eps {
		t.Error("rot: ", rot, rot1)
	}
	if scale.Sub(scale1).Len() > eps {
		t.Error("scale: ", scale, scale1)
	}

	mat2 := NewRotationMatrix4FromQuaternion(rot)
	pos1, rot1, scale1 = mat2.Decompose()
	if rot.Sub(rot1).Len() > eps {
		t.Error("rot: ", rot, rot1)
	}
	if pos1.Len() > eps {
		t.Error("pos: ", pos1)
	}
	if scale1.Sub(NewVector3(1, 1, 1)).Len() > eps {
		t.Error("scale: ", scale1)
	}
}
