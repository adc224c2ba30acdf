package converter

import (
	"testing"

	"github.com/binzume/ogreconv/diag"
	"github.com/binzume/ogreconv/geom"
	"github.com/binzume/ogreconv/host"
)

func TestConvertArmatureMesh(t *testing.T) {
	const eps = 1e-9
	child := newTestBone("child", geom.NewVector3(0, 0, 0), geom.NewVector3(0, 5, 0), 0)
	root := newTestBone("root", geom.NewVector3(0, 0, 0), geom.NewVector3(0, 10, 0), 0, child)
	arm := &testArmature{name: "arm", roots: []host.Bone{root}}
	base := geom.NewMatrix4()
	skeleton := ConvertArmature("rig", arm, base, diag.NewLogger())

	m := ConvertArmatureMesh("arm", arm, base, skeleton, diag.NewLogger())
	if m == nil || m.Name != "arm" || m.Skeleton != "rig" || len(m.SubMeshes) != 1 {
		t.Fatal("mesh: ", m)
	}
	sm := m.SubMeshes[0]
	if sm.Material != SkeletonMaterial || len(sm.Faces) != 12 || len(sm.Vertices) != 36 {
		t.Fatal("submesh: ", sm.Material, len(sm.Faces), len(sm.Vertices))
	}
	if len(sm.Influences) != 2 || sm.Influences[1][0].BoneID != 1 || sm.Influences[1][0].Weight != 1 {
		t.Error("influences: ", sm.Influences)
	}

	// The root pyramid spans the bone with a base half width of 0.3.
	if !sm.Vertices[0].Position.ApproxEqual(geom.NewVector3(0, 10, 0), eps) {
		t.Error("apex: ", sm.Vertices[0].Position)
	}
	if !sm.Vertices[1].Position.ApproxEqual(geom.NewVector3(-0.3, 0, -0.3), eps) {
		t.Error("base corner: ", sm.Vertices[1].Position)
	}
	if !sm.Vertices[18].Position.ApproxEqual(geom.NewVector3(0, 15, 0), eps) {
		t.Error("child apex: ", sm.Vertices[18].Position)
	}

	// All faces point outwards.
	for i, f := range sm.Faces {
		center := geom.NewVector3(0, 2.5, 0)
		if i >= 6 {
			center = geom.NewVector3(0, 11.25, 0)
		}
		a, b, c := sm.Vertices[f[0]], sm.Vertices[f[1]], sm.Vertices[f[2]]
		mid := a.Position.Add(b.Position).Add(c.Position).Scale(1.0 / 3)
		if a.Normal.Dot(mid.Sub(center)) <= 0 {
			t.Error("face ", i, " points inwards: ", a.Normal)
		}
		if sm.VertexInfluences(f[0])[0].BoneID != i/6 {
			t.Error("face ", i, " bound to ", sm.VertexInfluences(f[0]))
		}
	}

	log := diag.NewLogger()
	if m := ConvertArmatureMesh("empty", &testArmature{name: "empty"}, base, skeleton, log); m != nil || log.Status() != diag.Warning {
		t.Error("empty armature: ", m, log.Messages())
	}
}
