package ogre

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/binzume/ogreconv/geom"
)

func testSkeleton() *Skeleton {
	s := NewSkeleton("rig")
	root := &Bone{Name: "root", Loc: geom.NewVector3(0, 0, 0), Rot: geom.NewIdentityQuaternion()}
	arm := &Bone{Name: "arm", Loc: geom.NewVector3(0, 1, 0), Rot: geom.NewQuaternionFromAxisAngle(geom.NewVector3(0, 0, 1), math.Pi/2)}
	s.AddBone(root, nil)
	s.AddBone(arm, root)

	a := NewAnimation("wave")
	a.Duration = 1.5
	a.SetTrack(&Track{Bone: arm, KeyFrames: []*KeyFrame{
		{Time: 0, Loc: geom.NewVector3(0, 0, 0), Rot: geom.NewIdentityQuaternion(), Scale: geom.NewVector3(1, 1, 1)},
		{Time: 1.5, Loc: geom.NewVector3(0, 2, 0), Rot: geom.NewIdentityQuaternion(), Scale: geom.NewVector3(1, 2, 1)},
	}})
	s.SetAnimation(a)
	return s
}

func TestSkeletonModel(t *testing.T) {
	s := testSkeleton()
	if s.Bone("arm").ID != 1 || s.Bone("arm").Parent != s.Bone("root") || len(s.Bone("root").Children) != 1 {
		t.Error("bones: ", s.Bones)
	}
	if s.AddBone(&Bone{Name: "arm"}, nil) {
		t.Error("duplicate bone names must be rejected")
	}

	first := s.Animation("wave")
	if s.SetAnimation(NewAnimation("idle")) {
		t.Error("new animation reported as replaced")
	}
	if !s.SetAnimation(NewAnimation("wave")) {
		t.Error("replacement not reported")
	}
	if len(s.Animations) != 2 || s.Animations[0] == first || s.Animations[0].Name != "wave" {
		t.Error("replaced animation should keep its position: ", s.Animations)
	}

	a := NewAnimation("x")
	a.SetTrack(&Track{Bone: s.Bone("arm")})
	if !a.SetTrack(&Track{Bone: s.Bone("arm")}) || len(a.Tracks) != 1 {
		t.Error("duplicate track: ", a.Tracks)
	}
}

func TestWriteSkeleton(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSkeleton(testSkeleton(), &buf, nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, expected := range []string{
		"<skeleton>\n\t<bones>\n\t\t<bone id=\"0\" name=\"root\">\n",
		"\t\t\t<position x=\"0.000000\" y=\"1.000000\" z=\"0.000000\"/>\n",
		"\t\t\t<rotation angle=\"1.570796\">\n\t\t\t\t<axis x=\"0.000000\" y=\"0.000000\" z=\"1.000000\"/>\n",
		"<boneparent bone=\"arm\" parent=\"root\"/>",
		"<animation name=\"wave\" length=\"1.500000\">",
		"<track bone=\"arm\">",
		"<keyframe time=\"1.500000\">",
		"<translate x=\"0.000000\" y=\"2.000000\" z=\"0.000000\"/>",
		"<scale x=\"1.000000\" y=\"2.000000\" z=\"1.000000\"/>",
	} {
		if !strings.Contains(out, expected) {
			t.Errorf("missing %q in\n%s", expected, out)
		}
	}
	if strings.HasPrefix(out, "<?xml") {
		t.Error("UTF-8 output should not have a declaration")
	}

	s, err := ReadSkeleton(&buf)
	if err != nil {
		t.Fatal(err)
	}
	arm := s.Bone("arm")
	if arm == nil || arm.Parent == nil || arm.Parent.Name != "root" {
		t.Fatal("read back bones: ", s.Bones)
	}
	if !arm.Rot.ApproxEqual(testSkeleton().Bone("arm").Rot, 0.00001) {
		t.Error("read back rotation: ", arm.Rot)
	}
	if p := arm.WorldMatrix.ApplyTo(geom.NewVector3(1, 0, 0)); !p.ApproxEqual(geom.NewVector3(0, 2, 0), 0.00001) {
		t.Error("read back world matrix: ", p)
	}
	if a := s.Animation("wave"); a == nil || len(a.Tracks) != 1 || len(a.Tracks[0].KeyFrames) != 2 {
		t.Error("read back animation: ", s.Animations)
	}
}

func testMesh(n int) *Mesh {
	sm := &SubMesh{Material: "mat/SOLID/"}
	inf := sm.AddInfluences([]Influence{{BoneID: 1, Weight: 0.75}, {BoneID: 0, Weight: 0.25}})
	for i := 0; i < n; i++ {
		sm.AddVertex(&Vertex{
			Position:   geom.NewVector3(float64(i), 0, 0),
			Normal:     geom.NewVector3(0, 0, 1),
			UV:         geom.NewVector2(0.5, 0.25),
			Influences: inf,
		})
	}
	sm.Faces = append(sm.Faces, Face{0, 1, 2})
	return &Mesh{Name: "m", SubMeshes: []*SubMesh{sm}, Skeleton: "rig"}
}

func TestWriteMesh(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMesh(testMesh(3), &buf, nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, expected := range []string{
		"<submesh material=\"mat/SOLID/\" usesharedvertices=\"false\" use32bitindexes=\"false\" operationtype=\"triangle_list\">",
		"<faces count=\"1\">\n\t\t\t\t<face v1=\"0\" v2=\"1\" v3=\"2\"/>",
		"<geometry vertexcount=\"3\">\n\t\t\t\t<vertexbuffer positions=\"true\" normals=\"true\">\n",
		"<vertexbuffer texture_coord_dimensions_0=\"2\" texture_coords=\"1\">\n\t\t\t\t\t<vertex>\n\t\t\t\t\t\t<texcoord u=\"0.500000\" v=\"0.250000\"/>",
		"<vertexboneassignment vertexindex=\"2\" boneindex=\"1\" weight=\"0.750000\"/>",
		"<skeletonlink name=\"rig.skeleton\"/>",
	} {
		if !strings.Contains(out, expected) {
			t.Errorf("missing %q in\n%s", expected, out)
		}
	}
	if strings.Count(out, "<vertexboneassignment") != 6 {
		t.Error("clones share influences, every vertex gets both assignments")
	}

	m, err := ReadMesh(&buf)
	if err != nil {
		t.Fatal(err)
	}
	sm := m.SubMeshes[0]
	if m.Skeleton != "rig" || len(sm.Vertices) != 3 || sm.Vertices[2].Position.X != 2 || sm.Vertices[1].UV == nil {
		t.Error("read back: ", m)
	}
	if inf := sm.VertexInfluences(1); len(inf) != 2 || inf[0].BoneID != 1 {
		t.Error("read back influences: ", inf)
	}
}

func TestWriteMeshStatic(t *testing.T) {
	m := testMesh(3)
	m.Skeleton = ""
	m.SubMeshes[0].Influences = nil
	for _, v := range m.SubMeshes[0].Vertices {
		v.Influences = -1
		v.Colour = &[4]float64{1, 0, 0, 1}
	}
	var buf bytes.Buffer
	if err := WriteMesh(m, &buf, nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Count(out, "<vertexbuffer") != 1 ||
		!strings.Contains(out, "<vertexbuffer positions=\"true\" normals=\"true\" colours_diffuse=\"true\" texture_coord_dimensions_0=\"2\" texture_coords=\"1\">") {
		t.Error("static mesh should use a single buffer:\n", out)
	}
	if !strings.Contains(out, "<colour_diffuse value=\"1.000000 0.000000 0.000000 1.000000\"/>") {
		t.Error("colour")
	}
	if strings.Contains(out, "boneassignments") || strings.Contains(out, "skeletonlink") {
		t.Error("static mesh must not reference bones")
	}
}

func TestUse32BitIndexes(t *testing.T) {
	if testMesh(65535).SubMeshes[0].Use32BitIndexes() {
		t.Error("65535 vertices fit 16 bit indexes")
	}
	if !testMesh(65536).SubMeshes[0].Use32BitIndexes() {
		t.Error("65536 vertices need 32 bit indexes")
	}
}

func TestWriteMaterials(t *testing.T) {
	on := true
	mats := []*Material{
		{
			Name:           "Skin/ALPHA/skin.png",
			ReceiveShadows: &on,
			Ambient:        &[3]float64{0.5, 1.5, -1},
			Specular:       &[3]float64{1, 1, 1},
			Shininess:      12,
			DepthFunc:      "greater_equal",
			LightingOff:    true,
			FogOverride:    true,
			SceneBlend:     "alpha_blend",
			Texture:        "C:\\textures\\skin.png",
		},
		DefaultMaterial("default"),
	}
	var buf bytes.Buffer
	if err := WriteMaterials(mats, &buf, nil); err != nil {
		t.Fatal(err)
	}
	expected := `material Skin/ALPHA/skin.png
{
	receive_shadows on
	technique
	{
		pass
		{
			ambient 0.500000 1.000000 0.000000
			specular 1.000000 1.000000 1.000000 12.000000
			depth_func greater_equal
			lighting off
			fog_override true
			scene_blend alpha_blend
			texture_unit
			{
				texture skin.png
			}
		}
	}
}

material default
{
	technique
	{
		pass
		{
			ambient 0.500000 0.220000 0.500000
			diffuse 1.000000 0.440000 0.100000
			specular 0.500000 0.220000 0.500000 50.000000
			emissive 0.000000 0.000000 0.000000
		}
	}
}

`
	if buf.String() != expected {
		t.Errorf("material script:\n%s", buf.String())
	}
}

func TestEncoding(t *testing.T) {
	enc, err := LookupEncoding("windows 1252")
	if err != nil {
		t.Fatal(err)
	}
	if enc.String() != "windows-1252" {
		t.Error("name: ", enc)
	}
	// Declarations carry the IANA name whatever name was given.
	for _, c := range []struct{ name, iana string }{
		{"ISO 8859-1", "ISO-8859-1"},
		{"latin1", "ISO-8859-1"},
		{"ISO-8859-15", "ISO-8859-15"},
		{"shift_jis", "Shift_JIS"},
		{"EUC-JP", "EUC-JP"},
	} {
		if e, err := LookupEncoding(c.name); err != nil || e.String() != c.iana {
			t.Error("lookup ", c.name, e, err)
		}
	}
	names := EncodingNames()
	for _, n := range names {
		if strings.Contains(n, " ") {
			t.Error("not an IANA name: ", n)
		}
	}
	if !strings.Contains(strings.Join(names, ","), ",windows-1252,") {
		t.Error("names: ", names)
	}
	if e, err := LookupEncoding("UTF-8"); e != nil || err != nil {
		t.Error("UTF-8 should be the nil encoding")
	}
	if _, err := LookupEncoding("klingon"); err == nil {
		t.Error("unknown encoding should fail")
	}

	s := NewSkeleton("x")
	s.AddBone(&Bone{Name: "Schlüssel", Loc: geom.NewVector3(0, 0, 0), Rot: geom.NewIdentityQuaternion()}, nil)
	var buf bytes.Buffer
	if err := WriteSkeleton(s, &buf, enc); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("<?xml version=\"1.0\" encoding=\"windows-1252\"?>")) {
		t.Error("missing declaration: ", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Schl\xfcssel")) {
		t.Error("name should be encoded as Windows 1252")
	}

	r, err := ReadSkeleton(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if r.Bone("Schlüssel") == nil {
		t.Error("decoded name: ", r.Bones[0].Name)
	}
}
