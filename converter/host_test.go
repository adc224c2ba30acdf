package converter

import (
	"sort"

	"github.com/binzume/ogreconv/geom"
	"github.com/binzume/ogreconv/host"
)

type testBone struct {
	name       string
	head, tail *geom.Vector3
	roll       float64
	children   []host.Bone
}

func (b *testBone) Name() string          { return b.name }
func (b *testBone) Head() *geom.Vector3   { return b.head }
func (b *testBone) Tail() *geom.Vector3   { return b.tail }
func (b *testBone) Roll() float64         { return b.roll }
func (b *testBone) Children() []host.Bone { return b.children }

func newTestBone(name string, head, tail *geom.Vector3, roll float64, children ...host.Bone) *testBone {
	return &testBone{name: name, head: head, tail: tail, roll: roll, children: children}
}

type testArmature struct {
	name  string
	roots []host.Bone
}

func (a *testArmature) Name() string           { return a.name }
func (a *testArmature) RootBones() []host.Bone { return a.roots }

// testCurve interpolates linearly between keys given as [frame, value].
type testCurve struct {
	name string
	keys [][2]float64
}

func (c *testCurve) Name() (string, bool) { return c.name, c.name != "" }

func (c *testCurve) KeyFrames() []float64 {
	var frames []float64
	for _, k := range c.keys {
		frames = append(frames, k[0])
	}
	return frames
}

func (c *testCurve) Evaluate(frame float64) float64 {
	keys := c.keys
	if len(keys) == 0 {
		return 0
	}
	i := sort.Search(len(keys), func(i int) bool { return keys[i][0] > frame })
	if i == 0 {
		return keys[0][1]
	}
	if i == len(keys) {
		return keys[i-1][1]
	}
	t := (frame - keys[i-1][0]) / (keys[i][0] - keys[i-1][0])
	return keys[i-1][1] + (keys[i][1]-keys[i-1][1])*t
}

func curve(name string, keys ...[2]float64) host.Curve {
	return &testCurve{name: name, keys: keys}
}

type testAction struct {
	name     string
	channels []host.BoneChannel
}

func (a *testAction) Name() string                 { return a.name }
func (a *testAction) Channels() []host.BoneChannel { return a.channels }

type testMesh struct {
	name      string
	faces     []*host.Face
	faceUV    bool
	vertexUV  bool
	materials []*host.Material
	weights   map[int][]host.Weight
}

func (m *testMesh) Name() string                        { return m.name }
func (m *testMesh) Faces() []*host.Face                 { return m.faces }
func (m *testMesh) HasFaceUV() bool                     { return m.faceUV }
func (m *testMesh) HasVertexUV() bool                   { return m.vertexUV }
func (m *testMesh) Materials() []*host.Material         { return m.materials }
func (m *testMesh) Influences(vertex int) []host.Weight { return m.weights[vertex] }

// corner returns a corner of a source vertex at p with a +Z normal.
func corner(index int, x, y, z float64) host.Corner {
	return host.Corner{Index: index, Position: geom.NewVector3(x, y, z), Normal: geom.NewVector3(0, 0, 1)}
}

func face(material int, corners ...host.Corner) *host.Face {
	return &host.Face{Corners: corners, Material: material}
}
