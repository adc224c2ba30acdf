// Package host declares the read-only view of an authoring scene that the exporter consumes.
package host

import "github.com/binzume/ogreconv/geom"

type ObjectType int

const (
	ObjectOther ObjectType = iota
	ObjectMesh
	ObjectArmature
)

type Scene interface {
	Name() string
	FPS() float64
	// Selected returns the objects chosen for export, in selection order.
	Selected() []Object
	// Animations returns the animation ranges configured for an armature object.
	Animations(armatureObject string) []AnimationSetting
	// Action returns nil when no action has that name.
	Action(name string) Action
}

type Object interface {
	Name() string
	Type() ObjectType
	// Matrix is the world transform of the object.
	Matrix() *geom.Matrix4
	// Parent returns nil for top-level objects.
	Parent() Object
	// Mesh returns nil unless Type is ObjectMesh.
	Mesh() Mesh
	// Armature returns nil unless Type is ObjectArmature.
	Armature() Armature
}

type Armature interface {
	Name() string
	RootBones() []Bone
}

// Bone reports its rest pose. Head and tail of a child are relative to the tail
// of its parent; root bones are in armature space. Roll is in radians.
type Bone interface {
	Name() string
	Head() *geom.Vector3
	Tail() *geom.Vector3
	Roll() float64
	Children() []Bone
}

type Mesh interface {
	Name() string
	Faces() []*Face
	HasFaceUV() bool
	// HasVertexUV reports sticky (per-vertex) texture coordinates.
	HasVertexUV() bool
	// Materials returns the material slots. Empty slots are nil.
	Materials() []*Material
	// Influences returns the vertex group weights of a source vertex.
	Influences(vertex int) []Weight
}

type Transparency int

const (
	Solid Transparency = iota
	Alpha
	Add
)

type Face struct {
	Corners   []Corner
	Smooth    bool
	Material  int
	Image     string
	Textured  bool
	Invisible bool
	Transp    Transparency
}

type Corner struct {
	Index    int
	Position *geom.Vector3
	Normal   *geom.Vector3
	FaceUV   *geom.Vector2
	StickyUV *geom.Vector2
	// Color is RGBA in 0..255, nil when the mesh has no vertex colours.
	Color *[4]uint8
}

type Weight struct {
	Bone   string
	Weight float64
}

type MaterialMode uint32

const (
	ModeShadow MaterialMode = 1 << iota
	ModeShadeless
	ModeNoMist
	ModeEnv
	ModeZInvert
	ModeTexFace
	ModeVColPaint
)

type Material struct {
	Name          string
	Color         [3]float64
	Ambient       float64
	Specular      float64
	SpecularColor [3]float64
	Hardness      int
	Emit          float64
	Alpha         float64
	Mode          MaterialMode
	Textures      []MaterialTexture
}

type MaterialTexture struct {
	Image    string
	MapColor bool
	UVCoords bool
}

// Curve is one animation channel of a bone.
type Curve interface {
	// Name returns false when the host cannot report channel names.
	Name() (string, bool)
	Evaluate(frame float64) float64
	KeyFrames() []float64
}

type Action interface {
	Name() string
	Channels() []BoneChannel
}

type BoneChannel struct {
	Bone   string
	Curves []Curve
}

type AnimationSetting struct {
	Name       string
	StartFrame int
	EndFrame   int
	Action     Action
}
