package scene

import (
	"io/ioutil"
	"sort"

	"github.com/binzume/ogreconv/geom"
	"github.com/binzume/ogreconv/host"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Scene implements host.Scene over a decoded File.
type Scene struct {
	file      *File
	objects   []*object
	byName    map[string]*object
	actions   map[string]*action
	materials map[string]*host.Material
}

func Load(path string) (*Scene, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scene")
	}
	return Parse(data)
}

func Parse(data []byte) (*Scene, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse scene")
	}
	return New(&f)
}

// New resolves the references of f and builds the host view.
func New(f *File) (*Scene, error) {
	s := &Scene{
		file:      f,
		byName:    map[string]*object{},
		actions:   map[string]*action{},
		materials: map[string]*host.Material{},
	}
	if s.file.FPS <= 0 {
		s.file.FPS = 25
	}
	for _, m := range f.Materials {
		s.materials[m.Name] = newMaterial(m)
	}
	for _, a := range f.Actions {
		s.actions[a.Name] = newAction(a)
	}
	for _, def := range f.Objects {
		if _, exists := s.byName[def.Name]; exists {
			return nil, errors.Errorf("duplicate object %q", def.Name)
		}
		o, err := s.newObject(def)
		if err != nil {
			return nil, errors.Wrapf(err, "object %q", def.Name)
		}
		s.objects = append(s.objects, o)
		s.byName[def.Name] = o
	}
	for _, o := range s.objects {
		if o.def.Parent == "" {
			continue
		}
		p, ok := s.byName[o.def.Parent]
		if !ok {
			return nil, errors.Errorf("object %q: unknown parent %q", o.def.Name, o.def.Parent)
		}
		o.parent = p
	}
	for _, name := range f.Selected {
		if _, ok := s.byName[name]; !ok {
			return nil, errors.Errorf("unknown selected object %q", name)
		}
	}
	return s, nil
}

func (s *Scene) Name() string {
	return s.file.Name
}

func (s *Scene) FPS() float64 {
	return s.file.FPS
}

func (s *Scene) Selected() []host.Object {
	var objects []host.Object
	if len(s.file.Selected) == 0 {
		for _, o := range s.objects {
			objects = append(objects, o)
		}
		return objects
	}
	for _, name := range s.file.Selected {
		objects = append(objects, s.byName[name])
	}
	return objects
}

func (s *Scene) Animations(armatureObject string) []host.AnimationSetting {
	o, ok := s.byName[armatureObject]
	if !ok {
		return nil
	}
	var settings []host.AnimationSetting
	for _, a := range o.def.Animations {
		setting := host.AnimationSetting{Name: a.Name, StartFrame: a.Start, EndFrame: a.End}
		if act, ok := s.actions[a.Action]; ok {
			setting.Action = act
		}
		settings = append(settings, setting)
	}
	return settings
}

// Object returns the named object or nil.
func (s *Scene) Object(name string) host.Object {
	if o, ok := s.byName[name]; ok {
		return o
	}
	return nil
}

// Action returns the named action or nil.
func (s *Scene) Action(name string) host.Action {
	if a, ok := s.actions[name]; ok {
		return a
	}
	return nil
}

type object struct {
	def      *ObjectDef
	matrix   *geom.Matrix4
	parent   *object
	mesh     *mesh
	armature *armature
}

func (s *Scene) newObject(def *ObjectDef) (*object, error) {
	o := &object{def: def, matrix: objectMatrix(def)}
	switch def.Type {
	case "mesh":
		if def.Mesh == nil {
			return nil, errors.New("mesh object without mesh data")
		}
		m, err := s.newMesh(def.Mesh)
		if err != nil {
			return nil, err
		}
		o.mesh = m
	case "armature":
		if def.Armature == nil {
			return nil, errors.New("armature object without armature data")
		}
		a, err := newArmature(def.Armature)
		if err != nil {
			return nil, err
		}
		o.armature = a
	case "":
	default:
		return nil, errors.Errorf("unknown object type %q", def.Type)
	}
	return o, nil
}

func objectMatrix(def *ObjectDef) *geom.Matrix4 {
	if len(def.Matrix) == 16 {
		return geom.NewMatrix4FromSlice(def.Matrix)
	}
	pos := geom.NewVector3(0, 0, 0)
	rot := geom.NewIdentityQuaternion()
	scale := geom.NewVector3(1, 1, 1)
	if def.Location != nil {
		pos = geom.NewVector3FromArray(*def.Location)
	}
	if def.Rotation != nil {
		r := def.Rotation
		rot = geom.NewEuler(geom.Radians(r[0]), geom.Radians(r[1]), geom.Radians(r[2]), geom.RotationOrderZYX).ToQuaternion()
	}
	if def.Scale != nil {
		scale = geom.NewVector3FromArray(*def.Scale)
	}
	return geom.NewTRSMatrix4(pos, rot, scale)
}

func (o *object) Name() string {
	return o.def.Name
}

func (o *object) Type() host.ObjectType {
	switch {
	case o.mesh != nil:
		return host.ObjectMesh
	case o.armature != nil:
		return host.ObjectArmature
	}
	return host.ObjectOther
}

func (o *object) Matrix() *geom.Matrix4 {
	return o.matrix.Clone()
}

func (o *object) Parent() host.Object {
	if o.parent == nil {
		return nil
	}
	return o.parent
}

func (o *object) Mesh() host.Mesh {
	if o.mesh == nil {
		return nil
	}
	return o.mesh
}

func (o *object) Armature() host.Armature {
	if o.armature == nil {
		return nil
	}
	return o.armature
}

type armature struct {
	name  string
	roots []host.Bone
}

type bone struct {
	def      *BoneDef
	children []host.Bone
}

func newArmature(def *ArmatureDef) (*armature, error) {
	a := &armature{name: def.Name}
	bones := map[string]*bone{}
	for _, b := range def.Bones {
		if _, exists := bones[b.Name]; exists {
			return nil, errors.Errorf("duplicate bone %q", b.Name)
		}
		bones[b.Name] = &bone{def: b}
	}
	for _, b := range def.Bones {
		if b.Parent == "" {
			a.roots = append(a.roots, bones[b.Name])
			continue
		}
		p, ok := bones[b.Parent]
		if !ok {
			return nil, errors.Errorf("bone %q: unknown parent %q", b.Name, b.Parent)
		}
		p.children = append(p.children, bones[b.Name])
	}
	if len(def.Bones) > 0 && len(a.roots) == 0 {
		return nil, errors.New("bone hierarchy has no root")
	}
	return a, nil
}

func (a *armature) Name() string           { return a.name }
func (a *armature) RootBones() []host.Bone { return a.roots }

func (b *bone) Name() string          { return b.def.Name }
func (b *bone) Head() *geom.Vector3   { return geom.NewVector3FromArray(b.def.Head) }
func (b *bone) Tail() *geom.Vector3   { return geom.NewVector3FromArray(b.def.Tail) }
func (b *bone) Roll() float64         { return geom.Radians(b.def.Roll) }
func (b *bone) Children() []host.Bone { return b.children }

func newMaterial(def *MaterialDef) *host.Material {
	m := &host.Material{
		Name:          def.Name,
		Color:         def.RGB,
		Ambient:       def.Amb,
		Specular:      def.Spec,
		SpecularColor: def.SpecRGB,
		Hardness:      def.Hard,
		Emit:          def.Emit,
		Alpha:         def.Alpha,
	}
	for _, mode := range def.Mode {
		m.Mode |= materialModes[mode]
	}
	for _, t := range def.Textures {
		m.Textures = append(m.Textures, host.MaterialTexture{
			Image:    t.Image,
			MapColor: t.MapTo == "" || t.MapTo == "col",
			UVCoords: t.TexCo == "" || t.TexCo == "uv",
		})
	}
	return m
}

var materialModes = map[string]host.MaterialMode{
	"shadow":    host.ModeShadow,
	"shadeless": host.ModeShadeless,
	"nomist":    host.ModeNoMist,
	"env":       host.ModeEnv,
	"zinvert":   host.ModeZInvert,
	"texface":   host.ModeTexFace,
	"vcolpaint": host.ModeVColPaint,
}

type action struct {
	name     string
	channels []host.BoneChannel
}

func newAction(def *ActionDef) *action {
	a := &action{name: def.Name}
	for _, ch := range def.Channels {
		bc := host.BoneChannel{Bone: ch.Bone}
		for _, c := range ch.Curves {
			bc.Curves = append(bc.Curves, newCurve(c))
		}
		a.channels = append(a.channels, bc)
	}
	return a
}

func (a *action) Name() string                 { return a.name }
func (a *action) Channels() []host.BoneChannel { return a.channels }

type curve struct {
	name     string
	constant bool
	keys     [][2]float64
}

func newCurve(def *CurveDef) *curve {
	keys := append([][2]float64(nil), def.Keys...)
	sort.SliceStable(keys, func(i, j int) bool { return keys[i][0] < keys[j][0] })
	return &curve{name: def.Name, constant: def.Interpolation == "constant", keys: keys}
}

func (c *curve) Name() (string, bool) {
	return c.name, c.name != ""
}

func (c *curve) KeyFrames() []float64 {
	frames := make([]float64, len(c.keys))
	for i, k := range c.keys {
		frames[i] = k[0]
	}
	return frames
}

// Evaluate holds the first and last values outside the keyed range.
func (c *curve) Evaluate(frame float64) float64 {
	if len(c.keys) == 0 {
		return 0
	}
	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i][0] > frame })
	if i == 0 {
		return c.keys[0][1]
	}
	if i == len(c.keys) {
		return c.keys[i-1][1]
	}
	k0, k1 := c.keys[i-1], c.keys[i]
	if c.constant || k1[0] == k0[0] {
		return k0[1]
	}
	t := (frame - k0[0]) / (k1[0] - k0[0])
	return k0[1] + (k1[1]-k0[1])*t
}
