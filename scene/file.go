// Package scene reads authoring scenes stored as YAML and exposes them through the host interfaces.
package scene

// File is the YAML document layout of a scene.
type File struct {
	Name      string         `yaml:"name"`
	FPS       float64        `yaml:"fps"`
	Selected  []string       `yaml:"selected,omitempty"` // all objects when empty
	Objects   []*ObjectDef   `yaml:"objects"`
	Materials []*MaterialDef `yaml:"materials,omitempty"`
	Actions   []*ActionDef   `yaml:"actions,omitempty"`
}

type ObjectDef struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"` // mesh, armature or empty
	Parent string `yaml:"parent,omitempty"`

	// World transform. Matrix wins over location/rotation/scale when set.
	Matrix   []float64   `yaml:"matrix,omitempty"`
	Location *[3]float64 `yaml:"location,omitempty"`
	Rotation *[3]float64 `yaml:"rotation,omitempty"` // degrees, X then Y then Z
	Scale    *[3]float64 `yaml:"scale,omitempty"`

	Mesh       *MeshDef        `yaml:"mesh,omitempty"`
	Armature   *ArmatureDef    `yaml:"armature,omitempty"`
	Animations []*AnimationDef `yaml:"animations,omitempty"`
}

type ArmatureDef struct {
	Name  string     `yaml:"name"`
	Bones []*BoneDef `yaml:"bones"`
}

// BoneDef positions are relative to the parent tail, as the host reports them.
type BoneDef struct {
	Name   string     `yaml:"name"`
	Parent string     `yaml:"parent,omitempty"`
	Head   [3]float64 `yaml:"head"`
	Tail   [3]float64 `yaml:"tail"`
	Roll   float64    `yaml:"roll,omitempty"` // degrees
}

type AnimationDef struct {
	Name   string `yaml:"name"`
	Action string `yaml:"action"`
	Start  int    `yaml:"start"`
	End    int    `yaml:"end"`
}

type MeshDef struct {
	Name      string       `yaml:"name"`
	Vertices  []*VertexDef `yaml:"vertices"`
	Faces     []*FaceDef   `yaml:"faces"`
	Materials []string     `yaml:"materials,omitempty"`
}

type VertexDef struct {
	Co      [3]float64   `yaml:"co"`
	No      *[3]float64  `yaml:"no,omitempty"`
	UV      *[2]float64  `yaml:"uv,omitempty"`
	Weights []*WeightDef `yaml:"weights,omitempty"`
}

type WeightDef struct {
	Bone   string  `yaml:"bone"`
	Weight float64 `yaml:"weight"`
}

type FaceDef struct {
	V        []int        `yaml:"v"`
	UV       [][2]float64 `yaml:"uv,omitempty"`
	Col      [][4]uint8   `yaml:"col,omitempty"`
	Smooth   bool         `yaml:"smooth,omitempty"`
	Material int          `yaml:"material,omitempty"`
	Image    string       `yaml:"image,omitempty"`
	Mode     []string     `yaml:"mode,omitempty"`   // tex, invisible
	Transp   string       `yaml:"transp,omitempty"` // solid, alpha, add
}

type MaterialDef struct {
	Name     string                `yaml:"name"`
	RGB      [3]float64            `yaml:"rgb"`
	Amb      float64               `yaml:"amb"`
	Spec     float64               `yaml:"spec"`
	SpecRGB  [3]float64            `yaml:"specrgb"`
	Hard     int                   `yaml:"hard"`
	Emit     float64               `yaml:"emit"`
	Alpha    float64               `yaml:"alpha"`
	Mode     []string              `yaml:"mode,omitempty"`
	Textures []*MaterialTextureDef `yaml:"textures,omitempty"`
}

type MaterialTextureDef struct {
	Image string `yaml:"image"`
	MapTo string `yaml:"mapto"` // col, nor, ...
	TexCo string `yaml:"texco"` // uv, orco, ...
}

// UnmarshalYAML fills in the defaults of a new material before decoding.
func (m *MaterialDef) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain MaterialDef
	p := plain{
		RGB:     [3]float64{0.8, 0.8, 0.8},
		Amb:     0.5,
		Spec:    0.5,
		SpecRGB: [3]float64{1, 1, 1},
		Hard:    50,
		Alpha:   1,
	}
	if err := unmarshal(&p); err != nil {
		return err
	}
	*m = MaterialDef(p)
	return nil
}

type ActionDef struct {
	Name     string        `yaml:"name"`
	Channels []*ChannelDef `yaml:"channels"`
}

type ChannelDef struct {
	Bone   string      `yaml:"bone"`
	Curves []*CurveDef `yaml:"curves"`
}

// CurveDef keys are [frame, value] pairs. A curve without a name emulates hosts
// that cannot report channel names.
type CurveDef struct {
	Name          string       `yaml:"name,omitempty"`
	Interpolation string       `yaml:"interpolation,omitempty"` // linear (default) or constant
	Keys          [][2]float64 `yaml:"keys"`
}
