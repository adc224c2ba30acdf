package converter

import (
	"io/ioutil"

	"github.com/binzume/ogreconv/geom"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

type Options struct {
	// Export rotation in degrees, applied around X, then Y, then Z, followed by Scale.
	RotX  float64 `yaml:"rot_x"`
	RotY  float64 `yaml:"rot_y"`
	RotZ  float64 `yaml:"rot_z"`
	Scale float64 `yaml:"scale"`

	// WorldCoordinates exports meshes in world space. Otherwise meshes stay in
	// object space and skeletons are expressed relative to the mesh.
	WorldCoordinates bool `yaml:"world_coordinates"`
	ColouredAmbient  bool `yaml:"coloured_ambient"`
	ExportUV         bool `yaml:"export_uv"`
	ExportArmature   bool `yaml:"export_armature"`
	// ArmatureMesh writes selected armatures as meshes for debugging.
	ArmatureMesh bool `yaml:"armature_mesh"`
	GLTF         bool `yaml:"gltf"`

	ExportPath   string `yaml:"export_path"`
	MaterialFile string `yaml:"material_file"` // Default: <scene name>.material
	Encoding     string `yaml:"encoding"`
	Workers      int    `yaml:"workers"`

	// Animations overrides the animation ranges of the scene, keyed by armature object name.
	Animations map[string][]*AnimationRange `yaml:"animations,omitempty"`
}

type AnimationRange struct {
	Name   string `yaml:"name"`
	Action string `yaml:"action"`
	Start  int    `yaml:"start"`
	End    int    `yaml:"end"`
}

func DefaultOptions() *Options {
	return &Options{
		RotX:           -90,
		Scale:          1,
		ExportUV:       true,
		ExportArmature: true,
		ArmatureMesh:   true,
		ExportPath:     ".",
		Workers:        1,
	}
}

// TransformationMatrix is the additional export transform applied after the object transforms.
func (o *Options) TransformationMatrix() *geom.Matrix4 {
	rot := geom.NewEuler(geom.Radians(o.RotX), geom.Radians(o.RotY), geom.Radians(o.RotZ), geom.RotationOrderZYX).ToMatrix4()
	return geom.NewScaleMatrix4(o.Scale, o.Scale, o.Scale).Mul(rot)
}

// LoadSettings reads options saved by SaveSettings. Missing keys keep their defaults.
func LoadSettings(path string) (*Options, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read settings")
	}
	o := DefaultOptions()
	if err := yaml.Unmarshal(data, o); err != nil {
		return nil, errors.Wrapf(err, "parse settings %s", path)
	}
	return o, nil
}

func SaveSettings(path string, o *Options) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return errors.Wrap(err, "encode settings")
	}
	return errors.Wrap(ioutil.WriteFile(path, data, 0644), "write settings")
}
