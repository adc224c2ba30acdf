package ogre

type Material struct {
	Name string
	// ReceiveShadows is nil when the material script should not mention shadows.
	ReceiveShadows *bool

	Ambient   *[3]float64
	Diffuse   *[3]float64
	Specular  *[3]float64
	Shininess float64
	Emissive  *[3]float64

	DepthFunc   string // always_fail, greater_equal or empty
	LightingOff bool
	FogOverride bool
	SceneBlend  string // alpha_blend, add or empty
	Texture     string
}

// DefaultMaterial is used for faces without a host material and without texture.
func DefaultMaterial(name string) *Material {
	return &Material{
		Name:      name,
		Ambient:   &[3]float64{0.5, 0.22, 0.5},
		Diffuse:   &[3]float64{1.0, 0.44, 0.1},
		Specular:  &[3]float64{0.5, 0.22, 0.5},
		Shininess: 50,
		Emissive:  &[3]float64{0, 0, 0},
	}
}
