package converter

import (
	"strings"

	"github.com/binzume/ogreconv/diag"
	"github.com/binzume/ogreconv/host"
	"github.com/binzume/ogreconv/ogre"
)

// SkeletonMaterial is assigned to armatures exported as meshes.
const SkeletonMaterial = "SkeletonMaterial"

// MaterialEntry identifies one exported material: a host material slot,
// the face transparency and the texture image.
type MaterialEntry struct {
	Key     string
	Source  *host.Material // nil for texture only materials
	Texture string         // image path as reported by the host
	Transp  host.Transparency
}

// TextureBasename strips the directory of an image path written with either
// separator. Spaces are not allowed in material scripts and become underscores.
func TextureBasename(p string, log *diag.Logger) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		p = p[i+1:]
	}
	if strings.ContainsAny(p, " \t") {
		renamed := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\t' {
				return '_'
			}
			return r
		}, p)
		log.Warningf("Texture filename %q contains whitespace, using %q.", p, renamed)
		return renamed
	}
	return p
}

// faceTexture returns the image of a textured face, falling back to the first
// colour image texture with UV mapping of the face material.
func faceTexture(mesh host.Mesh, slot *host.Material, face *host.Face, opts *Options, log *diag.Logger) string {
	if !opts.ExportUV || !mesh.HasFaceUV() || !face.Textured {
		return ""
	}
	if face.Image != "" {
		return face.Image
	}
	if slot != nil {
		for _, t := range slot.Textures {
			if t.Image != "" && t.MapColor && t.UVCoords {
				return t.Image
			}
		}
	}
	log.Errorf("Face is textured but has no image assigned in mesh %q.", mesh.Name())
	return ""
}

// FaceMaterial returns the material a face is exported with, or nil when the face
// has neither a material slot nor a texture.
func FaceMaterial(mesh host.Mesh, face *host.Face, opts *Options, log *diag.Logger) *MaterialEntry {
	slots := mesh.Materials()
	var slot *host.Material
	if len(slots) > 0 {
		if face.Material >= 0 && face.Material < len(slots) {
			slot = slots[face.Material]
		} else {
			log.Warningf("Face of mesh %q uses missing material slot %d.", mesh.Name(), face.Material)
		}
	}
	texture := faceTexture(mesh, slot, face, opts, log)
	if len(slots) == 0 && texture == "" {
		return nil
	}

	key := ""
	if slot != nil {
		key += slot.Name + "/"
	}
	switch face.Transp {
	case host.Alpha:
		key += "ALPHA/"
	case host.Add:
		key += "ADD/"
	default:
		key += "SOLID/"
	}
	if texture != "" {
		key += TextureBasename(texture, diag.NewLogger())
	}
	return &MaterialEntry{Key: key, Source: slot, Texture: texture, Transp: face.Transp}
}

// HasVertexColours reports whether faces of this material export their vertex colours.
func (e *MaterialEntry) HasVertexColours() bool {
	return e.Source != nil && e.Source.Mode&host.ModeVColPaint != 0
}

// ConvertMaterial derives the material script of e.
func ConvertMaterial(e *MaterialEntry, opts *Options, log *diag.Logger) *ogre.Material {
	if e.Source == nil && e.Texture == "" {
		return ogre.DefaultMaterial(e.Key)
	}
	m := &ogre.Material{Name: e.Key}
	switch e.Transp {
	case host.Alpha:
		m.SceneBlend = "alpha_blend"
	case host.Add:
		m.SceneBlend = "add"
	}
	if e.Texture != "" {
		m.Texture = TextureBasename(e.Texture, log)
	}
	src := e.Source
	if src == nil {
		return m
	}

	shadows := src.Mode&host.ModeShadow != 0
	m.ReceiveShadows = &shadows
	faceColours := src.Mode&(host.ModeTexFace|host.ModeVColPaint) != 0

	ambient := [3]float64{1, 1, 1}
	if opts.ColouredAmbient && !faceColours {
		ambient = src.Color
	}
	m.Ambient = &[3]float64{src.Ambient * ambient[0], src.Ambient * ambient[1], src.Ambient * ambient[2]}
	if !faceColours {
		diffuse := src.Color
		m.Diffuse = &diffuse
	}
	m.Specular = &[3]float64{src.Specular * src.SpecularColor[0], src.Specular * src.SpecularColor[1], src.Specular * src.SpecularColor[2]}
	m.Shininess = float64(src.Hardness)
	if !faceColours {
		m.Emissive = &[3]float64{src.Emit * src.Color[0], src.Emit * src.Color[1], src.Emit * src.Color[2]}
	}

	if src.Mode&host.ModeEnv != 0 {
		m.DepthFunc = "always_fail"
	} else if src.Mode&host.ModeZInvert != 0 {
		m.DepthFunc = "greater_equal"
	}
	m.LightingOff = src.Mode&host.ModeShadeless != 0
	m.FogOverride = src.Mode&host.ModeNoMist != 0
	return m
}
