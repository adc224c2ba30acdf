package scene

import (
	"github.com/binzume/ogreconv/geom"
	"github.com/binzume/ogreconv/host"
	"github.com/pkg/errors"
)

type mesh struct {
	name      string
	faces     []*host.Face
	faceUV    bool
	vertexUV  bool
	materials []*host.Material
	weights   [][]host.Weight
}

func (s *Scene) newMesh(def *MeshDef) (*mesh, error) {
	m := &mesh{name: def.Name}
	normals := vertexNormals(def)
	for _, v := range def.Vertices {
		if v.UV != nil {
			m.vertexUV = true
		}
		var weights []host.Weight
		for _, w := range v.Weights {
			weights = append(weights, host.Weight{Bone: w.Bone, Weight: w.Weight})
		}
		m.weights = append(m.weights, weights)
	}
	for _, name := range def.Materials {
		if name == "" {
			m.materials = append(m.materials, nil)
			continue
		}
		mat, ok := s.materials[name]
		if !ok {
			return nil, errors.Errorf("mesh %q: unknown material %q", def.Name, name)
		}
		m.materials = append(m.materials, mat)
	}

	for i, f := range def.Faces {
		face := &host.Face{
			Smooth:   f.Smooth,
			Material: f.Material,
			Image:    f.Image,
			Transp:   transparency[f.Transp],
		}
		for _, mode := range f.Mode {
			switch mode {
			case "tex":
				face.Textured = true
			case "invisible":
				face.Invisible = true
			}
		}
		if len(f.UV) > 0 {
			if len(f.UV) != len(f.V) {
				return nil, errors.Errorf("mesh %q face %d: %d uvs for %d vertices", def.Name, i, len(f.UV), len(f.V))
			}
			m.faceUV = true
		}
		if len(f.Col) > 0 && len(f.Col) != len(f.V) {
			return nil, errors.Errorf("mesh %q face %d: %d colours for %d vertices", def.Name, i, len(f.Col), len(f.V))
		}
		for j, vi := range f.V {
			if vi < 0 || vi >= len(def.Vertices) {
				return nil, errors.Errorf("mesh %q face %d: vertex index %d out of range", def.Name, i, vi)
			}
			v := def.Vertices[vi]
			c := host.Corner{
				Index:    vi,
				Position: geom.NewVector3FromArray(v.Co),
				Normal:   normals[vi],
			}
			if v.UV != nil {
				c.StickyUV = geom.NewVector2(v.UV[0], v.UV[1])
			}
			if len(f.UV) > 0 {
				c.FaceUV = geom.NewVector2(f.UV[j][0], f.UV[j][1])
			}
			if len(f.Col) > 0 {
				col := f.Col[j]
				c.Color = &col
			}
			face.Corners = append(face.Corners, c)
		}
		m.faces = append(m.faces, face)
	}
	return m, nil
}

var transparency = map[string]host.Transparency{
	"":      host.Solid,
	"solid": host.Solid,
	"alpha": host.Alpha,
	"add":   host.Add,
}

// vertexNormals uses the given normals and averages face normals for the rest.
func vertexNormals(def *MeshDef) []*geom.Vector3 {
	sum := make([]*geom.Vector3, len(def.Vertices))
	for i := range sum {
		sum[i] = &geom.Vector3{}
	}
	for _, f := range def.Faces {
		if len(f.V) < 3 {
			continue
		}
		ok := true
		for _, vi := range f.V {
			if vi < 0 || vi >= len(def.Vertices) {
				ok = false
			}
		}
		if !ok {
			continue
		}
		p0 := geom.NewVector3FromArray(def.Vertices[f.V[0]].Co)
		p1 := geom.NewVector3FromArray(def.Vertices[f.V[1]].Co)
		p2 := geom.NewVector3FromArray(def.Vertices[f.V[2]].Co)
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, vi := range f.V {
			sum[vi] = sum[vi].Add(n)
		}
	}
	normals := make([]*geom.Vector3, len(def.Vertices))
	for i, v := range def.Vertices {
		if v.No != nil {
			normals[i] = geom.NewVector3FromArray(*v.No)
			continue
		}
		normals[i], _ = sum[i].Normalize()
	}
	return normals
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Faces() []*host.Face {
	return m.faces
}

func (m *mesh) HasFaceUV() bool {
	return m.faceUV
}

func (m *mesh) HasVertexUV() bool {
	return m.vertexUV
}

func (m *mesh) Materials() []*host.Material {
	return m.materials
}

func (m *mesh) Influences(vertex int) []host.Weight {
	if vertex < 0 || vertex >= len(m.weights) {
		return nil
	}
	return m.weights[vertex]
}
