package ogre

import "github.com/binzume/ogreconv/geom"

type Mesh struct {
	Name      string
	SubMeshes []*SubMesh
	// Skeleton is the linked skeleton name, empty for static meshes.
	Skeleton string
}

type SubMesh struct {
	Material string
	Vertices []*Vertex
	Faces    []Face
	// Influences is shared by a vertex and its clones through Vertex.Influences.
	Influences [][]Influence
}

type Face [3]int

type Vertex struct {
	Position *geom.Vector3
	Normal   *geom.Vector3
	UV       *geom.Vector2 // nil when the submesh has no texture coordinates
	Colour   *[4]float64   // RGBA in 0..1, nil without vertex colours
	// Influences indexes SubMesh.Influences, -1 for none.
	Influences int
}

type Influence struct {
	BoneID int
	Weight float64
}

// AddVertex appends v and returns its index.
func (s *SubMesh) AddVertex(v *Vertex) int {
	s.Vertices = append(s.Vertices, v)
	return len(s.Vertices) - 1
}

// AddInfluences registers a new influence list and returns its table index.
func (s *SubMesh) AddInfluences(inf []Influence) int {
	s.Influences = append(s.Influences, inf)
	return len(s.Influences) - 1
}

func (s *SubMesh) VertexInfluences(i int) []Influence {
	v := s.Vertices[i]
	if v.Influences < 0 || v.Influences >= len(s.Influences) {
		return nil
	}
	return s.Influences[v.Influences]
}

func (s *SubMesh) Use32BitIndexes() bool {
	return len(s.Vertices) > 65535
}

func (s *SubMesh) HasUV() bool {
	return len(s.Vertices) > 0 && s.Vertices[0].UV != nil
}

func (s *SubMesh) HasColours() bool {
	return len(s.Vertices) > 0 && s.Vertices[0].Colour != nil
}

func (s *SubMesh) HasInfluences() bool {
	for _, inf := range s.Influences {
		if len(inf) > 0 {
			return true
		}
	}
	return false
}
