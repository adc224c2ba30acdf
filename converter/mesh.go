package converter

import (
	"sort"

	"github.com/binzume/ogreconv/diag"
	"github.com/binzume/ogreconv/geom"
	"github.com/binzume/ogreconv/host"
	"github.com/binzume/ogreconv/ogre"
	"golang.org/x/sync/errgroup"
)

const (
	vertexEpsilon = 1e-6
	maxInfluences = 4
)

type faceGroup struct {
	entry *MaterialEntry
	faces []*host.Face
}

// ConvertMesh converts the visible faces of mesh into submeshes, one per material.
// matrix maps mesh space into export space. skeleton may be nil for static meshes.
// It returns nil when the mesh cannot be converted or has no faces to export.
func ConvertMesh(name string, mesh host.Mesh, matrix *geom.Matrix4, skeleton *ogre.Skeleton, opts *Options, log *diag.Logger) (*ogre.Mesh, []*MaterialEntry) {
	inv, err := matrix.Inverse()
	if err != nil {
		log.Errorf("Mesh %q: %v, mesh skipped.", mesh.Name(), err)
		return nil, nil
	}
	normalMatrix := inv.Transposed()

	var groups []*faceGroup
	byKey := map[string]*faceGroup{}
	for _, face := range mesh.Faces() {
		if face.Invisible {
			continue
		}
		if n := len(face.Corners); n != 3 && n != 4 {
			log.Warningf("Ignored face with %d edges in mesh %q.", n, mesh.Name())
			continue
		}
		entry := FaceMaterial(mesh, face, opts, log)
		if entry == nil {
			continue
		}
		g, ok := byKey[entry.Key]
		if !ok {
			g = &faceGroup{entry: entry}
			byKey[entry.Key] = g
			groups = append(groups, g)
		}
		g.faces = append(g.faces, face)
	}

	subMeshes := make([]*ogre.SubMesh, len(groups))
	logs := make([]*diag.Logger, len(groups))
	var eg errgroup.Group
	if opts.Workers > 0 {
		eg.SetLimit(opts.Workers)
	}
	for i, g := range groups {
		i, g := i, g
		logs[i] = log.Child()
		eg.Go(func() error {
			b := &subMeshBuilder{
				mesh:         mesh,
				matrix:       matrix,
				normalMatrix: normalMatrix,
				skeleton:     skeleton,
				entry:        g.entry,
				log:          logs[i],
				vertices:     map[int][]int{},
				subMesh:      &ogre.SubMesh{Material: g.entry.Key},
			}
			for _, f := range g.faces {
				b.addFace(f)
			}
			subMeshes[i] = b.subMesh
			return nil
		})
	}
	eg.Wait()

	m := &ogre.Mesh{Name: name}
	if skeleton != nil {
		m.Skeleton = skeleton.Name
	}
	var entries []*MaterialEntry
	for i, sm := range subMeshes {
		log.Merge(logs[i])
		if len(sm.Faces) == 0 {
			continue
		}
		m.SubMeshes = append(m.SubMeshes, sm)
		entries = append(entries, groups[i].entry)
	}
	if len(m.SubMeshes) == 0 {
		log.Warningf("Mesh %q has no visible faces.", mesh.Name())
		return nil, nil
	}
	return m, entries
}

type subMeshBuilder struct {
	mesh         host.Mesh
	matrix       *geom.Matrix4
	normalMatrix *geom.Matrix4
	skeleton     *ogre.Skeleton
	entry        *MaterialEntry
	log          *diag.Logger

	// vertices maps a source vertex index to its engine vertex and clones.
	vertices map[int][]int
	subMesh  *ogre.SubMesh
}

func (b *subMeshBuilder) transformNormal(n *geom.Vector3) *geom.Vector3 {
	r, ok := b.normalMatrix.ApplyToVector(n).Normalize()
	if !ok {
		b.log.Warningf("Degenerate normal in mesh %q.", b.mesh.Name())
	}
	return r
}

func (b *subMeshBuilder) addFace(face *host.Face) {
	var faceNormal *geom.Vector3
	if !face.Smooth {
		p1, p2, p3 := face.Corners[0].Position, face.Corners[1].Position, face.Corners[2].Position
		faceNormal = b.transformNormal(p3.Sub(p2).Cross(p1.Sub(p2)))
	}

	var indices [4]int
	for i := range face.Corners {
		c := &face.Corners[i]
		v := &ogre.Vertex{Position: b.matrix.ApplyTo(c.Position), Normal: faceNormal, Influences: -1}
		if face.Smooth {
			v.Normal = b.transformNormal(c.Normal)
		}
		if b.entry.Texture != "" {
			uv := c.FaceUV
			if b.mesh.HasVertexUV() {
				uv = c.StickyUV
			}
			if uv == nil {
				uv = geom.NewVector2(0, 0)
			}
			v.UV = uv.FlipV()
		}
		if b.entry.HasVertexColours() {
			v.Colour = &[4]float64{1, 1, 1, 1}
			if c.Color != nil {
				v.Colour = &[4]float64{float64(c.Color[0]) / 255, float64(c.Color[1]) / 255, float64(c.Color[2]) / 255, float64(c.Color[3]) / 255}
			}
		}
		indices[i] = b.vertex(c.Index, v)
	}

	sm := b.subMesh
	if len(face.Corners) == 3 {
		sm.Faces = append(sm.Faces, ogre.Face{indices[0], indices[1], indices[2]})
		return
	}
	p := func(i int) *geom.Vector3 { return sm.Vertices[indices[i]].Position }
	if p(0).Distance(p(2)) < p(1).Distance(p(3)) {
		sm.Faces = append(sm.Faces,
			ogre.Face{indices[0], indices[1], indices[2]},
			ogre.Face{indices[0], indices[2], indices[3]})
	} else {
		sm.Faces = append(sm.Faces,
			ogre.Face{indices[0], indices[1], indices[3]},
			ogre.Face{indices[1], indices[2], indices[3]})
	}
}

// vertex returns the engine vertex of a source vertex with the attributes of v,
// adding v as a new vertex or as a clone when no equal one exists.
func (b *subMeshBuilder) vertex(source int, v *ogre.Vertex) int {
	sm := b.subMesh
	known := b.vertices[source]
	for _, i := range known {
		if vertexEqual(sm.Vertices[i], v) {
			return i
		}
	}
	if len(known) > 0 {
		v.Influences = sm.Vertices[known[0]].Influences
	} else if b.skeleton != nil {
		v.Influences = sm.AddInfluences(b.influences(source))
	}
	i := sm.AddVertex(v)
	b.vertices[source] = append(known, i)
	return i
}

// influences returns the strongest bone weights of a source vertex, normalized to sum to 1.
func (b *subMeshBuilder) influences(source int) []ogre.Influence {
	var weights []host.Weight
	for _, w := range b.mesh.Influences(source) {
		if b.skeleton.Bone(w.Bone) == nil {
			b.log.Warningf("Vertex %d of mesh %q is assigned to unknown bone %q.", source, b.mesh.Name(), w.Bone)
			continue
		}
		weights = append(weights, w)
	}
	if len(weights) == 0 {
		b.log.Warningf("Vertex %d in skinned mesh %q has no influences, check your mesh.", source, b.mesh.Name())
		return nil
	}
	sort.SliceStable(weights, func(i, j int) bool { return weights[i].Weight > weights[j].Weight })
	if len(weights) > maxInfluences {
		b.log.Warningf("Vertex %d of mesh %q has %d influences, only the %d strongest are kept.", source, b.mesh.Name(), len(weights), maxInfluences)
		weights = weights[:maxInfluences]
	}
	total := 0.0
	for _, w := range weights {
		total += w.Weight
	}
	if total <= 0 {
		b.log.Warningf("Vertex %d of mesh %q has zero total weight.", source, b.mesh.Name())
		return nil
	}
	inf := make([]ogre.Influence, len(weights))
	for i, w := range weights {
		inf[i] = ogre.Influence{BoneID: b.skeleton.Bone(w.Bone).ID, Weight: w.Weight / total}
	}
	return inf
}

// vertexEqual compares the surface attributes of two vertices of the same source vertex.
func vertexEqual(a, b *ogre.Vertex) bool {
	if !a.Position.ApproxEqual(b.Position, vertexEpsilon) || !a.Normal.ApproxEqual(b.Normal, vertexEpsilon) {
		return false
	}
	if (a.UV == nil) != (b.UV == nil) || (a.UV != nil && !a.UV.ApproxEqual(b.UV, vertexEpsilon)) {
		return false
	}
	if (a.Colour == nil) != (b.Colour == nil) {
		return false
	}
	if a.Colour != nil {
		for i := range a.Colour {
			if geom.Abs(a.Colour[i]-b.Colour[i]) > vertexEpsilon {
				return false
			}
		}
	}
	return true
}
