package ogre

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/binzume/ogreconv/geom"
	"github.com/pkg/errors"
)

type xmlVector struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
	Z float64 `xml:"z,attr"`
}

func (v *xmlVector) toVector3() *geom.Vector3 {
	if v == nil {
		return nil
	}
	return geom.NewVector3(v.X, v.Y, v.Z)
}

type xmlRotation struct {
	Angle float64   `xml:"angle,attr"`
	Axis  xmlVector `xml:"axis"`
}

func (r *xmlRotation) toQuaternion() *geom.Quaternion {
	axis, ok := r.Axis.toVector3().Normalize()
	if !ok {
		return geom.NewIdentityQuaternion()
	}
	return geom.NewQuaternionFromAxisAngle(axis, r.Angle)
}

type xmlSkeleton struct {
	Bones []struct {
		ID       int         `xml:"id,attr"`
		Name     string      `xml:"name,attr"`
		Position xmlVector   `xml:"position"`
		Rotation xmlRotation `xml:"rotation"`
	} `xml:"bones>bone"`
	Hierarchy []struct {
		Bone   string `xml:"bone,attr"`
		Parent string `xml:"parent,attr"`
	} `xml:"bonehierarchy>boneparent"`
	Animations []struct {
		Name   string  `xml:"name,attr"`
		Length float64 `xml:"length,attr"`
		Tracks []struct {
			Bone      string `xml:"bone,attr"`
			KeyFrames []struct {
				Time      float64     `xml:"time,attr"`
				Translate *xmlVector  `xml:"translate"`
				Rotate    xmlRotation `xml:"rotate"`
				Scale     *xmlVector  `xml:"scale"`
			} `xml:"keyframes>keyframe"`
		} `xml:"tracks>track"`
	} `xml:"animations>animation"`
}

func newDecoder(r io.Reader) *xml.Decoder {
	d := xml.NewDecoder(r)
	d.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		enc, err := LookupEncoding(label)
		if err != nil {
			return nil, err
		}
		return enc.NewReader(input), nil
	}
	return d
}

// ReadSkeleton parses a .skeleton.xml document.
func ReadSkeleton(r io.Reader) (*Skeleton, error) {
	var doc xmlSkeleton
	if err := newDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode skeleton")
	}

	parents := map[string]string{}
	for _, h := range doc.Hierarchy {
		parents[h.Bone] = h.Parent
	}
	s := NewSkeleton("")
	byID := map[int]*Bone{}
	for _, b := range doc.Bones {
		bone := &Bone{Name: b.Name, Loc: b.Position.toVector3(), Rot: b.Rotation.toQuaternion()}
		if !s.AddBone(bone, nil) {
			return nil, errors.Errorf("duplicate bone %q", b.Name)
		}
		bone.ID = b.ID
		byID[b.ID] = bone
	}
	if len(byID) != len(s.Bones) {
		return nil, errors.New("duplicate bone id")
	}
	for _, b := range s.Bones {
		name, ok := parents[b.Name]
		if !ok {
			continue
		}
		p := s.Bone(name)
		if p == nil {
			return nil, errors.Errorf("bone %q: unknown parent %q", b.Name, name)
		}
		b.Parent = p
		p.Children = append(p.Children, b)
	}

	s.UpdateWorldMatrices()

	for _, a := range doc.Animations {
		anim := NewAnimation(a.Name)
		anim.Duration = a.Length
		for _, t := range a.Tracks {
			bone := s.Bone(t.Bone)
			if bone == nil {
				return nil, errors.Errorf("animation %q: unknown bone %q", a.Name, t.Bone)
			}
			track := &Track{Bone: bone}
			for _, k := range t.KeyFrames {
				kf := &KeyFrame{
					Time:  k.Time,
					Loc:   geom.NewVector3(0, 0, 0),
					Rot:   k.Rotate.toQuaternion(),
					Scale: geom.NewVector3(1, 1, 1),
				}
				if k.Translate != nil {
					kf.Loc = k.Translate.toVector3()
				}
				if k.Scale != nil {
					kf.Scale = k.Scale.toVector3()
				}
				track.KeyFrames = append(track.KeyFrames, kf)
			}
			anim.SetTrack(track)
		}
		s.SetAnimation(anim)
	}
	return s, nil
}

type xmlVertex struct {
	Position *xmlVector `xml:"position"`
	Normal   *xmlVector `xml:"normal"`
	Colour   *struct {
		Value string `xml:"value,attr"`
	} `xml:"colour_diffuse"`
	TexCoord *struct {
		U float64 `xml:"u,attr"`
		V float64 `xml:"v,attr"`
	} `xml:"texcoord"`
}

type xmlMesh struct {
	SubMeshes []struct {
		Material string `xml:"material,attr"`
		Faces    []struct {
			V1 int `xml:"v1,attr"`
			V2 int `xml:"v2,attr"`
			V3 int `xml:"v3,attr"`
		} `xml:"faces>face"`
		Geometry struct {
			VertexCount int `xml:"vertexcount,attr"`
			Buffers     []struct {
				Vertices []xmlVertex `xml:"vertex"`
			} `xml:"vertexbuffer"`
		} `xml:"geometry"`
		Assignments []struct {
			Vertex int     `xml:"vertexindex,attr"`
			Bone   int     `xml:"boneindex,attr"`
			Weight float64 `xml:"weight,attr"`
		} `xml:"boneassignments>vertexboneassignment"`
	} `xml:"submeshes>submesh"`
	SkeletonLink *struct {
		Name string `xml:"name,attr"`
	} `xml:"skeletonlink"`
}

// ReadMesh parses a .mesh.xml document. Vertex buffers of a submesh are merged.
func ReadMesh(r io.Reader) (*Mesh, error) {
	var doc xmlMesh
	if err := newDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode mesh")
	}
	m := &Mesh{}
	if doc.SkeletonLink != nil {
		m.Skeleton = strings.TrimSuffix(doc.SkeletonLink.Name, ".skeleton")
	}
	for si, s := range doc.SubMeshes {
		sm := &SubMesh{Material: s.Material}
		n := s.Geometry.VertexCount
		for i := 0; i < n; i++ {
			sm.AddVertex(&Vertex{Influences: -1})
		}
		for _, buf := range s.Geometry.Buffers {
			if len(buf.Vertices) != n {
				return nil, errors.Errorf("submesh %d: vertex buffer has %d vertices, want %d", si, len(buf.Vertices), n)
			}
			for i, xv := range buf.Vertices {
				v := sm.Vertices[i]
				if xv.Position != nil {
					v.Position = xv.Position.toVector3()
				}
				if xv.Normal != nil {
					v.Normal = xv.Normal.toVector3()
				}
				if xv.TexCoord != nil {
					v.UV = geom.NewVector2(xv.TexCoord.U, xv.TexCoord.V)
				}
				if xv.Colour != nil {
					c, err := parseColour(xv.Colour.Value)
					if err != nil {
						return nil, errors.Wrapf(err, "submesh %d vertex %d", si, i)
					}
					v.Colour = c
				}
			}
		}
		for _, f := range s.Faces {
			face := Face{f.V1, f.V2, f.V3}
			for _, vi := range face {
				if vi < 0 || vi >= n {
					return nil, errors.Errorf("submesh %d: face index %d out of range", si, vi)
				}
			}
			sm.Faces = append(sm.Faces, face)
		}
		for _, a := range s.Assignments {
			if a.Vertex < 0 || a.Vertex >= n {
				return nil, errors.Errorf("submesh %d: bone assignment for vertex %d out of range", si, a.Vertex)
			}
			v := sm.Vertices[a.Vertex]
			if v.Influences < 0 {
				v.Influences = sm.AddInfluences(nil)
			}
			sm.Influences[v.Influences] = append(sm.Influences[v.Influences], Influence{BoneID: a.Bone, Weight: a.Weight})
		}
		m.SubMeshes = append(m.SubMeshes, sm)
	}
	return m, nil
}

func parseColour(s string) (*[4]float64, error) {
	f := strings.Fields(s)
	if len(f) != 4 && len(f) != 3 {
		return nil, errors.Errorf("bad colour %q", s)
	}
	c := [4]float64{1, 1, 1, 1}
	for i, v := range f {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad colour %q", s)
		}
		c[i] = x
	}
	return &c, nil
}
