// Package ogre holds the OGRE interchange model and reads and writes its XML documents.
package ogre

import "github.com/binzume/ogreconv/geom"

type Skeleton struct {
	Name       string
	Bones      []*Bone
	Animations []*Animation

	bones      map[string]*Bone
	animations map[string]*Animation
}

func NewSkeleton(name string) *Skeleton {
	return &Skeleton{Name: name, bones: map[string]*Bone{}, animations: map[string]*Animation{}}
}

// Bone is a joint in the engine rest pose. Loc and Rot are relative to Parent.
type Bone struct {
	ID       int
	Name     string
	Parent   *Bone
	Children []*Bone
	Loc      *geom.Vector3
	Rot      *geom.Quaternion

	// ConversionMatrix maps host bone-local offsets into the parent space used by Loc.
	ConversionMatrix *geom.Matrix4
	// WorldMatrix is the engine rest transform in skeleton space.
	WorldMatrix *geom.Matrix4
}

// AddBone appends b, assigns the next ID and links it to parent.
// It returns false when the name is already used.
func (s *Skeleton) AddBone(b *Bone, parent *Bone) bool {
	if _, exists := s.bones[b.Name]; exists {
		return false
	}
	b.ID = len(s.Bones)
	b.Parent = parent
	if parent != nil {
		parent.Children = append(parent.Children, b)
	}
	s.Bones = append(s.Bones, b)
	s.bones[b.Name] = b
	return true
}

func (s *Skeleton) Bone(name string) *Bone {
	return s.bones[name]
}

func (s *Skeleton) Animation(name string) *Animation {
	return s.animations[name]
}

// SetAnimation adds a or replaces the animation of the same name in place.
// It reports whether an animation was replaced.
func (s *Skeleton) SetAnimation(a *Animation) bool {
	if old, exists := s.animations[a.Name]; exists {
		for i, o := range s.Animations {
			if o == old {
				s.Animations[i] = a
			}
		}
		s.animations[a.Name] = a
		return true
	}
	s.Animations = append(s.Animations, a)
	s.animations[a.Name] = a
	return false
}

type Animation struct {
	Name     string
	Duration float64
	Tracks   []*Track

	tracks map[string]*Track
}

func NewAnimation(name string) *Animation {
	return &Animation{Name: name, tracks: map[string]*Track{}}
}

// SetTrack adds t or replaces the track of the same bone in place.
// It reports whether a track was replaced.
func (a *Animation) SetTrack(t *Track) bool {
	name := t.Bone.Name
	if old, exists := a.tracks[name]; exists {
		for i, o := range a.Tracks {
			if o == old {
				a.Tracks[i] = t
			}
		}
		a.tracks[name] = t
		return true
	}
	a.Tracks = append(a.Tracks, t)
	a.tracks[name] = t
	return false
}

func (a *Animation) Track(bone string) *Track {
	return a.tracks[bone]
}

type Track struct {
	Bone      *Bone
	KeyFrames []*KeyFrame
}

type KeyFrame struct {
	Time  float64
	Loc   *geom.Vector3
	Rot   *geom.Quaternion
	Scale *geom.Vector3
}

// UpdateWorldMatrices recomputes WorldMatrix of every bone from Loc and Rot.
func (s *Skeleton) UpdateWorldMatrices() {
	done := map[*Bone]bool{}
	var update func(b *Bone)
	update = func(b *Bone) {
		if done[b] {
			return
		}
		done[b] = true
		parent := geom.NewMatrix4()
		if b.Parent != nil {
			update(b.Parent)
			parent = b.Parent.WorldMatrix
		}
		b.WorldMatrix = parent.Mul(geom.NewTranslateMatrix4(b.Loc.X, b.Loc.Y, b.Loc.Z)).Mul(b.Rot.ToMatrix4())
	}
	for _, b := range s.Bones {
		update(b)
	}
}
