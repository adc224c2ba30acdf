package converter

import (
	"github.com/binzume/ogreconv/diag"
	"github.com/binzume/ogreconv/geom"
	"github.com/binzume/ogreconv/host"
	"github.com/binzume/ogreconv/ogre"
)

// ConvertArmatureMesh renders every bone of arm as a pyramid from head to tail,
// rigidly bound to its bone. base maps armature space into export space, as for
// the skeleton passed in.
func ConvertArmatureMesh(name string, arm host.Armature, base *geom.Matrix4, skeleton *ogre.Skeleton, log *diag.Logger) *ogre.Mesh {
	sm := &ogre.SubMesh{Material: SkeletonMaterial}
	walkArmature(arm, base, func(v *boneVisit) {
		bone := skeleton.Bone(v.bone.Name())
		if bone == nil {
			return
		}
		p1, p2 := v.head, v.tail
		axis, _ := BoneMatrix(p1, p2, 0)
		axis = geom.NewTranslateMatrix4(p1.X, p1.Y, p1.Z).Mul(axis)
		d := 0.1 + 0.2*(p1.Distance(p2)/10)
		c1 := axis.ApplyTo(geom.NewVector3(-d, 0, -d))
		c2 := axis.ApplyTo(geom.NewVector3(-d, 0, d))
		c3 := axis.ApplyTo(geom.NewVector3(d, 0, d))
		c4 := axis.ApplyTo(geom.NewVector3(d, 0, -d))

		inf := sm.AddInfluences([]ogre.Influence{{BoneID: bone.ID, Weight: 1}})
		for _, f := range [][3]*geom.Vector3{
			{p2, c1, c2},
			{p2, c2, c3},
			{p2, c3, c4},
			{p2, c4, c1},
			{c3, c2, c1},
			{c1, c4, c3},
		} {
			addFlatTriangle(sm, f, inf)
		}
	})
	if len(sm.Faces) == 0 {
		log.Warningf("Armature %q has no bones to render.", arm.Name())
		return nil
	}
	return &ogre.Mesh{Name: name, SubMeshes: []*ogre.SubMesh{sm}, Skeleton: skeleton.Name}
}

func addFlatTriangle(sm *ogre.SubMesh, p [3]*geom.Vector3, influences int) {
	normal, _ := p[2].Sub(p[1]).Cross(p[0].Sub(p[1])).Normalize()
	var face ogre.Face
	for i := range p {
		face[i] = sm.AddVertex(&ogre.Vertex{Position: p[i], Normal: normal, Influences: influences})
	}
	sm.Faces = append(sm.Faces, face)
}
