package converter

import (
	"github.com/binzume/ogreconv/diag"
	"github.com/binzume/ogreconv/geom"
	"github.com/binzume/ogreconv/host"
	"github.com/binzume/ogreconv/ogre"
)

var (
	axisX = geom.NewVector3(1, 0, 0)
	axisY = geom.NewVector3(0, 1, 0)
	axisZ = geom.NewVector3(0, 0, 1)
)

// BoneMatrix returns the rotation that turns the Y axis into the head-to-tail
// direction, followed by roll radians around that direction.
// ok is false for zero-length bones, which fall back to the Y axis.
func BoneMatrix(head, tail *geom.Vector3, roll float64) (m *geom.Matrix4, ok bool) {
	nor, ok := tail.Sub(head).Normalize()
	var bMatrix *geom.Matrix4
	axis := axisY.Cross(nor)
	if axis.LenSqr() > 1e-13 {
		a, _ := axis.Normalize()
		bMatrix = geom.NewRotationMatrix4(a, axisY.Angle(nor))
	} else {
		updown := 1.0
		if axisY.Dot(nor) < 0 {
			updown = -1
		}
		bMatrix = geom.NewScaleMatrix4(updown, updown, 1)
	}
	return geom.NewRotationMatrix4(nor, roll).Mul(bMatrix), ok
}

// RootAxis returns the rest rotation of a root bone from its world head and
// tail positions. frame is the world transform of the bone at its head and
// supplies the roll; any scale in frame is discarded.
func RootAxis(head, tail *geom.Vector3, frame *geom.Matrix4) *geom.Matrix4 {
	nor, _ := tail.Sub(head).Normalize()
	pz, _ := frame.ApplyTo(axisZ).Sub(head).Normalize()
	px, _ := frame.ApplyTo(axisX).Sub(head).Normalize()

	px1 := nor.Cross(pz)
	if px1.Dot(px) < 0 {
		px1 = pz.Cross(nor)
	}
	px1, _ = px1.Normalize()

	axisRot, _ := BoneMatrix(head, tail, 0)
	px2 := axisRot.ApplyToVector(axisX)
	roll := px1.Angle(px2)
	if px2.Cross(px1).Dot(nor) < 0 {
		roll = -roll
	}
	return geom.NewRotationMatrix4(nor, roll).Mul(axisRot)
}

type boneVisit struct {
	bone   host.Bone
	parent *boneVisit
	// head and tail in export space
	head, tail *geom.Vector3
	// frame maps bone-local coordinates at the head into export space.
	frame *geom.Matrix4
	// local is the rest rotation relative to the parent bone.
	local      *geom.Matrix4
	degenerate bool
}

// walkArmature visits bones depth first, popping from a stack seeded with the
// root bones. base maps armature space into export space.
func walkArmature(arm host.Armature, base *geom.Matrix4, visit func(v *boneVisit)) {
	type entry struct {
		bone   host.Bone
		parent *boneVisit
		accu   *geom.Matrix4
	}
	var stack []entry
	for _, b := range arm.RootBones() {
		stack = append(stack, entry{bone: b, accu: base})
	}
	origin := geom.NewVector3(0, 0, 0)
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		head, tail := e.bone.Head(), e.bone.Tail()
		r, ok := BoneMatrix(head, tail, e.bone.Roll())
		accu := e.accu.Mul(geom.NewTranslateMatrix4(head.X, head.Y, head.Z))
		frame := accu.Mul(r)
		accu = frame.Mul(geom.NewTranslateMatrix4(0, head.Distance(tail), 0))

		v := &boneVisit{
			bone:       e.bone,
			parent:     e.parent,
			head:       frame.ApplyTo(origin),
			tail:       accu.ApplyTo(origin),
			frame:      frame,
			local:      r,
			degenerate: !ok,
		}
		visit(v)
		for _, c := range v.bone.Children() {
			stack = append(stack, entry{bone: c, parent: v, accu: accu})
		}
	}
}

// ConvertArmature computes the engine rest pose of every bone. base maps
// armature space into export space.
func ConvertArmature(name string, arm host.Armature, base *geom.Matrix4, log *diag.Logger) *ogre.Skeleton {
	skeleton := ogre.NewSkeleton(name)
	bones := map[*boneVisit]*ogre.Bone{}

	walkArmature(arm, base, func(v *boneVisit) {
		if v.degenerate {
			log.Warningf("Bone %q of armature %q has zero length.", v.bone.Name(), arm.Name())
		}
		var parent *ogre.Bone
		if v.parent != nil {
			var ok bool
			if parent, ok = bones[v.parent]; !ok {
				log.Errorf("Bone %q skipped, its parent was not exported.", v.bone.Name())
				return
			}
		}

		b := &ogre.Bone{Name: v.bone.Name()}
		if parent == nil {
			b.Loc = v.head
			b.Rot = geom.NewQuaternionFromMatrix4(RootAxis(v.head, v.tail, v.frame))
		} else {
			// The head in the parent's engine frame, (0, len, 0) for connected bones.
			inv, err := parent.WorldMatrix.Inverse()
			if err != nil {
				log.Errorf("Bone %q: %v", b.Name, err)
				inv = geom.NewMatrix4()
			}
			b.Loc = inv.ApplyTo(v.head)
			b.Rot = geom.NewQuaternionFromMatrix4(v.local)
		}
		if !skeleton.AddBone(b, parent) {
			log.Errorf("Duplicate bone name %q in armature %q.", b.Name, arm.Name())
			return
		}

		parentWorld := geom.NewMatrix4()
		if parent != nil {
			parentWorld = parent.WorldMatrix
		}
		translated := parentWorld.Mul(geom.NewTranslateMatrix4(b.Loc.X, b.Loc.Y, b.Loc.Z))
		b.WorldMatrix = translated.Mul(b.Rot.ToMatrix4())
		if inv, err := translated.Inverse(); err == nil {
			b.ConversionMatrix = inv.Mul(v.frame)
		} else {
			log.Errorf("Bone %q: %v", b.Name, err)
			b.ConversionMatrix = geom.NewMatrix4()
		}
		bones[v] = b
	})
	if len(skeleton.Bones) == 0 {
		log.Warningf("Armature %q has no bones.", arm.Name())
	}
	return skeleton
}

// ArmatureBase is the transform from armature space into export space.
// meshMatrix is ignored in world coordinates.
func ArmatureBase(armatureMatrix, meshMatrix *geom.Matrix4, opts *Options) (*geom.Matrix4, error) {
	m := armatureMatrix
	if !opts.WorldCoordinates && meshMatrix != nil {
		inv, err := meshMatrix.Inverse()
		if err != nil {
			return nil, err
		}
		m = inv.Mul(armatureMatrix)
	}
	return opts.TransformationMatrix().Mul(m), nil
}
