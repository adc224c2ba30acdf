package converter

import (
	"bytes"

	"github.com/binzume/ogreconv/diag"
	"github.com/binzume/ogreconv/geom"
	"github.com/binzume/ogreconv/ogre"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type OgreToGLTFOption struct {
	TextureResolutionLimit int
}

// PreviewMaterial is a material script with the source image of its texture.
type PreviewMaterial struct {
	*ogre.Material
	Image string
}

type ogreToGltf struct {
	*OgreToGLTFOption
	*gltf.Document
	textures   *TextureProbe
	log        *diag.Logger
	boneToNode map[*ogre.Bone]uint32
}

func NewOgreToGLTFConverter(option *OgreToGLTFOption, textures *TextureProbe, log *diag.Logger) *ogreToGltf {
	if option == nil {
		option = &OgreToGLTFOption{TextureResolutionLimit: 1024}
	}
	return &ogreToGltf{
		OgreToGLTFOption: option,
		Document:         gltf.NewDocument(),
		textures:         textures,
		log:              log,
		boneToNode:       map[*ogre.Bone]uint32{},
	}
}

func vec3(v *geom.Vector3) [3]float32 {
	return v.ToFloat32()
}

func quat(q *geom.Quaternion) [4]float32 {
	return [4]float32{float32(q.X), float32(q.Y), float32(q.Z), float32(q.W)}
}

func (m *ogreToGltf) addBoneNodes(skeleton *ogre.Skeleton) {
	for _, b := range skeleton.Bones {
		m.boneToNode[b] = uint32(len(m.Nodes))
		m.Nodes = append(m.Nodes, &gltf.Node{Name: b.Name, Translation: vec3(b.Loc), Rotation: quat(b.Rot)})
	}
	for _, b := range skeleton.Bones {
		if b.Parent != nil {
			parent := m.Nodes[m.boneToNode[b.Parent]]
			parent.Children = append(parent.Children, m.boneToNode[b])
		} else {
			m.Scenes[0].Nodes = append(m.Scenes[0].Nodes, m.boneToNode[b])
		}
	}
}

func (m *ogreToGltf) addMatrices(mat [][4][4]float32) uint32 {
	a := make([][4]float32, len(mat)*4)
	for i, m := range mat {
		a[i*4+0] = m[0]
		a[i*4+1] = m[1]
		a[i*4+2] = m[2]
		a[i*4+3] = m[3]
	}
	acc := modeler.WriteTangent(m.Document, a)
	m.Accessors[acc].Type = gltf.AccessorMat4
	m.Accessors[acc].Count /= 4
	m.BufferViews[*m.Accessors[acc].BufferView].ByteStride *= 4
	return acc
}

func (m *ogreToGltf) addSkin(skeleton *ogre.Skeleton) uint32 {
	var joints []uint32
	invmats := make([][4][4]float32, len(skeleton.Bones))
	for i, b := range skeleton.Bones {
		joints = append(joints, m.boneToNode[b])
		inv, err := b.WorldMatrix.Inverse()
		if err != nil {
			m.log.Warningf("Bone %q: %v", b.Name, err)
			inv = geom.NewMatrix4()
		}
		f := inv.ToFloat32()
		for c := 0; c < 4; c++ {
			copy(invmats[i][c][:], f[c*4:c*4+4])
		}
	}
	m.Skins = append(m.Skins, &gltf.Skin{
		Name:                skeleton.Name,
		Joints:              joints,
		InverseBindMatrices: gltf.Index(m.addMatrices(invmats)),
	})
	return uint32(len(m.Skins) - 1)
}

func (m *ogreToGltf) addTexture(image string) (*uint32, error) {
	data, err := m.textures.PNG(image, m.TextureResolutionLimit)
	if err != nil {
		return nil, err
	}
	img, err := modeler.WriteImage(m.Document, TextureBasename(image, diag.NewLogger()), "image/png", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	m.Buffers[0].ByteLength = uint32(len(m.Buffers[0].Data)) // avoid AddImage bug
	m.Textures = append(m.Textures,
		&gltf.Texture{Sampler: gltf.Index(0), Source: gltf.Index(img)})
	return gltf.Index(uint32(len(m.Textures)) - 1), nil
}

func (m *ogreToGltf) convertMaterial(mat *PreviewMaterial) *gltf.Material {
	var rf float32 = 0.8
	var mf float32
	color := [4]float32{1, 1, 1, 1}
	if d := mat.Diffuse; d != nil {
		color = [4]float32{float32(d[0]), float32(d[1]), float32(d[2]), 1}
	}
	mm := &gltf.Material{
		Name: mat.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &color,
			RoughnessFactor: &rf,
			MetallicFactor:  &mf,
		},
	}
	if e := mat.Emissive; e != nil {
		mm.EmissiveFactor = [3]float32{float32(e[0]), float32(e[1]), float32(e[2])}
	}
	if mat.SceneBlend != "" {
		mm.AlphaMode = gltf.AlphaBlend
	}
	if mat.Image != "" && m.textures != nil {
		tex, err := m.addTexture(mat.Image)
		if err != nil {
			m.log.Warningf("Preview texture %q: %v", mat.Image, err)
		} else {
			mm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: *tex}
		}
	}
	return mm
}

func (m *ogreToGltf) convertSubMesh(sm *ogre.SubMesh, skinned bool, material *uint32) *gltf.Primitive {
	positions := make([][3]float32, len(sm.Vertices))
	normals := make([][3]float32, len(sm.Vertices))
	for i, v := range sm.Vertices {
		positions[i] = vec3(v.Position)
		normals[i] = vec3(v.Normal)
	}
	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(m.Document, positions),
		"NORMAL":   modeler.WriteNormal(m.Document, normals),
	}
	if sm.HasUV() {
		uvs := make([][2]float32, len(sm.Vertices))
		for i, v := range sm.Vertices {
			uvs[i] = [2]float32{float32(v.UV.X), float32(v.UV.Y)}
		}
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(m.Document, uvs)
	}
	if skinned {
		joints := make([][4]uint16, len(sm.Vertices))
		weights := make([][4]float32, len(sm.Vertices))
		for i := range sm.Vertices {
			weights[i][0] = 1 // unassigned vertices follow the first bone
			for j, inf := range sm.VertexInfluences(i) {
				joints[i][j] = uint16(inf.BoneID)
				weights[i][j] = float32(inf.Weight)
			}
		}
		attributes["JOINTS_0"] = modeler.WriteJoints(m.Document, joints)
		attributes["WEIGHTS_0"] = modeler.WriteWeights(m.Document, weights)
	}
	indices := make([]uint32, 0, len(sm.Faces)*3)
	for _, f := range sm.Faces {
		indices = append(indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}
	return &gltf.Primitive{
		Indices:    gltf.Index(modeler.WriteIndices(m.Document, indices)),
		Attributes: attributes,
		Material:   material,
	}
}

// addAnimation converts the keyframes, which are relative to the rest pose, into node transforms.
func (m *ogreToGltf) addAnimation(anim *ogre.Animation) {
	a := &gltf.Animation{Name: anim.Name}
	for _, t := range anim.Tracks {
		if len(t.KeyFrames) == 0 {
			continue
		}
		if t.KeyFrames[0].Time < 0 {
			m.log.Warningf("Animation %q has negative key times and is left out of the preview.", anim.Name)
			return
		}
		node, ok := m.boneToNode[t.Bone]
		if !ok {
			continue
		}
		keys := make([]float32, len(t.KeyFrames))
		translations := make([][3]float32, len(t.KeyFrames))
		rotations := make([][4]float32, len(t.KeyFrames))
		scales := make([][3]float32, len(t.KeyFrames))
		for i, k := range t.KeyFrames {
			keys[i] = float32(k.Time)
			translations[i] = vec3(t.Bone.Loc.Add(k.Loc))
			rotations[i] = quat(t.Bone.Rot.Mul(k.Rot).Normalize())
			scales[i] = vec3(k.Scale)
		}
		keysAcc := modeler.WriteAccessor(m.Document, gltf.TargetNone, keys)
		m.Accessors[keysAcc].Min = []float32{keys[0]}
		m.Accessors[keysAcc].Max = []float32{keys[len(keys)-1]}

		for _, s := range []struct {
			path gltf.TRSProperty
			acc  uint32
		}{
			{gltf.TRSTranslation, modeler.WritePosition(m.Document, translations)},
			{gltf.TRSRotation, modeler.WriteTangent(m.Document, rotations)},
			{gltf.TRSScale, modeler.WritePosition(m.Document, scales)},
		} {
			a.Samplers = append(a.Samplers, &gltf.AnimationSampler{
				Input:         gltf.Index(keysAcc),
				Output:        gltf.Index(s.acc),
				Interpolation: gltf.InterpolationLinear,
			})
			a.Channels = append(a.Channels, &gltf.Channel{
				Sampler: gltf.Index(uint32(len(a.Samplers) - 1)),
				Target: gltf.ChannelTarget{
					Node: gltf.Index(node),
					Path: s.path,
				},
			})
		}
	}
	if len(a.Channels) > 0 {
		m.Animations = append(m.Animations, a)
	}
}

// Convert builds a glTF document showing mesh, posed by skeleton when it is not nil.
func (m *ogreToGltf) Convert(mesh *ogre.Mesh, skeleton *ogre.Skeleton, materials map[string]*PreviewMaterial) (*gltf.Document, error) {
	skinned := skeleton != nil && len(skeleton.Bones) > 0
	if skinned {
		m.addBoneNodes(skeleton)
	}

	materialIndex := map[string]uint32{}
	gm := &gltf.Mesh{Name: mesh.Name}
	for _, sm := range mesh.SubMeshes {
		var material *uint32
		if idx, ok := materialIndex[sm.Material]; ok {
			material = gltf.Index(idx)
		} else if mat, ok := materials[sm.Material]; ok {
			materialIndex[sm.Material] = uint32(len(m.Materials))
			material = gltf.Index(uint32(len(m.Materials)))
			m.Materials = append(m.Materials, m.convertMaterial(mat))
		}
		gm.Primitives = append(gm.Primitives, m.convertSubMesh(sm, skinned, material))
	}
	m.Meshes = append(m.Meshes, gm)

	node := &gltf.Node{Name: mesh.Name, Mesh: gltf.Index(uint32(len(m.Meshes) - 1))}
	if skinned {
		node.Skin = gltf.Index(m.addSkin(skeleton))
		for _, a := range skeleton.Animations {
			m.addAnimation(a)
		}
	}
	m.Nodes = append(m.Nodes, node)
	m.Scenes[0].Nodes = append(m.Scenes[0].Nodes, uint32(len(m.Nodes)-1))

	if len(m.Textures) > 0 {
		m.Samplers = []*gltf.Sampler{{}}
	}
	return m.Document, nil
}
