package converter

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/binzume/ogreconv/diag"
	"github.com/binzume/ogreconv/geom"
	"github.com/binzume/ogreconv/gltfutil"
	"github.com/binzume/ogreconv/host"
	"github.com/binzume/ogreconv/ogre"
	"github.com/pkg/errors"
)

// ErrInvalidExportPath is returned when the export directory is missing or not writable.
var ErrInvalidExportPath = errors.New("invalid export path")

type Exporter struct {
	Options *Options
	// TextureDir resolves relative texture image paths.
	TextureDir string
	Log        *diag.Logger
}

func NewExporter(opts *Options, log *diag.Logger) *Exporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	if log == nil {
		log = diag.NewLogger()
	}
	return &Exporter{Options: opts, Log: log}
}

// ExportContext owns the documents produced by one export run.
type ExportContext struct {
	*Exporter
	Scene    host.Scene
	Encoding *ogre.Encoding
	Textures *TextureProbe

	Skeletons []*ogre.Skeleton
	Meshes    []*ogre.Mesh
	Materials []*MaterialEntry
	// Files lists the written documents in order.
	Files []string

	materials map[string]*MaterialEntry
	skeletons map[string]*exportedSkeleton
}

type exportedSkeleton struct {
	armature host.Object
	skeleton *ogre.Skeleton
	base     *geom.Matrix4
}

func checkExportPath(dir string) error {
	st, err := os.Stat(dir)
	if err != nil {
		return errors.Wrapf(ErrInvalidExportPath, "%s: %v", dir, err)
	}
	if !st.IsDir() {
		return errors.Wrapf(ErrInvalidExportPath, "%s is not a directory", dir)
	}
	f, err := ioutil.TempFile(dir, ".ogreconv")
	if err != nil {
		return errors.Wrapf(ErrInvalidExportPath, "%s: %v", dir, err)
	}
	f.Close()
	return os.Remove(f.Name())
}

// Export converts the selected objects of scene and writes their documents.
// Problems in the scene are logged and do not stop the export; the returned
// error is only set when nothing could be exported at all.
func (e *Exporter) Export(scene host.Scene) (*ExportContext, error) {
	opts := e.Options
	if err := checkExportPath(opts.ExportPath); err != nil {
		e.Log.Errorf("Invalid path: %s", opts.ExportPath)
		return nil, err
	}
	enc, err := ogre.LookupEncoding(opts.Encoding)
	if err != nil {
		e.Log.Errorf("%v", err)
		return nil, err
	}
	ctx := &ExportContext{
		Exporter:  e,
		Scene:     scene,
		Encoding:  enc,
		Textures:  NewTextureProbe(e.TextureDir),
		materials: map[string]*MaterialEntry{},
		skeletons: map[string]*exportedSkeleton{},
	}

	e.Log.Infof("Exporting selected objects into %q:", opts.ExportPath)
	meshes := 0
	for _, obj := range scene.Selected() {
		switch obj.Type() {
		case host.ObjectMesh:
			e.Log.Infof("Exporting object %q:", obj.Name())
			ctx.exportMesh(obj)
			meshes++
		case host.ObjectArmature:
			e.Log.Infof("Exporting object %q:", obj.Name())
			ctx.exportArmatureMesh(obj)
		}
	}
	if meshes == 0 {
		e.Log.Warningf("No mesh objects selected.")
	} else if len(ctx.Materials) == 0 {
		e.Log.Warningf("No materials or textures defined.")
	} else {
		ctx.writeMaterials()
	}
	e.Log.Infof("Finished.")
	return ctx, nil
}

func (ctx *ExportContext) writeFile(name string, write func(w io.Writer) error) {
	path := filepath.Join(ctx.Options.ExportPath, name)
	f, err := os.Create(path)
	if err != nil {
		ctx.Log.Errorf("Cannot write %q: %v", name, err)
		return
	}
	err = write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		ctx.Log.Errorf("Cannot write %q: %v", name, err)
		return
	}
	ctx.Files = append(ctx.Files, path)
}

func (ctx *ExportContext) addMaterials(entries []*MaterialEntry) {
	for _, m := range entries {
		if _, exists := ctx.materials[m.Key]; !exists {
			ctx.materials[m.Key] = m
			ctx.Materials = append(ctx.Materials, m)
		}
	}
}

// exportSkeleton converts the armature of arm for the mesh of owner and writes it.
// owner is arm itself when the armature is exported on its own.
// A skeleton already written for the same armature object is reused.
func (ctx *ExportContext) exportSkeleton(owner, arm host.Object) (*ogre.Skeleton, *geom.Matrix4) {
	data := arm.Armature()
	name := data.Name()
	if !ctx.Options.WorldCoordinates {
		name = owner.Name() + "-" + data.Name()
	}
	if s, ok := ctx.skeletons[name]; ok {
		if s.armature == arm {
			return s.skeleton, s.base
		}
		ctx.Log.Warningf("Armatures %q and %q share the skeleton name %q, the first one is overwritten.", s.armature.Name(), arm.Name(), name)
	}
	base, err := ArmatureBase(arm.Matrix(), owner.Matrix(), ctx.Options)
	if err != nil {
		ctx.Log.Errorf("Armature %q: %v, skeleton skipped.", arm.Name(), err)
		return nil, nil
	}
	skeleton := ConvertArmature(name, data, base, ctx.Log)
	ConvertAnimations(skeleton, AnimationSettings(ctx.Scene, arm.Name(), ctx.Options, ctx.Log), ctx.Scene.FPS(), ctx.Log)

	file := skeleton.Name + ".skeleton.xml"
	ctx.Log.Infof("Skeleton %q", file)
	ctx.writeFile(file, func(w io.Writer) error { return ogre.WriteSkeleton(skeleton, w, ctx.Encoding) })
	ctx.Skeletons = append(ctx.Skeletons, skeleton)
	ctx.skeletons[name] = &exportedSkeleton{armature: arm, skeleton: skeleton, base: base}
	return skeleton, base
}

func (ctx *ExportContext) exportMesh(obj host.Object) {
	opts := ctx.Options
	mesh := obj.Mesh()
	if mesh == nil {
		ctx.Log.Errorf("Object %q has no mesh data.", obj.Name())
		return
	}
	var skeleton *ogre.Skeleton
	if parent := obj.Parent(); opts.ExportArmature && parent != nil && parent.Type() == host.ObjectArmature {
		skeleton, _ = ctx.exportSkeleton(obj, parent)
	}

	matrix := opts.TransformationMatrix()
	if opts.WorldCoordinates {
		matrix = matrix.Mul(obj.Matrix())
	}
	m, entries := ConvertMesh(mesh.Name(), mesh, matrix, skeleton, opts, ctx.Log)
	if m == nil {
		return
	}
	ctx.addMaterials(entries)
	ctx.writeMesh(m, skeleton)
}

func (ctx *ExportContext) exportArmatureMesh(obj host.Object) {
	skeleton, base := ctx.exportSkeleton(obj, obj)
	if skeleton == nil || !ctx.Options.ArmatureMesh {
		return
	}
	m := ConvertArmatureMesh(obj.Armature().Name(), obj.Armature(), base, skeleton, ctx.Log)
	if m == nil {
		return
	}
	ctx.addMaterials([]*MaterialEntry{{Key: SkeletonMaterial}})
	ctx.writeMesh(m, skeleton)
}

func (ctx *ExportContext) writeMesh(m *ogre.Mesh, skeleton *ogre.Skeleton) {
	file := m.Name + ".mesh.xml"
	ctx.Log.Infof("Mesh %q", file)
	ctx.writeFile(file, func(w io.Writer) error { return ogre.WriteMesh(m, w, ctx.Encoding) })
	ctx.Meshes = append(ctx.Meshes, m)

	if ctx.Options.GLTF {
		ctx.writePreview(m, skeleton)
	}
}

func (ctx *ExportContext) writePreview(m *ogre.Mesh, skeleton *ogre.Skeleton) {
	materials := map[string]*PreviewMaterial{}
	for _, sm := range m.SubMeshes {
		if e, ok := ctx.materials[sm.Material]; ok {
			materials[sm.Material] = &PreviewMaterial{Material: ConvertMaterial(e, ctx.Options, diag.NewLogger()), Image: e.Texture}
		}
	}
	doc, err := NewOgreToGLTFConverter(nil, ctx.Textures, ctx.Log).Convert(m, skeleton, materials)
	if err != nil {
		ctx.Log.Errorf("Preview of %q: %v", m.Name, err)
		return
	}
	path := filepath.Join(ctx.Options.ExportPath, m.Name+".glb")
	if err := gltfutil.Save(doc, path); err != nil {
		ctx.Log.Errorf("%v", err)
		return
	}
	ctx.Log.Infof("Preview %q", m.Name+".glb")
	ctx.Files = append(ctx.Files, path)
}

// MaterialFile is the name of the material script of the run.
func (ctx *ExportContext) MaterialFile() string {
	if ctx.Options.MaterialFile != "" {
		return ctx.Options.MaterialFile
	}
	return ctx.Scene.Name() + ".material"
}

func (ctx *ExportContext) writeMaterials() {
	var materials []*ogre.Material
	for _, e := range ctx.Materials {
		if e.Texture != "" {
			ctx.Textures.Check(e.Texture, ctx.Log)
		}
		materials = append(materials, ConvertMaterial(e, ctx.Options, ctx.Log))
	}
	file := ctx.MaterialFile()
	ctx.Log.Infof("Materials %q", file)
	ctx.writeFile(file, func(w io.Writer) error { return ogre.WriteMaterials(materials, w, ctx.Encoding) })
}
