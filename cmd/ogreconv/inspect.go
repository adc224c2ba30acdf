package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/ogreconv/converter"
	"github.com/binzume/ogreconv/diag"
	"github.com/binzume/ogreconv/gltfutil"
	"github.com/binzume/ogreconv/ogre"
)

func loadSkeleton(path string) (*ogre.Skeleton, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	s, err := ogre.ReadSkeleton(r)
	if err != nil {
		return nil, err
	}
	s.Name = strings.TrimSuffix(filepath.Base(path), ".skeleton.xml")
	return s, nil
}

func loadMesh(path string) (*ogre.Mesh, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	m, err := ogre.ReadMesh(r)
	if err != nil {
		return nil, err
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), ".mesh.xml")
	return m, nil
}

func printSkeleton(s *ogre.Skeleton) {
	fmt.Printf("skeleton %s: %d bones, %d animations\n", s.Name, len(s.Bones), len(s.Animations))
	for _, b := range s.Bones {
		parent := "-"
		if b.Parent != nil {
			parent = b.Parent.Name
		}
		fmt.Printf("  bone %d %s parent=%s pos=(%.4f %.4f %.4f)\n", b.ID, b.Name, parent, b.Loc.X, b.Loc.Y, b.Loc.Z)
	}
	for _, a := range s.Animations {
		fmt.Printf("  animation %s: %.3fs, %d tracks\n", a.Name, a.Duration, len(a.Tracks))
	}
}

func printMesh(m *ogre.Mesh) {
	fmt.Printf("mesh %s: %d submeshes, skeleton=%q\n", m.Name, len(m.SubMeshes), m.Skeleton)
	for _, sm := range m.SubMeshes {
		fmt.Printf("  submesh %s: %d vertices, %d faces, uv=%v colours=%v skinned=%v\n",
			sm.Material, len(sm.Vertices), len(sm.Faces), sm.HasUV(), sm.HasColours(), sm.HasInfluences())
	}
}

// inspectDocument prints an exported document. Meshes are also written as a
// .glb preview when output is given, with the linked skeleton when it is next to the mesh.
func inspectDocument(input, output string) error {
	switch {
	case strings.HasSuffix(input, ".skeleton.xml"):
		s, err := loadSkeleton(input)
		if err != nil {
			return err
		}
		printSkeleton(s)
		return nil
	case strings.HasSuffix(input, ".mesh.xml"):
	default:
		return fmt.Errorf("unsupported document: %s", input)
	}

	m, err := loadMesh(input)
	if err != nil {
		return err
	}
	printMesh(m)
	if output == "" {
		return nil
	}

	var skeleton *ogre.Skeleton
	if m.Skeleton != "" {
		path := filepath.Join(filepath.Dir(input), m.Skeleton+".skeleton.xml")
		if skeleton, err = loadSkeleton(path); err != nil {
			log.Print("skeleton not loaded: ", err)
		}
	}
	logger := diag.NewLogger()
	logger.Echo = log.New(os.Stderr, "", 0)
	doc, err := converter.NewOgreToGLTFConverter(nil, nil, logger).Convert(m, skeleton, nil)
	if err != nil {
		return err
	}
	log.Print("out: ", output)
	return gltfutil.Save(doc, output)
}
