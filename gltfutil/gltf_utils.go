package gltfutil

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

func Load(path string) (*gltf.Document, error) {
	doc, err := gltf.Open(path)
	return doc, errors.Wrapf(err, "open %s", path)
}

// Save writes a binary .glb or, for any other extension, a .gltf document with its buffers embedded.
func Save(doc *gltf.Document, path string) error {
	if strings.ToLower(filepath.Ext(path)) == ".glb" {
		return errors.Wrapf(gltf.SaveBinary(doc, path), "save %s", path)
	}
	ToSingleFile(doc)
	return errors.Wrapf(gltf.Save(doc, path), "save %s", path)
}

// ToSingleFile makes every buffer an embedded data URI.
func ToSingleFile(doc *gltf.Document) {
	for _, b := range doc.Buffers {
		if !b.IsEmbeddedResource() {
			b.EmbeddedResource()
		}
	}
}
