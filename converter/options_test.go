package converter

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/binzume/ogreconv/geom"
)

func TestSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	o := DefaultOptions()
	o.Scale = 0.5
	o.WorldCoordinates = true
	o.Encoding = "Shift_JIS"
	o.Animations = map[string][]*AnimationRange{"Rig": {{Name: "walk", Action: "Walk", Start: 1, End: 20}}}
	if err := SaveSettings(path, o); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Scale != 0.5 || !loaded.WorldCoordinates || loaded.Encoding != "Shift_JIS" || loaded.RotX != -90 {
		t.Error("settings: ", loaded)
	}
	if r := loaded.Animations["Rig"]; len(r) != 1 || *r[0] != *o.Animations["Rig"][0] {
		t.Error("animation ranges: ", r)
	}

	// Missing keys keep their defaults.
	if err := ioutil.WriteFile(path, []byte("scale: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	loaded, err = LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Scale != 2 || !loaded.ExportUV || !loaded.ArmatureMesh || loaded.Workers != 1 {
		t.Error("defaults: ", loaded)
	}

	if _, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing settings file should fail")
	}
}

func TestTransformationMatrix(t *testing.T) {
	const eps = 1e-9
	o := DefaultOptions()
	o.Scale = 2
	// Z up becomes Y up.
	if p := o.TransformationMatrix().ApplyTo(geom.NewVector3(0, 0, 1)); !p.ApproxEqual(geom.NewVector3(0, 2, 0), eps) {
		t.Error("up axis: ", p)
	}
	if p := o.TransformationMatrix().ApplyTo(geom.NewVector3(0, 1, 0)); !p.ApproxEqual(geom.NewVector3(0, 0, -2), eps) {
		t.Error("forward axis: ", p)
	}
}
