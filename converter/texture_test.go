package converter

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/binzume/ogreconv/diag"
	"github.com/blezek/tga"
)

func TestTextureProbe(t *testing.T) {
	dir := t.TempDir()
	writeTestTexture(t, filepath.Join(dir, "img", "a.png"))
	probe := NewTextureProbe(dir)

	log := diag.NewLogger()
	if !probe.Check(`img\a.png`, log) || log.Status() != diag.Info {
		t.Error("texture should be found: ", log.Messages())
	}
	if probe.Check("img/missing.png", log) || log.Status() != diag.Warning {
		t.Error("missing texture: ", log.Messages())
	}
	if _, err := probe.Image("img/missing.png"); err == nil {
		t.Error("cached error expected")
	}

	data, err := probe.PNG(`img\a.png`, 4)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Error("scaled size: ", b)
	}

	data, _ = probe.PNG(`img\a.png`, 0)
	img, _ = png.Decode(bytes.NewReader(data))
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Error("unscaled size: ", b)
	}
}

func TestTextureFormats(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	img.Set(1, 1, color.NRGBA{0, 255, 0, 255})

	encoders := map[string]func(*bytes.Buffer) error{
		"a.png": func(b *bytes.Buffer) error { return png.Encode(b, img) },
		"a.jpg": func(b *bytes.Buffer) error { return jpeg.Encode(b, img, nil) },
		"a.tga": func(b *bytes.Buffer) error { return tga.Encode(b, img) },
	}
	for name, encode := range encoders {
		var buf bytes.Buffer
		if err := encode(&buf); err != nil {
			t.Fatal(err)
		}
		if err := ioutil.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := ioutil.WriteFile(filepath.Join(dir, "broken.png"), []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	textures := NewTextureProbe(dir)
	for _, name := range []string{"a.png", "a.jpg", "a.tga"} {
		log := diag.NewLogger()
		if !textures.Check(name, log) || log.Status() != diag.Info {
			t.Errorf("%s: %v", name, log.Messages())
			continue
		}
		if b, _ := textures.Image(name); b.Bounds().Dx() != 2 || b.Bounds().Dy() != 3 {
			t.Errorf("%s: size %v", name, b.Bounds())
		}
	}

	log := diag.NewLogger()
	if textures.Check("broken.png", log) || log.Count(diag.Warning) != 1 {
		t.Error("broken texture: ", log.Messages())
	}
}
