package converter

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/binzume/ogreconv/diag"
	"github.com/blezek/tga"
	_ "github.com/oov/psd"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// TextureProbe checks that the images referenced by materials can be read.
// Relative image paths are resolved against Dir. Results are cached per path.
type TextureProbe struct {
	Dir string

	mu       sync.Mutex
	textures map[string]*textureInfo
}

type textureInfo struct {
	name string
	img  image.Image
	err  error
}

func NewTextureProbe(dir string) *TextureProbe {
	return &TextureProbe{Dir: dir, textures: map[string]*textureInfo{}}
}

func (c *TextureProbe) path(name string) string {
	name = strings.Replace(name, `\`, "/", -1)
	if filepath.IsAbs(name) || c.Dir == "" {
		return filepath.FromSlash(name)
	}
	return filepath.Join(c.Dir, filepath.FromSlash(name))
}

// Image decodes the texture, falling back to the TGA decoder for .tga files.
// TGA has no magic number, so it is never registered with image.Decode.
func (c *TextureProbe) Image(name string) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.textures[name]; ok {
		return t.img, t.err
	}
	t := &textureInfo{name: name}
	c.textures[name] = t

	f, err := os.Open(c.path(name))
	if err != nil {
		t.err = errors.Wrap(err, "open texture")
		return nil, t.err
	}
	defer f.Close()
	t.img, _, t.err = image.Decode(f)
	if t.err != nil && strings.ToLower(filepath.Ext(name)) == ".tga" {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			t.err = errors.Wrap(err, "open texture")
			return nil, t.err
		}
		t.img, t.err = tga.Decode(f)
	}
	if t.err != nil {
		t.err = errors.Wrapf(t.err, "decode texture %s", name)
	}
	return t.img, t.err
}

// Check logs the size of a readable texture and warns about unreadable ones.
func (c *TextureProbe) Check(name string, log *diag.Logger) bool {
	img, err := c.Image(name)
	if err != nil {
		log.Warningf("Texture %q: %v", name, err)
		return false
	}
	b := img.Bounds()
	log.Infof("Texture %q (%dx%d)", name, b.Dx(), b.Dy())
	return true
}

// PNG encodes the texture, scaled down so that neither side exceeds limit pixels.
func (c *TextureProbe) PNG(name string, limit int) ([]byte, error) {
	img, err := c.Image(name)
	if err != nil {
		return nil, err
	}
	rect := img.Bounds()
	scale := 1.0
	if limit > 0 && rect.Dx() > limit {
		scale = float64(limit) / float64(rect.Dx())
	}
	if limit > 0 && float64(rect.Dy())*scale > float64(limit) {
		scale = float64(limit) / float64(rect.Dy())
	}
	if scale < 1 {
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(rect.Dx())*scale), int(float64(rect.Dy())*scale)))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, rect, draw.Over, nil)
		img = dst
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encode texture")
	}
	return buf.Bytes(), nil
}
