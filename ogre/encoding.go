package ogre

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Encoding is the character set of written documents. The nil Encoding is UTF-8.
type Encoding struct {
	name string
	enc  encoding.Encoding
}

// LookupEncoding accepts IANA names and aliases such as "ISO-8859-1", "latin1",
// "Shift_JIS" or "EUC-JP", and charmap names such as "Windows 1252". Empty and
// "UTF-8" select UTF-8. Documents name the encoding by its preferred MIME name,
// so encodings without a registered name are rejected.
func LookupEncoding(name string) (*Encoding, error) {
	key := strings.TrimSpace(name)
	if key == "" || strings.EqualFold(key, "utf-8") || strings.EqualFold(key, "utf8") {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil || enc == nil {
		enc = nil
		for _, e := range charmap.All {
			if cm, ok := e.(*charmap.Charmap); ok && strings.EqualFold(cm.String(), key) {
				enc = cm
				break
			}
		}
	}
	if enc == nil {
		return nil, errors.Errorf("unknown encoding %q", name)
	}
	e, err := newEncoding(enc)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %q", name)
	}
	return e, nil
}

func newEncoding(enc encoding.Encoding) (*Encoding, error) {
	name, err := ianaindex.MIME.Name(enc)
	if err != nil {
		return nil, err
	}
	return &Encoding{name: name, enc: enc}, nil
}

// EncodingNames lists the IANA names of the supported encodings.
func EncodingNames() []string {
	list := []string{"UTF-8"}
	encodings := []encoding.Encoding{japanese.ShiftJIS, japanese.EUCJP}
	for _, enc := range append(encodings, charmap.All...) {
		if e, err := newEncoding(enc); err == nil {
			list = append(list, e.name)
		}
	}
	return list
}

func (e *Encoding) String() string {
	if e == nil {
		return "UTF-8"
	}
	return e.name
}

// NewWriter returns w wrapped with an encoder. Close flushes the encoder but
// does not close w.
func (e *Encoding) NewWriter(w io.Writer) io.WriteCloser {
	if e == nil {
		return nopCloser{w}
	}
	return transform.NewWriter(w, e.enc.NewEncoder())
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func (e *Encoding) NewReader(r io.Reader) io.Reader {
	if e == nil {
		return r
	}
	return transform.NewReader(r, e.enc.NewDecoder())
}

func (e *Encoding) xmlHeader() string {
	if e == nil {
		return ""
	}
	return "<?xml version=\"1.0\" encoding=\"" + e.name + "\"?>\n"
}
