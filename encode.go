package ggcapture

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"sort"
	"sync"

	"golang.org/x/image/bmp"
)

// Encoder turns one captured frame into a still-image payload.
//
// Encoders must be lossless and deterministic: identical pixel content must
// produce byte-identical output, run to run. Adaptive or lossy compression
// breaks archive reproducibility.
type Encoder interface {
	// Encode writes the image payload to w.
	Encode(w io.Writer, img *image.RGBA) error

	// Extension returns the file extension used for archive entries,
	// without the leading dot.
	Extension() string
}

// Names of the encoders registered by default.
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

// Encoder registry state - protected by mutex for thread-safe access.
var (
	encoderMu sync.RWMutex
	encoders  = make(map[string]Encoder)
)

func init() {
	RegisterEncoder(FormatPNG, pngEncoder{})
	RegisterEncoder(FormatBMP, bmpEncoder{})
}

// RegisterEncoder registers a frame encoder under the given name, making it
// selectable via WithFormat. This follows the database/sql driver pattern:
// call it from init() in the package providing the encoder.
//
// RegisterEncoder panics if enc is nil or the name is already taken, so
// duplicate registrations are caught during program initialization rather
// than silently overwriting encoders.
func RegisterEncoder(name string, enc Encoder) {
	encoderMu.Lock()
	defer encoderMu.Unlock()

	if enc == nil {
		panic("ggcapture: RegisterEncoder encoder is nil")
	}
	if _, dup := encoders[name]; dup {
		panic("ggcapture: RegisterEncoder called twice for " + name)
	}
	encoders[name] = enc
}

// Unregister removes an encoder from the registry. This is primarily
// useful for testing to clean up between tests. If the encoder is not
// registered, this is a no-op.
func Unregister(name string) {
	encoderMu.Lock()
	defer encoderMu.Unlock()
	delete(encoders, name)
}

// Formats returns the sorted names of all registered encoders.
func Formats() []string {
	encoderMu.RLock()
	defer encoderMu.RUnlock()

	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// encoderByName looks up a registered encoder.
func encoderByName(name string) (Encoder, error) {
	encoderMu.RLock()
	enc, ok := encoders[name]
	encoderMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("ggcapture: unknown format %q (forgotten RegisterEncoder?): %w",
			name, ErrInvalidConfig)
	}
	return enc, nil
}

// pngEncoder encodes frames with the standard library PNG encoder.
// PNG is lossless and the stdlib encoder is deterministic for identical
// input, which keeps recorded archives byte-reproducible.
type pngEncoder struct{}

func (pngEncoder) Encode(w io.Writer, img *image.RGBA) error { return png.Encode(w, img) }
func (pngEncoder) Extension() string                         { return "png" }

// bmpEncoder encodes frames as uncompressed BMP. Larger than PNG but
// trivially deterministic and cheap to encode.
type bmpEncoder struct{}

func (bmpEncoder) Encode(w io.Writer, img *image.RGBA) error { return bmp.Encode(w, img) }
func (bmpEncoder) Extension() string                         { return "bmp" }
