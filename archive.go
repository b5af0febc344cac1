package ggcapture

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
)

// minNameWidth is the minimum zero-padding width for entry names, so that
// index 0 becomes "000000" regardless of the frame limit.
const minNameWidth = 6

// archiveBuilder accumulates encoded frame payloads and finalizes them into
// a single Archive. Payloads arrive keyed by frame index, possibly out of
// completion order when encoding is concurrent; the builder orders entries
// by index at finalize time, so submission order always wins.
//
// The builder exclusively owns the payloads until finalize hands the
// Archive to the caller.
type archiveBuilder struct {
	mu      sync.Mutex
	entries map[int][]byte
	ext     string
	width   int
}

func newArchiveBuilder(ext string, frameLimit int) *archiveBuilder {
	width := minNameWidth
	if frameLimit > 0 {
		if d := len(strconv.Itoa(frameLimit - 1)); d > width {
			width = d
		}
	}
	return &archiveBuilder{
		entries: make(map[int][]byte),
		ext:     ext,
		width:   width,
	}
}

// add stores the payload for one frame. Safe for concurrent use by the
// encode workers.
func (b *archiveBuilder) add(index int, payload []byte) {
	b.mu.Lock()
	b.entries[index] = payload
	b.mu.Unlock()
}

// entryName returns the archive entry name for a frame index:
// a fixed-width zero-padded decimal plus the image extension.
func (b *archiveBuilder) entryName(index int) string {
	return fmt.Sprintf("%0*d.%s", b.width, index, b.ext)
}

// finalize packs all accumulated payloads into one store-only ZIP in
// ascending index order and releases them. Frame payloads are already
// image-encoded and not meaningfully compressible, hence zip.Store.
func (b *archiveBuilder) finalize() (*Archive, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	names := make([]string, 0, len(b.entries))

	for i := 0; i < len(b.entries); i++ {
		payload, ok := b.entries[i]
		if !ok {
			return nil, fmt.Errorf("ggcapture: frame %d missing from archive", i)
		}
		name := b.entryName(i)
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   name,
			Method: zip.Store,
		})
		if err != nil {
			return nil, fmt.Errorf("ggcapture: create archive entry %s: %w", name, err)
		}
		if _, err := w.Write(payload); err != nil {
			return nil, fmt.Errorf("ggcapture: write archive entry %s: %w", name, err)
		}
		names = append(names, name)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("ggcapture: finalize archive: %w", err)
	}

	// Ownership of the frame data transfers to the Archive; the builder
	// retains nothing after finalization.
	b.entries = make(map[int][]byte)

	return &Archive{data: buf.Bytes(), names: names}, nil
}

// Archive is the finalized container holding all captured frames of one run
// as individually named entries in ascending frame order. It is delivered
// exactly once via the completion callback, after which the caller owns it.
type Archive struct {
	data  []byte
	names []string
}

// Bytes returns the raw ZIP archive.
func (a *Archive) Bytes() []byte { return a.data }

// Len returns the number of frame entries.
func (a *Archive) Len() int { return len(a.names) }

// Names returns the entry names in archive order.
func (a *Archive) Names() []string {
	return append([]string(nil), a.names...)
}

// Open returns a zip.Reader over the archive for inspecting or decoding
// individual frames.
func (a *Archive) Open() (*zip.Reader, error) {
	return zip.NewReader(bytes.NewReader(a.data), int64(len(a.data)))
}

// WriteTo writes the archive to w, implementing io.WriterTo.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.data)
	return int64(n), err
}

// SaveZIP saves the archive to a file.
func (a *Archive) SaveZIP(path string) error {
	return os.WriteFile(path, a.data, 0o644)
}
