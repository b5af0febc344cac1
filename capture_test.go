package ggcapture

import (
	"errors"
	"fmt"
	"image"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// stampEncoder writes a tiny textual payload derived from the first pixel
// byte, sleeping longer for smaller stamps so earlier frames finish last.
type stampEncoder struct{}

func (stampEncoder) Encode(w io.Writer, img *image.RGBA) error {
	stamp := img.Pix[0]
	time.Sleep(time.Duration(50-stamp) * time.Millisecond)
	_, err := fmt.Fprintf(w, "stamp-%d", stamp)
	return err
}

func (stampEncoder) Extension() string { return "txt" }

// failEncoder always fails.
type failEncoder struct{ err error }

func (e failEncoder) Encode(io.Writer, *image.RGBA) error { return e.err }
func (failEncoder) Extension() string                     { return "txt" }

func stampedFrame(stamp uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Pix[0] = stamp
	return img
}

func TestPipelinePreservesSubmissionOrder(t *testing.T) {
	// Frame 0 encodes slowest, frame 2 fastest. Completion order is
	// reversed, yet the archive must come out in submission order.
	builder := newArchiveBuilder("txt", 3)
	p := newEncodePipeline(stampEncoder{}, builder, 3)

	for i := 0; i < 3; i++ {
		p.submit(i, stampedFrame(uint8(10*i)))
	}
	if err := p.drain(); err != nil {
		t.Fatalf("drain() = %v", err)
	}

	a, err := builder.finalize()
	if err != nil {
		t.Fatalf("finalize() = %v", err)
	}

	wantNames := []string{"000000.txt", "000001.txt", "000002.txt"}
	if diff := cmp.Diff(wantNames, a.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	zr, err := a.Open()
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	for i, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", f.Name, err)
		}
		if want := fmt.Sprintf("stamp-%d", 10*i); string(data) != want {
			t.Errorf("entry %s = %q, want %q", f.Name, data, want)
		}
	}
}

func TestPipelineReportsFirstEncodeError(t *testing.T) {
	errEncode := errors.New("encode failed")
	builder := newArchiveBuilder("txt", 2)
	p := newEncodePipeline(failEncoder{err: errEncode}, builder, 2)

	p.submit(0, stampedFrame(0))
	p.submit(1, stampedFrame(1))

	err := p.drain()
	if !errors.Is(err, errEncode) {
		t.Errorf("drain() = %v, want wrapped %v", err, errEncode)
	}
}

func TestPipelineDrainAwaitsInFlightEncodes(t *testing.T) {
	builder := newArchiveBuilder("txt", 4)
	p := newEncodePipeline(stampEncoder{}, builder, 2)

	for i := 0; i < 4; i++ {
		p.submit(i, stampedFrame(uint8(i)))
	}
	if err := p.drain(); err != nil {
		t.Fatalf("drain() = %v", err)
	}

	// Every submitted frame must be present after drain, none dropped.
	if _, err := builder.finalize(); err != nil {
		t.Errorf("finalize() after drain = %v, want all frames present", err)
	}
}
