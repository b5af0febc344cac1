package ggcapture

import (
	"bytes"
	"fmt"
	"image"
	"runtime"
	"sync"
)

// frameRecord is one captured frame awaiting encoding. The pixels are a
// private copy taken before the next tick could draw over the surface.
type frameRecord struct {
	index  int
	pixels *image.RGBA
}

// encodePipeline encodes captured frames on a small worker pool so the
// scheduler never blocks on image compression. Frames may finish encoding
// out of order; the archiveBuilder keys payloads by frame index, so the
// final archive preserves submission order regardless of completion order.
type encodePipeline struct {
	enc     Encoder
	builder *archiveBuilder
	jobs    chan frameRecord
	wg      sync.WaitGroup

	errOnce sync.Once
	err     error
}

// newEncodePipeline starts the worker goroutines. If workers is 0 or
// negative, GOMAXPROCS is used.
func newEncodePipeline(enc Encoder, builder *archiveBuilder, workers int) *encodePipeline {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &encodePipeline{
		enc:     enc,
		builder: builder,
		jobs:    make(chan frameRecord, workers*2),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *encodePipeline) worker() {
	defer p.wg.Done()
	for rec := range p.jobs {
		var buf bytes.Buffer
		if err := p.enc.Encode(&buf, rec.pixels); err != nil {
			p.fail(fmt.Errorf("ggcapture: encode frame %d: %w", rec.index, err))
			continue
		}
		p.builder.add(rec.index, buf.Bytes())
	}
}

// fail records the first encoding failure; later failures are dropped.
func (p *encodePipeline) fail(err error) {
	p.errOnce.Do(func() { p.err = err })
}

// submit queues one frame for encoding. The pipeline owns pixels afterward.
// Frames must be submitted in ascending index order.
func (p *encodePipeline) submit(index int, pixels *image.RGBA) {
	p.jobs <- frameRecord{index: index, pixels: pixels}
}

// drain closes the queue, waits for every submitted frame to finish
// encoding, and reports the first encoding failure, if any. No frame is
// dropped on cancellation: in-flight encodes are always awaited.
func (p *encodePipeline) drain() error {
	close(p.jobs)
	p.wg.Wait()
	return p.err
}
