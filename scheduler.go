package ggcapture

import (
	"sync/atomic"
	"time"
)

// scheduler drives the draw callback for one run. It is created fresh by
// Start and lives on the run goroutine; nothing else touches it.
type scheduler struct {
	cfg      Config
	surface  Surface
	draw     DrawFunc
	pipeline *encodePipeline // nil when not recording
	cancel   <-chan struct{}
	count    *atomic.Int64 // completed ticks, observable via Session.Frames

	frame int
}

func newScheduler(cfg Config, surface Surface, draw DrawFunc, pipeline *encodePipeline,
	cancel <-chan struct{}, count *atomic.Int64) *scheduler {
	return &scheduler{
		cfg:      cfg,
		surface:  surface,
		draw:     draw,
		pipeline: pipeline,
		cancel:   cancel,
		count:    count,
	}
}

// run executes ticks until the frame limit is reached, the run is
// cancelled, or the draw callback fails. It returns the number of
// completed ticks.
func (s *scheduler) run() (int, error) {
	if s.cfg.Record {
		return s.runDeterministic()
	}
	return s.runLive()
}

// runDeterministic ticks back to back with no real-time wait. The delta
// passed to tick K is exactly K*(1000/fps) milliseconds - cumulative
// deterministic time, not the inter-frame interval - so recorded output is
// byte-reproducible regardless of wall-clock speed.
func (s *scheduler) runDeterministic() (int, error) {
	step := s.cfg.fixedStep()
	for {
		select {
		case <-s.cancel:
			return s.frame, nil
		default:
		}
		if err := s.tick(float64(s.frame) * step); err != nil {
			return s.frame, err
		}
		if s.limitReached() {
			return s.frame, nil
		}
	}
}

// runLive ticks at the display cadence, modeled as a wall-clock ticker at
// the target frame rate, and passes the measured elapsed time since the
// previous tick in milliseconds.
func (s *scheduler) runLive() (int, error) {
	interval := time.Second / time.Duration(s.cfg.FPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := time.Now()
	for {
		var delta float64
		select {
		case <-s.cancel:
			return s.frame, nil
		case now := <-ticker.C:
			delta = float64(now.Sub(prev)) / float64(time.Millisecond)
			prev = now
		}
		if err := s.tick(delta); err != nil {
			return s.frame, err
		}
		if s.limitReached() {
			return s.frame, nil
		}
	}
}

// tick runs one clear/draw/capture cycle.
func (s *scheduler) tick(delta float64) error {
	if s.cfg.ClearEachFrame {
		s.surface.Clear(s.cfg.Background)
	}
	if err := s.draw(s.surface.Context(), delta); err != nil {
		return &CallbackError{Frame: s.frame, Err: err}
	}
	if s.pipeline != nil {
		// Snapshot before the next tick so its clear/draw cannot change
		// the surface underneath an in-flight encode.
		s.pipeline.submit(s.frame, s.surface.ReadPixels())
	}
	s.frame++
	s.count.Add(1)
	return nil
}

// limitReached reports whether the configured frame count is exhausted.
func (s *scheduler) limitReached() bool {
	return s.cfg.FrameLimit > 0 && s.frame >= s.cfg.FrameLimit
}
