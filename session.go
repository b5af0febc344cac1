package ggcapture

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gg"
)

// DrawFunc is the per-tick draw callback. It receives the drawing context
// and the delta for the current tick in milliseconds, per the active timing
// mode. Returning a non-nil error halts the run: the session is left
// Stopped and any accumulated frames are discarded undelivered.
type DrawFunc func(dc *gg.Context, delta float64) error

// CompleteFunc receives the finalized archive of a recorded run. It is
// invoked exactly once per run, on the run goroutine, and ownership of the
// archive transfers to it.
type CompleteFunc func(*Archive)

// Session owns one recorder lifecycle: Idle -> Running -> Stopped, with
// Reset returning it to Idle. A session drives at most one run at a time;
// create independent sessions for independent runs.
//
// All exported methods are safe for concurrent use, but the drawing surface
// itself is single-owner: while Running it belongs to the run goroutine.
type Session struct {
	mu      sync.Mutex
	cfg     Config
	state   State
	surface Surface
	draw    DrawFunc

	// Per-run state. cancel/done/stopFn are recreated by every Start;
	// runErr holds the terminal error of the most recent run.
	cancel  chan struct{}
	done    chan struct{}
	stopFn  func()
	runErr  error
	discard bool

	frames atomic.Int64
}

// NewSession creates a session with default configuration overlaid by the
// given options, and a gg-backed surface at the configured size unless a
// custom surface is injected.
func NewSession(opts ...Option) (*Session, error) {
	s := &Session{cfg: defaultConfig(), state: StateIdle}
	if err := s.applyLocked(opts); err != nil {
		return nil, err
	}
	if s.surface == nil {
		s.surface = NewContextSurface(s.cfg.Width, s.cfg.Height)
	}
	return s, nil
}

// Configure merges the supplied options over the current configuration.
// Unspecified fields retain their prior values. A supplied size resizes the
// surface immediately.
//
// Configure fails with ErrInvalidState unless the session is Idle, and with
// ErrInvalidConfig for invalid values; in both cases the configuration is
// left unchanged.
func (s *Session) Configure(opts ...Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return fmt.Errorf("ggcapture: Configure requires %v state, session is %v: %w",
			StateIdle, s.state, ErrInvalidState)
	}
	return s.applyLocked(opts)
}

// applyLocked merges options into a copy, validates, then commits. The
// surface resize happens only after validation so a rejected Configure has
// no side effects. Caller must hold s.mu (or own s exclusively).
func (s *Session) applyLocked(opts []Option) error {
	next := s.cfg
	for _, opt := range opts {
		opt(&next)
	}
	if err := next.validate(); err != nil {
		return err
	}

	if next.surface != nil && next.surface != s.surface {
		s.surface = next.surface
	}
	if s.surface != nil &&
		(s.surface.Width() != next.Width || s.surface.Height() != next.Height) {
		if err := s.surface.Resize(next.Width, next.Height); err != nil {
			return fmt.Errorf("ggcapture: resize surface: %w", err)
		}
	}
	s.cfg = next

	Logger().Debug("session configured",
		"size", fmt.Sprintf("%dx%d", next.Width, next.Height),
		"record", next.Record, "fps", next.FPS, "frames", next.FrameLimit)
	return nil
}

// OnFrame registers the draw callback invoked once per tick. It fails with
// ErrInvalidState while the session is Running.
func (s *Session) OnFrame(fn DrawFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning {
		return fmt.Errorf("ggcapture: OnFrame while session is %v: %w",
			s.state, ErrInvalidState)
	}
	s.draw = fn
	return nil
}

// OnComplete registers the completion callback receiving the archive.
// Equivalent to Configure(WithOnComplete(fn)) except it is also accepted
// while Stopped.
func (s *Session) OnComplete(fn CompleteFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning {
		return fmt.Errorf("ggcapture: OnComplete while session is %v: %w",
			s.state, ErrInvalidState)
	}
	s.cfg.OnComplete = fn
	return nil
}

// Start begins the run loop on its own goroutine and returns immediately.
// It fails with ErrInvalidState unless the session is Idle, and with
// ErrInvalidConfig if no draw callback is registered.
//
// Use Wait or Done to observe completion; the run ends on Stop, on reaching
// the configured frame limit, or on a draw callback error.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return fmt.Errorf("ggcapture: Start requires %v state, session is %v: %w",
			StateIdle, s.state, ErrInvalidState)
	}
	if s.draw == nil {
		return fmt.Errorf("ggcapture: no draw callback registered: %w", ErrInvalidConfig)
	}
	enc, err := encoderByName(s.cfg.Format)
	if err != nil {
		return err
	}

	s.state = StateRunning
	s.runErr = nil
	s.discard = false
	s.frames.Store(0)
	cancel := make(chan struct{})
	s.cancel = cancel
	s.done = make(chan struct{})
	s.stopFn = sync.OnceFunc(func() { close(cancel) })

	var builder *archiveBuilder
	var pipeline *encodePipeline
	if s.cfg.Record {
		builder = newArchiveBuilder(enc.Extension(), s.cfg.FrameLimit)
		pipeline = newEncodePipeline(enc, builder, 0)
	}
	sched := newScheduler(s.cfg, s.surface, s.draw, pipeline, cancel, &s.frames)

	Logger().Info("run started",
		"record", s.cfg.Record, "fps", s.cfg.FPS, "frames", s.cfg.FrameLimit)

	go s.run(sched, pipeline, builder, s.done)
	return nil
}

// run executes one complete run, settles the terminal state, and delivers
// the archive. It is the only writer of per-run state while Running.
func (s *Session) run(sched *scheduler, pipeline *encodePipeline, builder *archiveBuilder, done chan struct{}) {
	defer close(done)

	frames, err := sched.run()

	// Await in-flight encodes even on cancellation so no frame is
	// silently dropped.
	if pipeline != nil {
		if drainErr := pipeline.drain(); err == nil {
			err = drainErr
		}
	}

	s.mu.Lock()
	s.state = StateStopped
	var archive *Archive
	if err == nil && builder != nil && frames > 0 && !s.discard {
		archive, err = builder.finalize()
	}
	s.runErr = err
	onComplete := s.cfg.OnComplete
	s.mu.Unlock()

	if err != nil {
		Logger().Warn("run halted", "frames", frames, "error", err)
		return
	}
	Logger().Info("run stopped", "frames", frames, "recorded", archive != nil)

	if archive != nil && onComplete != nil {
		onComplete(archive)
	}
}

// Stop halts a running session and blocks until the run has fully settled.
// If recording captured at least one frame, the archive is finalized and
// delivered before Stop returns; stopping with zero captured frames
// suppresses the completion callback entirely.
//
// Stop fails with ErrInvalidState unless the session is Running. It must
// not be called from the draw callback; bound the run with WithFrameLimit
// instead.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return fmt.Errorf("ggcapture: Stop requires %v state, session is %v: %w",
			StateRunning, s.state, ErrInvalidState)
	}
	stop, done := s.stopFn, s.done
	s.mu.Unlock()

	stop()
	<-done
	return nil
}

// Reset forces the session back to Idle. An active run is cancelled and its
// pending frame data discarded without delivering an archive; the
// configuration returns to defaults and the surface is resized to match.
func (s *Session) Reset() error {
	s.mu.Lock()
	if s.state == StateRunning {
		s.discard = true
		stop, done := s.stopFn, s.done
		s.mu.Unlock()
		stop()
		<-done
		s.mu.Lock()
	}

	s.cfg = defaultConfig()
	s.state = StateIdle
	s.runErr = nil
	s.discard = false
	s.cancel = nil
	s.done = nil
	s.stopFn = nil
	s.frames.Store(0)

	var err error
	if s.surface != nil &&
		(s.surface.Width() != s.cfg.Width || s.surface.Height() != s.cfg.Height) {
		if rerr := s.surface.Resize(s.cfg.Width, s.cfg.Height); rerr != nil {
			err = fmt.Errorf("ggcapture: resize surface: %w", rerr)
		}
	}
	s.mu.Unlock()

	Logger().Debug("session reset")
	return err
}

// Done returns a channel that is closed once the current run has fully
// settled, including archive delivery. If no run was ever started, the
// returned channel is already closed.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return s.done
}

// Wait blocks until the current run settles and returns its terminal error:
// nil for a clean stop, a *CallbackError if the draw callback failed, or an
// encoding/archival error.
func (s *Session) Wait() error {
	<-s.Done()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runErr
}

// Err returns the terminal error of the most recent run, if any, without
// blocking.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runErr
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Config returns a copy of the current configuration.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.cfg
	cfg.surface = nil
	return cfg
}

// Surface returns the session's drawing surface. While the session is
// Running the surface belongs to the run goroutine and must not be touched.
func (s *Session) Surface() Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface
}

// Frames returns the number of completed ticks of the current or most
// recent run.
func (s *Session) Frames() int {
	return int(s.frames.Load())
}
