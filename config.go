package ggcapture

import (
	"fmt"
	"image/color"

	"github.com/gogpu/gg"
)

// Default configuration values, applied by NewSession and restored by Reset.
const (
	DefaultWidth  = 512
	DefaultHeight = 512
	DefaultFPS    = 60
)

// Config holds the settings for a session run. Fields are only mutable
// through Configure while the session is Idle; a running session's
// configuration is frozen.
type Config struct {
	// Width and Height are the surface dimensions in pixels. Both must be
	// positive.
	Width  int
	Height int

	// Background is the clear color used before each tick when
	// ClearEachFrame is set. A nil Background clears to fully transparent.
	Background color.Color

	// ClearEachFrame clears the surface before every tick. When false,
	// pixel content persists across ticks unless the callback overwrites it.
	ClearEachFrame bool

	// Record selects deterministic timing and per-frame capture. See the
	// package documentation for the two timing contracts.
	Record bool

	// FPS is the target frame rate. Must be positive. In live mode it sets
	// the tick cadence; in recording mode it defines the fixed delta step
	// 1000/FPS milliseconds.
	FPS int

	// FrameLimit bounds the number of ticks. Zero means unbounded: the run
	// continues until Stop.
	FrameLimit int

	// Format names the registered frame encoder, e.g. FormatPNG.
	Format string

	// OnComplete receives the finalized archive. Invoked at most once per
	// run, and only when recording captured at least one frame.
	OnComplete CompleteFunc

	// surface is an injected drawing target. Unset means the session keeps
	// its current surface (a gg-backed one by default).
	surface Surface
}

func defaultConfig() Config {
	return Config{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Record: true,
		FPS:    DefaultFPS,
		Format: FormatPNG,
	}
}

// validate checks the configuration invariants.
func (c *Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("ggcapture: size %dx%d, both dimensions must be > 0: %w",
			c.Width, c.Height, ErrInvalidConfig)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("ggcapture: fps %d must be > 0: %w", c.FPS, ErrInvalidConfig)
	}
	if c.FrameLimit < 0 {
		return fmt.Errorf("ggcapture: frame limit %d must be >= 0: %w",
			c.FrameLimit, ErrInvalidConfig)
	}
	if _, err := encoderByName(c.Format); err != nil {
		return err
	}
	return nil
}

// fixedStep returns the deterministic delta step in milliseconds.
func (c *Config) fixedStep() float64 {
	return 1000 / float64(c.FPS)
}

// Option configures a Session. Unspecified fields retain their prior values,
// or the defaults on first use.
//
// Example:
//
//	s.Configure(
//	    ggcapture.WithSize(1920, 1080),
//	    ggcapture.WithBackgroundHex("#202020"),
//	    ggcapture.WithClear(true),
//	)
type Option func(*Config)

// WithSize sets the surface dimensions in pixels. The surface is resized
// immediately when the option is applied.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithBackground sets the clear color. Pass nil to clear to transparent.
func WithBackground(col color.Color) Option {
	return func(c *Config) {
		c.Background = col
	}
}

// WithBackgroundHex sets the clear color from a hex string such as
// "#ff0000", "#f00" or "#ff0000cc".
func WithBackgroundHex(hex string) Option {
	return func(c *Config) {
		c.Background = gg.Hex(hex).Color()
	}
}

// WithClear controls whether the surface is cleared before every tick.
func WithClear(clear bool) Option {
	return func(c *Config) {
		c.ClearEachFrame = clear
	}
}

// WithRecording enables or disables frame capture. Recording switches the
// scheduler to deterministic fixed-step timing.
func WithRecording(record bool) Option {
	return func(c *Config) {
		c.Record = record
	}
}

// WithFPS sets the target frame rate.
func WithFPS(fps int) Option {
	return func(c *Config) {
		c.FPS = fps
	}
}

// WithFrameLimit bounds the run to n ticks. Zero means unbounded.
func WithFrameLimit(n int) Option {
	return func(c *Config) {
		c.FrameLimit = n
	}
}

// WithFormat selects a registered frame encoder by name.
func WithFormat(format string) Option {
	return func(c *Config) {
		c.Format = format
	}
}

// WithOnComplete registers the completion callback receiving the archive.
func WithOnComplete(fn CompleteFunc) Option {
	return func(c *Config) {
		c.OnComplete = fn
	}
}

// WithSurface injects a custom drawing target. Use this for dependency
// injection of offscreen or instrumented surfaces; by default a Session
// draws on a gg.Context-backed surface.
func WithSurface(s Surface) Option {
	return func(c *Config) {
		c.surface = s
	}
}
