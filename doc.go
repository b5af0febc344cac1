// Package ggcapture drives a draw callback against a gg drawing context at
// a controlled cadence and records the produced frames as still images.
//
// # Overview
//
// ggcapture is a frame-loop recorder for the gogpu/gg 2D graphics library.
// A Session owns one run at a time: it invokes a user-supplied draw callback
// once per tick, optionally captures the surface pixels after each tick as a
// lossless image payload, and on completion delivers all captured frames as
// a single store-only ZIP archive.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/gg"
//	    "github.com/gogpu/ggcapture"
//	)
//
//	s, _ := ggcapture.NewSession(
//	    ggcapture.WithSize(512, 512),
//	    ggcapture.WithFPS(30),
//	    ggcapture.WithFrameLimit(90),
//	    ggcapture.WithOnComplete(func(a *ggcapture.Archive) {
//	        a.SaveZIP("frames.zip")
//	    }),
//	)
//	s.OnFrame(func(dc *gg.Context, delta float64) error {
//	    dc.SetRGB(1, 0, 0)
//	    dc.DrawCircle(256, 256, delta/10)
//	    return dc.Fill()
//	})
//	s.Start()
//	s.Wait()
//
// # Timing Modes
//
// The scheduler has two timing modes selected by the recording flag:
//
//   - Live (recording disabled): ticks follow a wall-clock ticker at the
//     target frame rate, and the delta passed to the callback is the
//     measured elapsed time since the previous tick, in milliseconds.
//   - Deterministic (recording enabled): ticks run back to back with no
//     real-time wait, and the delta for tick K is exactly K*(1000/fps)
//     milliseconds. Identical callbacks therefore produce byte-identical
//     archives regardless of real execution speed.
//
// The two modes are deliberately different contracts: live mode favors
// real-time accuracy, deterministic mode favors reproducibility. Visual
// smoothness is not a goal while recording.
//
// # Lifecycle
//
// A Session moves Idle -> Running -> Stopped. Configuration is only
// accepted while Idle; Stopped is terminal until Reset returns the session
// to Idle with default configuration.
//
// # Architecture
//
// The package is organized into:
//   - Session: state machine and public API
//   - scheduler: the per-run tick loop
//   - encodePipeline: asynchronous frame encoding workers
//   - archiveBuilder / Archive: ordered, store-only ZIP packing
//   - Surface: the drawing target abstraction (default: gg.Context)
package ggcapture
