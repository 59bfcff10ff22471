package ffx

import (
	"fmt"
	"log/slog"
)

// Observer receives diagnostic events while a cipher runs: step traces for
// conformance debugging and a progress fraction in [0, 1]. Events are
// delivered synchronously on the calling goroutine and carry no control
// flow. An Observer attached to a shared cipher must be safe for concurrent
// use.
type Observer interface {
	OutputChanged(text string)
	ProgressChanged(fraction float64)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Output   func(text string)
	Progress func(fraction float64)
}

// OutputChanged calls o.Output.
func (o ObserverFuncs) OutputChanged(text string) {
	if o.Output != nil {
		o.Output(text)
	}
}

// ProgressChanged calls o.Progress.
func (o ObserverFuncs) ProgressChanged(fraction float64) {
	if o.Progress != nil {
		o.Progress(fraction)
	}
}

// LogObserver writes trace lines and progress to a structured logger at
// debug level.
type LogObserver struct {
	Logger *slog.Logger
}

// OutputChanged logs one trace line.
func (o LogObserver) OutputChanged(text string) {
	o.logger().Debug(text)
}

// ProgressChanged logs the progress fraction.
func (o LogObserver) ProgressChanged(fraction float64) {
	o.logger().Debug("progress", slog.Float64("fraction", fraction))
}

func (o LogObserver) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Option configures a cipher.
type Option func(*Settings)

// Settings holds the resolved options of a cipher.
type Settings struct {
	Observer Observer
}

// WithObserver attaches o to the cipher. Without it no events are emitted.
func WithObserver(o Observer) Option {
	return func(s *Settings) {
		s.Observer = o
	}
}

// NewSettings applies opts in order.
func NewSettings(opts ...Option) Settings {
	var s Settings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Tracing reports whether trace formatting is worth doing.
func (s Settings) Tracing() bool {
	return s.Observer != nil
}

// Tracef formats and sends one trace line. Observer panics are dropped:
// diagnostics never abort a cryptographic operation.
func (s Settings) Tracef(format string, args ...interface{}) {
	if s.Observer == nil {
		return
	}
	defer func() { _ = recover() }()
	s.Observer.OutputChanged(fmt.Sprintf(format, args...))
}

// Progress reports that done of total rounds have completed.
func (s Settings) Progress(done, total int) {
	if s.Observer == nil || total <= 0 {
		return
	}
	defer func() { _ = recover() }()
	s.Observer.ProgressChanged(float64(done) / float64(total))
}
