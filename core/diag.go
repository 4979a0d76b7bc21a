package core

import (
	"log/slog"
	"sync"
)

// Logger is the default logger used by LogDiag when its Logger is
// nil.
var Logger = slog.Default()

// Diag receives diagnostic output: what "print" Actions print and
// the configuration errors an FSM encounters.
//
// A Diag should not block.
type Diag interface {
	// Print receives a line of output from a print or
	// print_event Action.
	Print(msg string)

	// Error receives a (non-fatal) error.
	Error(err error)
}

// LogDiag is a Diag that writes to a slog.Logger.
type LogDiag struct {
	Logger *slog.Logger
}

func (d *LogDiag) logger() *slog.Logger {
	if d == nil || d.Logger == nil {
		return Logger
	}
	return d.Logger
}

func (d *LogDiag) Print(msg string) {
	d.logger().Info(msg)
}

func (d *LogDiag) Error(err error) {
	d.logger().Error("fsm", "err", err)
}

// Discard is a Diag that ignores everything.
var Discard Diag = discard{}

type discard struct{}

func (discard) Print(string) {}
func (discard) Error(error)  {}

// Recorder is a Diag that remembers what it's given.
//
// Safe for concurrent use.
type Recorder struct {
	sync.Mutex
	Printed []string
	Errors  []error
}

func (r *Recorder) Print(msg string) {
	r.Lock()
	r.Printed = append(r.Printed, msg)
	r.Unlock()
}

func (r *Recorder) Error(err error) {
	r.Lock()
	r.Errors = append(r.Errors, err)
	r.Unlock()
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.Lock()
	r.Printed = nil
	r.Errors = nil
	r.Unlock()
}

// Tee returns a Diag that forwards to all of the given Diags (nils are
// skipped).
func Tee(ds ...Diag) Diag {
	acc := make(tee, 0, len(ds))
	for _, d := range ds {
		if d != nil {
			acc = append(acc, d)
		}
	}
	return acc
}

type tee []Diag

func (t tee) Print(msg string) {
	for _, d := range t {
		d.Print(msg)
	}
}

func (t tee) Error(err error) {
	for _, d := range t {
		d.Error(err)
	}
}
