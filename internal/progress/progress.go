// Package progress provides cooperative cancellation handles for long-running
// analyses.
//
// Work that accepts an Indicator polls it at safe points and aborts with
// ErrProcessCanceled once cancellation is requested. Cancellation is advisory:
// nothing is interrupted between checks.
package progress

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
)

// ErrProcessCanceled is returned by work that stopped because its indicator
// was canceled. It signals a voluntary abort, not a failure.
var ErrProcessCanceled = errors.New("process canceled")

// Indicator is polled by cancellable work.
type Indicator interface {
	// IsCanceled reports whether cancellation has been requested.
	IsCanceled() bool

	// CheckCanceled returns ErrProcessCanceled if cancellation has been
	// requested and nil otherwise.
	CheckCanceled() error
}

// Basic is an Indicator with an explicit Cancel and progress reporting.
type Basic struct {
	canceled atomic.Bool
	fraction atomic.Uint64 // math.Float64bits

	mu   sync.Mutex
	text string
}

// NewBasic returns an indicator that is not canceled.
func NewBasic() *Basic {
	return &Basic{}
}

// Cancel requests cancellation. It is safe to call more than once.
func (b *Basic) Cancel() {
	b.canceled.Store(true)
}

func (b *Basic) IsCanceled() bool {
	return b.canceled.Load()
}

func (b *Basic) CheckCanceled() error {
	if b.canceled.Load() {
		return ErrProcessCanceled
	}
	return nil
}

// SetText records a short description of the current step.
func (b *Basic) SetText(text string) {
	b.mu.Lock()
	b.text = text
	b.mu.Unlock()
}

// Text returns the last value passed to SetText.
func (b *Basic) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// SetFraction records completion in [0, 1]. Out-of-range values are clamped.
func (b *Basic) SetFraction(f float64) {
	if f < 0 || math.IsNaN(f) {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	b.fraction.Store(math.Float64bits(f))
}

// Fraction returns the last recorded completion fraction.
func (b *Basic) Fraction() float64 {
	return math.Float64frombits(b.fraction.Load())
}

type contextIndicator struct {
	ctx context.Context
}

// FromContext returns an indicator that is canceled once ctx is done.
func FromContext(ctx context.Context) Indicator {
	return contextIndicator{ctx: ctx}
}

func (c contextIndicator) IsCanceled() bool {
	return c.ctx.Err() != nil
}

func (c contextIndicator) CheckCanceled() error {
	if err := c.ctx.Err(); err != nil {
		return errors.Join(ErrProcessCanceled, err)
	}
	return nil
}

type never struct{}

// Never is an indicator that is never canceled.
var Never Indicator = never{}

func (never) IsCanceled() bool     { return false }
func (never) CheckCanceled() error { return nil }
