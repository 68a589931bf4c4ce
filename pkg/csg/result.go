package csg

import (
	"fmt"

	"github.com/pkg/errors"
)

var errInvalidResult = errors.New("csg: result contains non-finite geometry")

// BooleanOpFailure describes a boolean operation that did not complete
// normally.
type BooleanOpFailure struct {
	// Op is "union", "difference" or "intersect".
	Op string
	// Stage is the step that failed: "bsp" for the main algorithm,
	// "fallback" for the intersect-then-difference retry.
	Stage string
	Err   error
	// Recovered is true when a fallback produced the returned solid.
	Recovered bool
}

func (f *BooleanOpFailure) Error() string {
	state := "left operand returned unchanged"
	if f.Recovered {
		state = "recovered by fallback"
	}
	return fmt.Sprintf("csg: %s failed at %s (%s): %v", f.Op, f.Stage, state, f.Err)
}

func (f *BooleanOpFailure) Unwrap() error { return f.Err }

// Result is the outcome of a boolean operation. CSG is always usable;
// Failure is nil unless the operation fell back to a best-effort answer.
type Result struct {
	CSG     *CSG
	Failure *BooleanOpFailure
}

// Ok reports whether the operation completed without falling back.
func (r Result) Ok() bool { return r.Failure == nil }

// guard runs fn, converting a panic or a non-finite result into an error.
func guard(fn func() *CSG) (out *CSG, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			if e, ok := r.(error); ok {
				err = errors.Wrap(e, "recovered panic")
			} else {
				err = errors.Errorf("recovered panic: %v", r)
			}
		}
	}()
	out = fn()
	if !out.finite() {
		return nil, errInvalidResult
	}
	return out, nil
}
