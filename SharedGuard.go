package deferkit

import (
	"go.llib.dev/frameless/pkg/errorkit"
	"go.uber.org/atomic"
)

const (
	// ErrShared is returned when an operation requires sole ownership of the pending action,
	// but other handles are still live.
	ErrShared errorkit.Error = "ErrShared"
	// ErrReleased is returned when an operation is attempted through an already released handle.
	ErrReleased errorkit.Error = "ErrReleased"
)

// NewShared returns the first handle of a shared pending action.
//
// Further handles are made with Own;
// each handle stands for one share of the ownership,
// and the action fires exactly once, on whichever handle is released last,
// unless a handle cancels the action before the last release.
//
// A nil fn yields an already cancelled handle.
func NewShared[AFN genericAction](fn AFN) *SharedGuard {
	action := ToAction(fn)
	cell := &sharedCell{action: action}
	cell.refs.Store(1)
	cell.canceled.Store(action == nil)
	return &SharedGuard{cell: cell}
}

// SharedGuard is a single handle of a reference counted pending action.
//
// Handles may be released from different goroutines,
// but an individual handle belongs to one goroutine at a time;
// hand out a fresh Own handle to each concurrent participant instead of sharing one.
//
// The zero value behaves as an already released handle.
type SharedGuard struct {
	cell *sharedCell
}

type sharedCell struct {
	refs     atomic.Int32
	canceled atomic.Bool
	action   Action
}

// Own adds a new handle over the same pending action and returns it.
//
// Own panics when the handle it is called on was already released,
// since a released handle no longer holds a share that could be split.
func (sg *SharedGuard) Own() *SharedGuard {
	if sg.cell == nil {
		panic("deferkit: Own called on an already released SharedGuard handle")
	}
	sg.cell.refs.Inc()
	return &SharedGuard{cell: sg.cell}
}

// Clone is an alias of SharedGuard.Own.
func (sg *SharedGuard) Clone() *SharedGuard {
	return sg.Own()
}

// Cancel marks the shared action as cancelled and releases this handle.
// After any handle cancelled, the action will not run, not even on the final release.
// Cancel on an already released handle is a no-op.
func (sg *SharedGuard) Cancel() {
	cell := sg.cell
	if cell == nil {
		return
	}
	sg.cell = nil
	// The flag is stored before this handle gives up its reference,
	// so the release that observes the count reaching zero always sees it.
	cell.canceled.Store(true)
	cell.refs.Dec()
}

// Finish releases this handle.
//
// The release that takes the live handle count to zero fires the action,
// unless the action was cancelled, and returns the action's error.
// Every other release returns nil,
// and so does a repeated Finish on an already released handle.
//
// The atomic decrement guarantees that out of any number of concurrent releases,
// exactly one observes the count reaching zero.
func (sg *SharedGuard) Finish() error {
	cell := sg.cell
	if cell == nil {
		return nil
	}
	sg.cell = nil
	if cell.refs.Dec() != 0 {
		return nil
	}
	if cell.canceled.Load() {
		return nil
	}
	return cell.action()
}

// TryDowngrade converts the handle back into an exclusively owned Guard.
//
// It succeeds only when the handle is the sole live one:
// the handle is consumed, and the returned Guard carries the pending action,
// or arrives disarmed in case the action was already cancelled.
//
// When other handles are still live, TryDowngrade fails with ErrShared
// and the handle remains usable.
// On an already released handle it fails with ErrReleased.
func (sg *SharedGuard) TryDowngrade() (*Guard, error) {
	cell := sg.cell
	if cell == nil {
		return nil, ErrReleased
	}
	if !cell.refs.CompareAndSwap(1, 0) {
		return nil, ErrShared
	}
	sg.cell = nil
	if cell.canceled.Load() {
		return &Guard{}, nil
	}
	return &Guard{action: cell.action}, nil
}
