// Package deferkit provides scope-bound deferred execution through guard values.
package deferkit

import (
	"fmt"
)

// Action is the basic unit of the deferkit package, which represents a pending cleanup work.
//
// Action at its core is nothing more than a synchronous function that a guard fires at most once.
// Whatever error the Action returns is handed back to the caller who triggered its release.
type Action func() error

type genericAction interface {
	Action |
		func() error |
		func()
}

// ToAction converts the accepted function signatures into an Action.
// A nil function value converts into a nil Action.
func ToAction[AFN genericAction](afn AFN) Action {
	switch v := any(afn).(type) {
	case Action:
		return v
	case func() error:
		return v
	case func():
		if v == nil {
			return nil
		}
		return func() error { v(); return nil }
	default:
		panic(fmt.Sprintf("%T is not supported Action func", v))
	}
}
