package deferkit

import (
	"sync"

	"go.llib.dev/frameless/pkg/errorkit"
)

// Stack binds any number of guards to a single scope.
//
// On Finish the registered actions run in last-in-first-out order,
// the same order the language's own defer statement would schedule them.
// Registration is safe for concurrent use.
//
// The zero value is ready to be used.
type Stack struct {
	mutex  sync.Mutex
	guards []*Guard
}

// Defer arms a new Guard with fn and registers it on the stack.
//
// The returned guard allows an individual entry to be cancelled
// or released ahead of the stack itself;
// either way the stack skips it during Finish.
func (s *Stack) Defer(fn Action) *Guard {
	g := &Guard{action: fn}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.guards = append(s.guards, g)
	return g
}

// Finish releases the registered guards in reverse registration order.
// Guards are guaranteed to be released, regardless of panics in the actions before them.
// Finish is idempotent, and the stack can be reused for a new round of registrations afterwards.
func (s *Stack) Finish() error {
	var errs []error
	for !s.isEmpty() { // handle guards deferred during the execution of a deferred action
		errs = append(errs, s.run()...)
	}
	return errorkit.Merge(errs...)
}

func (s *Stack) isEmpty() bool {
	return len(s.guards) == 0
}

func (s *Stack) run() (errs []error) {
	s.mutex.Lock()
	guards := s.guards
	s.guards = nil
	s.mutex.Unlock()
	for _, g := range guards {
		defer func(g *Guard) {
			if err := g.Finish(); err != nil {
				errs = append(errs, err)
			}
		}(g)
	}
	return
}
