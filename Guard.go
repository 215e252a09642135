package deferkit

// New returns a Guard armed with fn.
//
// The guard binds fn to the scope of whoever holds it:
// release it with a deferred Finish call at the acquisition point,
// and fn runs when control leaves that scope, no matter how.
//
//	f, err := os.Open(name)
//	if err != nil {
//		return err
//	}
//	g := deferkit.New(f.Close)
//	defer g.Finish()
//
// Between acquisition and release the guard can be disarmed with Cancel,
// or released ahead of time with a direct Finish call.
//
// A nil fn yields an already disarmed guard.
func New[AFN genericAction](fn AFN) *Guard {
	return &Guard{action: ToAction(fn)}
}

// Guard holds a single pending Action and fires it at most once.
//
// Guard is meant for exclusive ownership within a single goroutine,
// thus it does no synchronization on its own.
// To share a pending action between goroutines, use SharedGuard.
//
// The zero value is a disarmed guard.
type Guard struct {
	action Action
}

// Armed reports whether the guard still holds its pending action.
func (g *Guard) Armed() bool {
	return g.action != nil
}

// Cancel disarms the guard and reports whether it was still armed.
// The pending action of a cancelled guard never runs.
func (g *Guard) Cancel() bool {
	armed := g.action != nil
	g.action = nil
	return armed
}

// Finish fires the pending action in case the guard is still armed.
//
// The guard disarms before the action is invoked,
// so the action runs at most once even when it panics,
// and any further Finish call is a no-op.
//
// Use it deferred to bind the action to the current scope,
// or call it directly to force the release early.
func (g *Guard) Finish() error {
	fn := g.action
	g.action = nil
	if fn == nil {
		return nil
	}
	return fn()
}

// Upgrade moves the pending action out of the guard into a fresh SharedGuard,
// leaving the guard itself disarmed.
// Upgrading a disarmed guard yields an already cancelled handle.
func (g *Guard) Upgrade() *SharedGuard {
	fn := g.action
	g.action = nil
	return NewShared(fn)
}
