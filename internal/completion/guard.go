// Package completion implements the per-request state deciding when the response is
// finalized and when the chain continuation fires.
package completion

import (
	"sync"
	"sync/atomic"
)

// Guard holds two independent latches: sent and nextCalled. A response can be sent
// without the continuation having fired yet, but neither of them can happen twice.
type Guard struct {
	mu         sync.Mutex
	sent       bool
	nextCalled atomic.Bool
	failure    atomic.Pointer[error]
	next       func(error)
	fail       func(error)
	suppressed func(op string)
}

// New returns a guard around the chain continuation. The continuation is called at most
// once, no matter how many times and from how many goroutines Continue is called.
func New(next func(error)) *Guard {
	return &Guard{next: next}
}

// OnFailure installs the error path, used by operations that fail after the handler has
// already returned (e.g. file transfers).
func (g *Guard) OnFailure(fn func(error)) {
	g.fail = fn
}

// OnSuppressed installs a hook, notified whenever an operation is dropped because the
// response has already been sent.
func (g *Guard) OnSuppressed(fn func(op string)) {
	g.suppressed = fn
}

// Mutate runs fn only if the response isn't sent yet. The check and fn are executed
// atomically in regard to other Mutate and Finalize calls.
func (g *Guard) Mutate(op string, fn func()) bool {
	if !g.mutate(fn) {
		g.notifySuppressed(op)
		return false
	}

	return true
}

// Finalize runs the terminal operation fn if the response isn't sent yet, marks it as sent
// and continues the chain. The continuation carries the failure which is being reported at
// the moment, if any. Returns whether fn was executed at all and its error.
func (g *Guard) Finalize(op string, fn func() error) (ok bool, err error) {
	ok, err = g.Seal(op, fn)
	if ok {
		g.Continue(g.Failure())
	}

	return ok, err
}

// Seal does the same as Finalize does, except the chain isn't continued. It's up to the
// caller to do so when ok is true.
func (g *Guard) Seal(op string, fn func() error) (ok bool, err error) {
	ok, err = g.finalize(fn)
	if !ok {
		g.notifySuppressed(op)
	}

	return ok, err
}

func (g *Guard) mutate(fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sent {
		return false
	}

	fn()
	return true
}

func (g *Guard) finalize(fn func() error) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sent {
		return false, nil
	}

	g.sent = true
	return true, fn()
}

// Abandon marks the response as sent without sending anything, so every later operation is
// dropped. Returns false if the response was already sent.
func (g *Guard) Abandon() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sent {
		return false
	}

	g.sent = true
	return true
}

// Sent reports whether a terminal operation was already performed.
func (g *Guard) Sent() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.sent
}

// Continue fires the chain continuation, unless it was already fired. Returns whether this
// call was the one to fire it.
func (g *Guard) Continue(err error) bool {
	if !g.nextCalled.CompareAndSwap(false, true) {
		return false
	}

	g.next(err)
	return true
}

// Continued reports whether the chain continuation was already fired.
func (g *Guard) Continued() bool {
	return g.nextCalled.Load()
}

// Report marks err as the failure being currently handled. Terminal operations performed
// while reporting it continue the chain with err instead of nil.
func (g *Guard) Report(err error) {
	g.failure.Store(&err)
}

// Failure returns the failure being reported, if any.
func (g *Guard) Failure() error {
	if err := g.failure.Load(); err != nil {
		return *err
	}

	return nil
}

// Fail routes err into the error path installed via OnFailure. Without one, the chain is
// continued with the error directly.
func (g *Guard) Fail(err error) {
	if g.fail != nil {
		g.fail(err)
		return
	}

	g.Continue(err)
}

func (g *Guard) notifySuppressed(op string) {
	if g.suppressed != nil {
		g.suppressed(op)
	}
}
