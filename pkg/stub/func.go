package stub

import "sync"

// Impl is a custom stub implementation installed with Func.Do.
type Impl func(args ...any) any

// CallObserver receives every stub invocation. Installing one (see
// WithObserver) mirrors calls into a host mocking runtime; the testifystub
// package adapts testify's mock.Mock. Observers are chosen at construction
// time, never detected.
type CallObserver interface {
	ObserveCall(member string, args []any)
}

type mode int

const (
	modeNone mode = iota
	modeReturn
	modeResolve
	modeReject
	modeImpl
)

// Func is a callable placeholder for a single member. It records every
// invocation and computes results from whichever behavior was configured
// most recently. The zero configuration returns nil from every call.
type Func struct {
	name     string
	observer CallObserver

	mu       sync.Mutex
	calls    [][]any
	mode     mode
	ret      any
	resolved any
	rejected error
	impl     Impl
}

// NewFunc creates an unconfigured stub function for the named member.
func NewFunc(name string, opts ...Option) *Func {
	o := applyOptions(opts)
	return &Func{name: name, observer: o.observer}
}

// Name returns the member name this stub stands in for.
func (f *Func) Name() string { return f.name }

// Call invokes the stub. The arguments are appended to the invocation log
// before the result is computed, so the log always reflects call order.
// The result depends on the active behavior: a custom implementation's
// return, a *Promise for Resolve/Reject, the fixed value for Return, or
// nil when nothing was configured.
func (f *Func) Call(args ...any) any {
	logged := make([]any, len(args))
	copy(logged, args)

	f.mu.Lock()
	f.calls = append(f.calls, logged)
	m := f.mode
	ret, resolved, rejected, impl := f.ret, f.resolved, f.rejected, f.impl
	f.mu.Unlock()

	if f.observer != nil {
		f.observer.ObserveCall(f.name, logged)
	}

	switch m {
	case modeImpl:
		return impl(args...)
	case modeResolve:
		return Resolved(resolved)
	case modeReject:
		return Rejected(rejected)
	case modeReturn:
		return ret
	default:
		return nil
	}
}

// Return configures the stub to return v synchronously from every call.
// Replaces any previously configured behavior.
func (f *Func) Return(v any) *Func {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = modeReturn
	f.ret = v
	return f
}

// Resolve configures the stub to return a resolved *Promise carrying v,
// matching the shape of an asynchronous member. Replaces any previously
// configured behavior.
func (f *Func) Resolve(v any) *Func {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = modeResolve
	f.resolved = v
	return f
}

// Reject configures the stub to return a rejected *Promise carrying err.
// This is the intended way to simulate a failure from the member being
// replaced; the configuration call itself never fails. Replaces any
// previously configured behavior.
func (f *Func) Reject(err error) *Func {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = modeReject
	f.rejected = err
	return f
}

// Do installs impl as the stub's behavior; every call invokes it with the
// call's arguments and returns its result. Replaces any previously
// configured behavior.
func (f *Func) Do(impl Impl) *Func {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = modeImpl
	f.impl = impl
	return f
}

// Calls returns a copy of the invocation log, one argument list per call,
// in call order.
func (f *Func) Calls() [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]any, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns the number of times the stub has been called.
func (f *Func) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Reset clears the invocation log. The configured behavior is kept.
func (f *Func) Reset() *Func {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
	return f
}
