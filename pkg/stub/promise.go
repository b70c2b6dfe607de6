package stub

// Promise is an already-settled outcome standing in for an asynchronous
// member's pending result. It is settled at construction; Await never
// blocks. A stub configured with Resolve or Reject returns one of these
// from every call so the replaced member keeps its asynchronous shape.
type Promise struct {
	value any
	err   error
}

// Resolved returns a promise that awaits to (v, nil).
func Resolved(v any) *Promise {
	return &Promise{value: v}
}

// Rejected returns a promise that awaits to (nil, err).
func Rejected(err error) *Promise {
	return &Promise{err: err}
}

// Await returns the settled outcome.
func (p *Promise) Await() (any, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.value, nil
}

// IsRejected reports whether the promise settled with a failure.
func (p *Promise) IsRejected() bool { return p.err != nil }
