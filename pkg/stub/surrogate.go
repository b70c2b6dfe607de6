package stub

import (
	"reflect"
	"sort"
)

// Option configures stub construction.
type Option func(*options)

type options struct {
	observer CallObserver
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithObserver installs a CallObserver on every stub function built with
// this option. Use testifystub.New to mirror calls into a testify mock.
func WithObserver(obs CallObserver) Option {
	return func(o *options) { o.observer = obs }
}

// Surrogate is the composite stand-in for a whole type: one independent
// Func per member name. Build a fresh one per test case.
type Surrogate map[string]*Func

// Get returns the stub for the named member, or nil if the surrogate has
// no such member.
func (s Surrogate) Get(name string) *Func { return s[name] }

// Names returns the surrogate's member names in sorted order.
func (s Surrogate) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// For builds a fully stubbed surrogate for t: every member discovered by
// Methods becomes a fresh, unconfigured Func. A type with no discoverable
// members yields an empty surrogate. Funcs are never shared between calls.
func For(t reflect.Type, opts ...Option) Surrogate {
	members := Methods(t)
	s := make(Surrogate, len(members))
	for _, name := range members {
		s[name] = NewFunc(name, opts...)
	}
	return s
}

// ForNames builds a surrogate with exactly the requested member names,
// bypassing discovery. The names are not checked against any real type
// shape: a stub is created whether or not the member exists, and a missing
// real member only surfaces later at the call site. Callers own that risk.
func ForNames(names []string, opts ...Option) Surrogate {
	s := make(Surrogate, len(names))
	for _, name := range names {
		s[name] = NewFunc(name, opts...)
	}
	return s
}

// Binding pairs a type with its merged surrogate for one-shot registration
// with the test harness. It is immutable once constructed: accessors
// return copies.
type Binding struct {
	t       reflect.Type
	members map[string]any
}

// Override builds the substitute registration for t. The full surrogate is
// always generated first; entries of custom then replace the generated
// stub under the same name entirely, including its invocation log. Custom
// values need not be Funcs.
func Override(t reflect.Type, custom map[string]any, opts ...Option) Binding {
	auto := For(t, opts...)

	members := make(map[string]any, len(auto)+len(custom))
	for name, f := range auto {
		members[name] = f
	}
	for name, v := range custom {
		members[name] = v
	}

	return Binding{t: t, members: members}
}

// Type returns the type this binding substitutes for.
func (b Binding) Type() reflect.Type { return b.t }

// ServiceName returns the container service name the substitution is
// registered under.
func (b Binding) ServiceName() string {
	if b.t == nil {
		return ""
	}
	return b.t.String()
}

// Member returns the substitute value for the named member, or nil.
func (b Binding) Member(name string) any { return b.members[name] }

// Members returns a copy of the merged member map.
func (b Binding) Members() map[string]any {
	out := make(map[string]any, len(b.members))
	for name, v := range b.members {
		out[name] = v
	}
	return out
}
