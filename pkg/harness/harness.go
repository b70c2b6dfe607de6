package harness

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/samber/do"

	"github.com/stubkit/stubkit/pkg/logging"
	"github.com/stubkit/stubkit/pkg/stub"
)

// Provider constructs a service, resolving its dependencies from the
// container it is being registered in.
type Provider func(c *Container) (any, error)

// HandlerProvider builds a request handler against the compiled container.
type HandlerProvider func(c *Container) http.HandlerFunc

type namedProvider struct {
	name string
	fn   Provider
}

type namedValue struct {
	name  string
	value any
}

type route struct {
	method  string
	pattern string
	handler HandlerProvider
}

// Harness accumulates registrations for one test container.
type Harness struct {
	providers []namedProvider
	values    []namedValue
	bindings  []stub.Binding
	routes    []route
	log       *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithProvider registers a named provider.
func WithProvider(name string, fn Provider) Option {
	return func(h *Harness) {
		h.providers = append(h.providers, namedProvider{name: name, fn: fn})
	}
}

// WithValue registers an existing value under a service name.
func WithValue(name string, value any) Option {
	return func(h *Harness) {
		h.values = append(h.values, namedValue{name: name, value: value})
	}
}

// WithBinding registers a substitute binding from stub.Override. The
// binding's surrogate is registered under the type's service name,
// replacing any provider or value registered there.
func WithBinding(b stub.Binding) Option {
	return func(h *Harness) {
		h.bindings = append(h.bindings, b)
	}
}

// WithRoute registers a request-handler descriptor. Routes are mounted by
// the App, not by Compile.
func WithRoute(method, pattern string, handler HandlerProvider) Option {
	return func(h *Harness) {
		h.routes = append(h.routes, route{method: method, pattern: pattern, handler: handler})
	}
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Harness) {
		if log != nil {
			h.log = log
		}
	}
}

// New creates a Harness with the given registrations.
func New(opts ...Option) *Harness {
	h := &Harness{log: logging.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Compile builds the container: values, then providers, then bindings, so
// substitution always wins. Providers run lazily on first resolution; a
// provider failure surfaces from Container.Get, not from Compile.
func (h *Harness) Compile() (*Container, error) {
	injector := do.New()

	c := &Container{
		injector: injector,
		routes:   h.routes,
		log:      h.log,
	}

	for _, v := range h.values {
		do.ProvideNamedValue[any](injector, v.name, v.value)
	}

	for _, p := range h.providers {
		fn := p.fn
		do.ProvideNamed[any](injector, p.name, func(*do.Injector) (any, error) {
			return fn(c)
		})
	}

	for _, b := range h.bindings {
		name := b.ServiceName()
		if name == "" {
			return nil, fmt.Errorf("binding has no service name")
		}
		do.OverrideNamedValue[any](injector, name, b.Members())
	}

	h.log.Debug("container compiled",
		"values", len(h.values),
		"providers", len(h.providers),
		"bindings", len(h.bindings),
		"routes", len(h.routes))

	return c, nil
}

// Container is a compiled test container.
type Container struct {
	injector *do.Injector
	routes   []route
	log      *slog.Logger
}

// Get resolves a service by name. Resolution failures (unknown name, or a
// failing provider) come from the container; nothing is validated before
// this point.
func (c *Container) Get(name string) (any, error) {
	v, err := do.InvokeNamed[any](c.injector, name)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", name, err)
	}
	return v, nil
}

// MustGet resolves a service by name, panicking on failure. Intended for
// handler bodies inside tests where a missing registration is a test bug.
func (c *Container) MustGet(name string) any {
	v, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Member resolves a substitute surrogate by service name and returns its
// named member. The usual shape of a binding member is a *stub.Func, but
// overridden entries can be anything the test supplied.
func (c *Container) Member(service, member string) (any, error) {
	v, err := c.Get(service)
	if err != nil {
		return nil, err
	}
	members, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("service %q is %T, not a surrogate", service, v)
	}
	m, ok := members[member]
	if !ok {
		return nil, fmt.Errorf("surrogate %q has no member %q", service, member)
	}
	return m, nil
}

// Close shuts the container down, releasing any services that implement
// a shutdown hook.
func (c *Container) Close() error {
	return c.injector.Shutdown()
}

// Resolve resolves a service by name and asserts its type.
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	v, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("service %q is %T, not %T", name, v, zero)
	}
	return typed, nil
}
