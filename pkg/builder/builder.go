// Package builder provides fluent construction of test data.
//
// A Builder produces values from a defaults function, then applies any
// accumulated overrides in order. Overrides mutate the value in place,
// which is Go's shape of a shallow merge: each override replaces only the
// fields it touches.
//
// # Usage
//
//	users := builder.New(func() User {
//	    return User{ID: builder.NewID(), Role: "member"}
//	})
//
//	admin := users.With(func(u *User) { u.Role = "admin" }).Build()
//	members := users.BuildMany(5)
package builder

import "github.com/google/uuid"

// Builder accumulates overrides over a defaults function and materializes
// values on demand. Not safe for concurrent use; build per test case.
type Builder[T any] struct {
	defaults  func() T
	overrides []func(*T)
}

// New creates a builder around a defaults-producing function. The function
// runs once per materialized value, so defaults that generate fresh
// identifiers yield distinct values per item. A nil defaults function
// materializes zero values.
func New[T any](defaults func() T) *Builder[T] {
	return &Builder[T]{defaults: defaults}
}

// With appends an override and returns the builder for chaining.
// Overrides accumulate until Reset (or the post-first-item reset inside
// BuildMany) clears them.
func (b *Builder[T]) With(override func(*T)) *Builder[T] {
	if override != nil {
		b.overrides = append(b.overrides, override)
	}
	return b
}

// Build materializes one value: defaults first, then each accumulated
// override in the order it was added.
func (b *Builder[T]) Build() T {
	var v T
	if b.defaults != nil {
		v = b.defaults()
	}
	for _, override := range b.overrides {
		override(&v)
	}
	return v
}

// BuildMany materializes count values, clearing the accumulated overrides
// after each one. The consequence is easy to miss: overrides set before
// the call apply to the first generated item only, and every later item is
// pure defaults. Tests pin this behavior; callers who want an override on
// every item should put it in the defaults function instead.
func (b *Builder[T]) BuildMany(count int) []T {
	out := make([]T, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, b.Build())
		b.Reset()
	}
	return out
}

// Reset clears the accumulated overrides and returns the builder.
func (b *Builder[T]) Reset() *Builder[T] {
	b.overrides = nil
	return b
}

// Merge is the pure-function form: defaults with the given overrides
// applied once, no accumulated state.
func Merge[T any](defaults T, overrides ...func(*T)) T {
	v := defaults
	for _, override := range overrides {
		if override != nil {
			override(&v)
		}
	}
	return v
}

// Factory wraps a defaults-producing function into a reusable factory.
// Each call materializes a fresh value with just that call's overrides.
func Factory[T any](defaults func() T) func(overrides ...func(*T)) T {
	return func(overrides ...func(*T)) T {
		var v T
		if defaults != nil {
			v = defaults()
		}
		for _, override := range overrides {
			if override != nil {
				override(&v)
			}
		}
		return v
	}
}

// NewID returns a fresh random identifier for use in defaults functions.
func NewID() string {
	return uuid.NewString()
}
