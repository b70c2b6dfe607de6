package stub

import "reflect"

// TypeOf returns the reflect.Type for T without needing an instance.
// For interfaces this is the interface type itself; for a concrete type,
// pass a pointer type parameter (TypeOf[*Service]) to pick up pointer
// receiver methods.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Methods enumerates the exported callable members of t in the stable
// (lexicographic) order Go reflection yields. Methods promoted from
// embedded types appear exactly once: a redeclaration on the outer type
// shadows the embedded one, so each name maps to its most specific
// definition. Data fields are not members. A nil type, or a type with no
// exported methods, yields an empty sequence rather than an error.
func Methods(t reflect.Type) []string {
	if t == nil {
		return nil
	}

	names := make([]string, 0, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		// Interface method sets can carry unexported names.
		if !m.IsExported() {
			continue
		}
		names = append(names, m.Name)
	}

	return names
}
