package container

import "reflect"

// ── Type keys ─────────────────────────────────────────────────────────────────

// TypeOf returns the key for T. Interface types keep their identity, so
// TypeOf[io.Reader]() and TypeOf[*bytes.Buffer]() are different keys.
//
//	c.Bind(container.TypeOf[UserRepository](), container.TypeOf[*EloquentUsers]())
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// TypeKey returns the key for v. A nil pointer to an interface yields the
// interface itself, which is the usual way to name an interface key without
// generics:
//
//	key := container.TypeKey((*UserRepository)(nil)) // UserRepository
func TypeKey(v any) reflect.Type {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Interface {
		return t.Elem()
	}
	return t
}

// componentType normalises an implementation type to the struct it names.
// Both S and *S describe the component S.
func componentType(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

func keyName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
