package container

import (
	"errors"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Constructor declares a function that builds a component. Go has no
// constructor reflection, so a component's constructors are handed to Bind
// explicitly.
//
//	c.Bind(key, impl,
//	    container.InjectConstructor(NewMailer),      // the injection point
//	    container.PlainConstructor(NewDefaultMailer), // fallback, must take no args
//	)
type Constructor struct {
	fn     reflect.Value
	inject bool
}

// InjectConstructor marks fn as the constructor the container calls. Its
// parameters are resolved from the container.
func InjectConstructor(fn any) Constructor {
	return Constructor{fn: reflect.ValueOf(fn), inject: true}
}

// PlainConstructor declares fn without marking it. It is only used when no
// constructor is marked, and only if it takes no parameters.
func PlainConstructor(fn any) Constructor {
	return Constructor{fn: reflect.ValueOf(fn)}
}

// constructor is a validated constructor for one component.
type constructor struct {
	fn     reflect.Value // invalid for zero-value allocation
	params []reflect.Type
	errOut bool
}

func (c Constructor) validate(component reflect.Type) (*constructor, error) {
	if !c.fn.IsValid() || c.fn.Kind() != reflect.Func || c.fn.IsNil() {
		return nil, illegal(component, "constructor must be a non-nil func")
	}
	ft := c.fn.Type()
	if ft.IsVariadic() {
		return nil, illegal(component, "constructor %s is variadic", ft)
	}
	ptr := reflect.PointerTo(component)
	switch {
	case ft.NumOut() == 1 && ft.Out(0) == ptr:
	case ft.NumOut() == 2 && ft.Out(0) == ptr && ft.Out(1) == errorType:
	default:
		return nil, illegal(component, "constructor %s must return %s or (%s, error)", ft, ptr, ptr)
	}

	params := make([]reflect.Type, ft.NumIn())
	for i := range params {
		params[i] = ft.In(i)
	}
	return &constructor{fn: c.fn, params: params, errOut: ft.NumOut() == 2}, nil
}

// newInstance allocates the component with already-resolved arguments.
func (c *constructor) newInstance(component reflect.Type, args []reflect.Value) (reflect.Value, error) {
	if !c.fn.IsValid() {
		return reflect.New(component), nil
	}
	owner := reflect.PointerTo(component)
	out := c.fn.Call(args)
	if c.errOut && !out[1].IsNil() {
		return reflect.Value{}, &ConstructionError{Component: owner, Err: out[1].Interface().(error)}
	}
	if out[0].IsNil() {
		return reflect.Value{}, &ConstructionError{Component: owner, Err: errors.New("constructor returned nil")}
	}
	return out[0], nil
}
