package container

import (
	"fmt"
	"reflect"
	"slices"
)

// Resolver is the read path a Provider resolves its dependencies through.
// found is false when nothing is bound to key.
type Resolver interface {
	Resolve(key reflect.Type) (instance reflect.Value, found bool, err error)
}

// Provider produces the instance bound to one key.
type Provider interface {
	// Provide builds (or returns) a fully injected instance.
	Provide(r Resolver) (reflect.Value, error)

	// Dependencies lists the keys Provide will ask r for. It is used by
	// Check to validate the graph without building anything.
	Dependencies() []reflect.Type
}

// ── Instantiation ─────────────────────────────────────────────────────────────

// injectionProvider constructs a Component and injects its fields and methods.
type injectionProvider struct {
	component *Component
}

// NewInjectionProvider returns a Provider that builds c on every call.
func NewInjectionProvider(c *Component) Provider {
	return &injectionProvider{component: c}
}

func (p *injectionProvider) Dependencies() []reflect.Type {
	return p.component.Dependencies()
}

func (p *injectionProvider) Provide(r Resolver) (reflect.Value, error) {
	c := p.component
	owner := c.Type()

	args, err := resolveAll(r, owner, c.ctor.params)
	if err != nil {
		return reflect.Value{}, err
	}
	instance, err := c.ctor.newInstance(c.typ, args)
	if err != nil {
		return reflect.Value{}, err
	}

	// Fields and methods see a fully constructed instance.
	target := instance.Elem()
	for _, f := range c.fields {
		v, err := resolveOne(r, owner, f.typ)
		if err != nil {
			return reflect.Value{}, err
		}
		target.FieldByIndex(f.index).Set(v)
	}

	for _, m := range c.methods {
		args, err := resolveAll(r, owner, m.params)
		if err != nil {
			return reflect.Value{}, err
		}
		var method reflect.Value
		if m.promoted {
			method = instance.MethodByName(m.name)
		} else {
			method = target.FieldByIndex(m.level).Addr().MethodByName(m.name)
		}
		out := method.Call(args)
		if m.errOut {
			if e := out[len(out)-1]; !e.IsNil() {
				return reflect.Value{}, &ConstructionError{
					Component: owner,
					Err:       fmt.Errorf("%s.%s: %w", m.declaring, m.name, e.Interface().(error)),
				}
			}
		}
	}

	return instance, nil
}

func resolveOne(r Resolver, owner, key reflect.Type) (reflect.Value, error) {
	v, found, err := r.Resolve(key)
	if err != nil {
		return reflect.Value{}, err
	}
	if !found {
		return reflect.Value{}, &DependencyNotFoundError{Component: owner, Dependency: key}
	}
	return v, nil
}

func resolveAll(r Resolver, owner reflect.Type, keys []reflect.Type) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(keys))
	for i, key := range keys {
		v, err := resolveOne(r, owner, key)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// ── Pre-built instances ───────────────────────────────────────────────────────

// instanceProvider returns the same value on every call.
type instanceProvider struct {
	value reflect.Value
}

func (p *instanceProvider) Provide(Resolver) (reflect.Value, error) { return p.value, nil }
func (p *instanceProvider) Dependencies() []reflect.Type           { return nil }

// ── Factory functions ─────────────────────────────────────────────────────────

// factoryProvider calls a func whose parameters are resolved from the
// container, like go-api-boot's ProvideFunc.
type factoryProvider struct {
	key    reflect.Type
	fn     reflect.Value
	params []reflect.Type
	errOut bool
}

func newFactoryProvider(key reflect.Type, fn any) (*factoryProvider, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("container: factory for [%s] must be a non-nil func, got %T", keyName(key), fn)
	}
	ft := v.Type()
	if ft.IsVariadic() {
		return nil, fmt.Errorf("container: factory %s for [%s] is variadic", ft, keyName(key))
	}
	switch {
	case ft.NumOut() == 1 && ft.Out(0).AssignableTo(key):
	case ft.NumOut() == 2 && ft.Out(0).AssignableTo(key) && ft.Out(1) == errorType:
	default:
		return nil, fmt.Errorf("container: factory %s must return %s or (%s, error)", ft, keyName(key), keyName(key))
	}

	params := make([]reflect.Type, ft.NumIn())
	for i := range params {
		params[i] = ft.In(i)
	}
	return &factoryProvider{key: key, fn: v, params: params, errOut: ft.NumOut() == 2}, nil
}

func (p *factoryProvider) Dependencies() []reflect.Type { return slices.Clone(p.params) }

func (p *factoryProvider) Provide(r Resolver) (reflect.Value, error) {
	args, err := resolveAll(r, p.key, p.params)
	if err != nil {
		return reflect.Value{}, err
	}
	out := p.fn.Call(args)
	if p.errOut && !out[1].IsNil() {
		return reflect.Value{}, &ConstructionError{Component: p.key, Err: out[1].Interface().(error)}
	}
	return out[0], nil
}
