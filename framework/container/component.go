package container

import (
	"reflect"
	"runtime"
	"slices"
	"strings"
)

// injectTag marks injectable fields, and on blank "_" fields lists the
// injectable methods of the enclosing struct.
const injectTag = "inject"

// Abstract marks a struct as a base that is only meant to be embedded.
// A struct that embeds Abstract directly cannot be bound as a component;
// structs embedding that base are unaffected.
//
//	type BaseRepository struct {
//	    container.Abstract
//	    Log *zap.Logger `inject:""`
//	}
type Abstract struct{}

var abstractType = reflect.TypeOf(Abstract{})

// Component is the injection plan for one implementation type: the chosen
// constructor, then the injectable fields and methods in the order they are
// applied. It is computed once when a binding is registered and never
// changes afterwards.
type Component struct {
	typ     reflect.Type // struct type; instances are *typ
	ctor    *constructor
	fields  []injectField
	methods []injectMethod
}

type injectField struct {
	declaring reflect.Type
	name      string
	index     []int
	typ       reflect.Type
}

type injectMethod struct {
	declaring reflect.Type
	name      string
	level     []int // index of the declaring struct inside the component
	promoted  bool  // called through the component's method set
	params    []reflect.Type
	errOut    bool
}

// level is one struct in a component's embedding chain.
type level struct {
	typ      reflect.Type
	index    []int
	outer    []reflect.Type // embedders from the component down to this level
	readOnly bool           // reached through an unexported embedded field
}

// NewComponent describes impl (a struct or pointer to struct) and validates
// that it can be built. Every problem is reported here, never at resolution
// time.
func NewComponent(impl reflect.Type, ctors ...Constructor) (*Component, error) {
	t := componentType(impl)
	if t == nil {
		return nil, illegal(impl, "nil type")
	}
	switch {
	case t.Kind() == reflect.Interface:
		return nil, illegal(t, "interfaces cannot be instantiated")
	case t.Kind() != reflect.Struct:
		return nil, illegal(t, "only struct types can be components, got %s", t.Kind())
	case embedsAbstract(t):
		return nil, illegal(t, "abstract components cannot be instantiated")
	}

	ctor, err := chooseConstructor(t, ctors)
	if err != nil {
		return nil, err
	}

	levels := embeddingChain(t)
	fields, err := planFields(t, levels)
	if err != nil {
		return nil, err
	}
	methods, err := planMethods(t, levels)
	if err != nil {
		return nil, err
	}

	return &Component{typ: t, ctor: ctor, fields: fields, methods: methods}, nil
}

// Type returns the pointer type of the instances the component produces.
func (c *Component) Type() reflect.Type { return reflect.PointerTo(c.typ) }

// Dependencies returns every key the component needs: constructor parameters,
// then field types, then method parameters, in injection order.
func (c *Component) Dependencies() []reflect.Type {
	deps := slices.Clone(c.ctor.params)
	for _, f := range c.fields {
		deps = append(deps, f.typ)
	}
	for _, m := range c.methods {
		deps = append(deps, m.params...)
	}
	return deps
}

// ── Constructor selection ─────────────────────────────────────────────────────

func chooseConstructor(t reflect.Type, ctors []Constructor) (*constructor, error) {
	var marked, plain []Constructor
	for _, c := range ctors {
		if c.inject {
			marked = append(marked, c)
		} else {
			plain = append(plain, c)
		}
	}

	switch {
	case len(marked) > 1:
		return nil, illegal(t, "%d constructors are marked for injection, expected at most one", len(marked))
	case len(marked) == 1:
		return marked[0].validate(t)
	case len(plain) == 0:
		// No declared constructors: the zero value is the default constructor.
		return &constructor{}, nil
	}

	for _, c := range plain {
		ctor, err := c.validate(t)
		if err != nil {
			return nil, err
		}
		if len(ctor.params) == 0 {
			return ctor, nil
		}
	}
	return nil, illegal(t, "no constructor is marked for injection and none takes zero arguments")
}

// ── Embedding chain ───────────────────────────────────────────────────────────

func embedsAbstract(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.Anonymous && f.Type == abstractType {
			return true
		}
	}
	return false
}

// embeddingChain lists t and every struct it embeds by value, embedded
// structs before their embedder.
func embeddingChain(t reflect.Type) []level {
	var out []level
	var walk func(t reflect.Type, index []int, outer []reflect.Type, readOnly bool)
	walk = func(t reflect.Type, index []int, outer []reflect.Type, readOnly bool) {
		inner := append(slices.Clone(outer), t)
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.Anonymous || f.Type.Kind() != reflect.Struct || f.Type == abstractType {
				continue
			}
			if _, tagged := f.Tag.Lookup(injectTag); tagged {
				continue
			}
			walk(f.Type, append(slices.Clone(index), i), inner, readOnly || !f.IsExported())
		}
		out = append(out, level{typ: t, index: index, outer: outer, readOnly: readOnly})
	}
	walk(t, nil, nil, false)
	return out
}

// ── Fields ────────────────────────────────────────────────────────────────────

func planFields(t reflect.Type, levels []level) ([]injectField, error) {
	var fields []injectField
	for _, lv := range levels {
		for i := 0; i < lv.typ.NumField(); i++ {
			f := lv.typ.Field(i)
			if f.Name == "_" {
				continue
			}
			if _, ok := f.Tag.Lookup(injectTag); !ok {
				continue
			}
			if !f.IsExported() {
				return nil, illegal(t, "field %s.%s is marked for injection but is unexported", lv.typ, f.Name)
			}
			fields = append(fields, injectField{
				declaring: lv.typ,
				name:      f.Name,
				index:     append(slices.Clone(lv.index), i),
				typ:       f.Type,
			})
		}
	}
	return fields, nil
}

// ── Methods ───────────────────────────────────────────────────────────────────

// markedMethods returns the method names listed on blank marker fields of t.
func markedMethods(t reflect.Type) []string {
	var names []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Name != "_" {
			continue
		}
		tag, ok := f.Tag.Lookup(injectTag)
		if !ok {
			continue
		}
		for _, name := range strings.Split(tag, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

func planMethods(t reflect.Type, levels []level) ([]injectMethod, error) {
	var methods []injectMethod
	for _, lv := range levels {
		for _, name := range markedMethods(lv.typ) {
			if overridden(lv, name) {
				continue
			}
			m, ok := reflect.PointerTo(lv.typ).MethodByName(name)
			if !ok {
				return nil, illegal(t, "%s has no exported method %s", lv.typ, name)
			}
			shadowed, ambiguous := promotion(t, lv, name)
			if shadowed {
				continue
			}
			if lv.readOnly {
				// Methods reached through an unexported embed can only be
				// called as promoted methods of the component itself.
				if _, ok := reflect.PointerTo(t).MethodByName(name); ambiguous || !ok {
					return nil, illegal(t, "method %s.%s is embedded unexported and is not promoted to %s", lv.typ, name, t)
				}
			}
			mt := m.Type // receiver is In(0)
			if mt.IsVariadic() {
				return nil, illegal(t, "method %s.%s is variadic", lv.typ, name)
			}
			params := make([]reflect.Type, 0, mt.NumIn()-1)
			for i := 1; i < mt.NumIn(); i++ {
				p := mt.In(i)
				if p.Kind() == reflect.Interface && p.NumMethod() == 0 {
					return nil, illegal(t, "method %s.%s takes an untyped parameter %s", lv.typ, name, p)
				}
				params = append(params, p)
			}
			methods = append(methods, injectMethod{
				declaring: lv.typ,
				name:      name,
				level:     lv.index,
				promoted:  lv.readOnly,
				params:    params,
				errOut:    mt.NumOut() > 0 && mt.Out(mt.NumOut()-1) == errorType,
			})
		}
	}
	return methods, nil
}

// overridden reports whether an embedder of lv marks the same method or
// shadows it with a method of its own.
func overridden(lv level, name string) bool {
	for _, outer := range lv.outer {
		if slices.Contains(markedMethods(outer), name) || declares(outer, name) {
			return true
		}
	}
	return false
}

// promotion looks at the embedded types of t that sit no deeper than lv and
// are not on lv's own path. shadowed is set when a shallower one declares
// name, so the component's promoted method is not lv's; ambiguous when one at
// the same depth does, so the component has no promoted method of that name.
func promotion(t reflect.Type, lv level, name string) (shadowed, ambiguous bool) {
	depth := len(lv.index)
	type node struct {
		typ   reflect.Type
		index []int
	}
	frontier := []node{{typ: t}}
	for d := 1; d <= depth && len(frontier) > 0; d++ {
		var next []node
		for _, n := range frontier {
			for i := 0; i < n.typ.NumField(); i++ {
				f := n.typ.Field(i)
				if !f.Anonymous {
					continue
				}
				index := append(slices.Clone(n.index), i)
				ft := f.Type
				if ft.Kind() == reflect.Pointer && ft.Elem().Kind() == reflect.Struct {
					ft = ft.Elem()
				}
				if slices.Equal(index, lv.index[:d]) {
					// lv's own embedders are handled by overridden.
					next = append(next, node{typ: ft, index: index})
					continue
				}
				if hasOwnMethod(ft, name) {
					if d < depth {
						return true, false
					}
					ambiguous = true
					continue
				}
				if ft.Kind() == reflect.Struct {
					next = append(next, node{typ: ft, index: index})
				}
			}
		}
		frontier = next
	}
	return false, ambiguous
}

func hasOwnMethod(t reflect.Type, name string) bool {
	if t.Kind() == reflect.Interface {
		_, ok := t.MethodByName(name)
		return ok
	}
	return t.Kind() == reflect.Struct && declares(t, name)
}

// declares reports whether t defines the method itself rather than having it
// promoted from an embedded field. Promotion goes through compiler-generated
// wrappers, which carry no source position.
func declares(t reflect.Type, name string) bool {
	for _, rt := range []reflect.Type{t, reflect.PointerTo(t)} {
		m, ok := rt.MethodByName(name)
		if !ok {
			continue
		}
		fn := runtime.FuncForPC(m.Func.Pointer())
		if fn == nil {
			continue
		}
		if file, _ := fn.FileLine(fn.Entry()); file != "<autogenerated>" {
			return true
		}
	}
	return false
}
