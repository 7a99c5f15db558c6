package container

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the binding registry, mirroring the registration half of
// Laravel's Illuminate\Container\Container with reflect.Type keys.
//
// It supports:
//   - Bind (construct an implementation on demand)
//   - Instance (pre-built value)
//   - Factory (func whose parameters are dependencies)
//   - Alias
//   - Check (validate the whole graph without building anything)
//   - Resolved event callbacks
//
// There are no scopes: every Get of a Bind or Factory key builds a new
// object graph. Share objects by binding them with Instance.
type Container struct {
	mu sync.RWMutex

	// key → provider
	providers map[reflect.Type]Provider

	// alias → aliased key; chains are followed on lookup
	aliases map[reflect.Type]reflect.Type

	// resolved callbacks: []func(key, instance, err)
	afterResolving []func(reflect.Type, any, error)

	log *zap.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for binding and resolution events.
func WithLogger(log *zap.Logger) Option {
	return func(c *Container) { c.log = log }
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		providers: make(map[reflect.Type]Provider),
		aliases:   make(map[reflect.Type]reflect.Type),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	// Bind the container to itself — like Laravel's $app->instance()
	c.providers[TypeOf[*Container]()] = &instanceProvider{value: reflect.ValueOf(c)}
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers impl as the implementation of key. The component is
// described and validated immediately, so an illegal type fails here rather
// than on first use.
//
//	// Laravel: $app->bind(UserRepository::class, EloquentUserRepository::class)
//	err := c.Bind(container.TypeOf[UserRepository](), container.TypeOf[*EloquentUserRepository](),
//	    container.InjectConstructor(NewEloquentUserRepository))
func (c *Container) Bind(key, impl reflect.Type, ctors ...Constructor) error {
	if key == nil {
		return fmt.Errorf("container: nil key")
	}
	component, err := NewComponent(impl, ctors...)
	if err != nil {
		return err
	}
	if !component.Type().AssignableTo(key) {
		return fmt.Errorf("container: %s cannot be bound to [%s]", component.Type(), keyName(key))
	}
	c.Provide(key, NewInjectionProvider(component))
	return nil
}

// Instance registers a pre-built value. Every Get of key returns it as is;
// nothing is injected into it.
//
//	// Laravel: $app->instance(Config::class, $config)
//	err := c.Instance(container.TypeOf[*config.Config](), cfg)
func (c *Container) Instance(key reflect.Type, instance any) error {
	if key == nil {
		return fmt.Errorf("container: nil key")
	}
	v := reflect.ValueOf(instance)
	if !v.IsValid() {
		v = reflect.Zero(key)
	}
	if !v.Type().AssignableTo(key) {
		return fmt.Errorf("container: %s cannot be bound to [%s]", v.Type(), keyName(key))
	}
	c.Provide(key, &instanceProvider{value: v})
	return nil
}

// Factory registers fn as the builder of key. fn's parameters are resolved
// from the container and it returns the value or (value, error).
//
//	// Laravel: $app->bind(Mailer::class, fn($app) => new SmtpMailer($app['config']))
//	err := c.Factory(container.TypeOf[Mailer](), func(cfg *config.Config) (Mailer, error) {
//	    return smtp.New(cfg.Mail)
//	})
func (c *Container) Factory(key reflect.Type, fn any) error {
	if key == nil {
		return fmt.Errorf("container: nil key")
	}
	p, err := newFactoryProvider(key, fn)
	if err != nil {
		return err
	}
	c.Provide(key, p)
	return nil
}

// Provide registers a custom Provider for key, replacing any previous binding.
func (c *Container) Provide(key reflect.Type, p Provider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers[c.canonical(key)] = p
	c.log.Debug("binding registered",
		zap.Stringer("key", key),
		zap.Int("dependencies", len(p.Dependencies())))
}

// Alias registers an alternative key for an existing one. Both keys then
// resolve through the same binding.
//
//	// Laravel: $app->alias(Cache::class, 'cache')
//	err := c.Alias(container.TypeOf[*RedisCache](), container.TypeOf[Cache]())
func (c *Container) Alias(key, alias reflect.Type) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == alias {
		return fmt.Errorf("container: [%s] is aliased to itself", keyName(key))
	}
	if followAliases(c.aliases, key) == alias {
		return fmt.Errorf("container: aliasing [%s] to [%s] would form a cycle", keyName(alias), keyName(key))
	}
	c.aliases[alias] = key
	return nil
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get builds the instance bound to key without running Check first. An
// unbound key yields an error matching ErrNotBound.
//
//	// Laravel: $app->make(UserRepository::class)
//	repo, err := c.Get(container.TypeOf[UserRepository]())
func (c *Container) Get(key reflect.Type) (any, error) {
	r := &resolution{container: c}
	v, found, err := r.Resolve(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("container: [%s]: %w", keyName(key), ErrNotBound)
	}
	return v.Interface(), nil
}

// Context runs Check and returns the read path over the validated bindings.
func (c *Container) Context() (*Context, error) {
	if err := c.Check(); err != nil {
		return nil, err
	}
	return &Context{container: c}, nil
}

// Context is the resolution read path handed out once the container's
// graph has passed Check.
type Context struct {
	container *Container
}

// Get builds the instance bound to key.
func (x *Context) Get(key reflect.Type) (any, error) {
	return x.container.Get(key)
}

// resolution is one root Get call. path holds the keys whose providers are
// currently on the stack; reentering one of them is a cycle.
type resolution struct {
	container *Container
	path      []reflect.Type
}

func (r *resolution) Resolve(key reflect.Type) (reflect.Value, bool, error) {
	c := r.container
	c.mu.RLock()
	key = c.canonical(key)
	p, ok := c.providers[key]
	c.mu.RUnlock()
	if !ok {
		return reflect.Value{}, false, nil
	}

	if i := slices.Index(r.path, key); i >= 0 {
		cycle := append(slices.Clone(r.path[i:]), key)
		return reflect.Value{}, true, &CyclicDependencyError{Components: cycle}
	}

	r.path = append(r.path, key)
	defer func() { r.path = r.path[:len(r.path)-1] }()

	v, err := p.Provide(r)
	c.fireAfterResolving(key, v, err)
	if err != nil {
		return reflect.Value{}, true, err
	}
	c.log.Debug("resolved", zap.Stringer("key", key), zap.Int("depth", len(r.path)))
	return v, true, nil
}

// ── Pre-flight check ──────────────────────────────────────────────────────────

// Check walks every binding's dependency set and reports the first missing
// dependency or cycle, without instantiating anything. Keys are visited in
// name order so the reported error is stable.
func (c *Container) Check() error {
	c.mu.RLock()
	providers := make(map[reflect.Type]Provider, len(c.providers))
	for k, p := range c.providers {
		providers[k] = p
	}
	aliases := make(map[reflect.Type]reflect.Type, len(c.aliases))
	for k, v := range c.aliases {
		aliases[k] = v
	}
	c.mu.RUnlock()


	done := make(map[reflect.Type]bool, len(providers))
	var visit func(key reflect.Type, path []reflect.Type) error
	visit = func(key reflect.Type, path []reflect.Type) error {
		if done[key] {
			return nil
		}
		path = append(path, key)
		for _, dep := range providers[key].Dependencies() {
			dep = followAliases(aliases, dep)
			if _, ok := providers[dep]; !ok {
				return &DependencyNotFoundError{Component: key, Dependency: dep}
			}
			if i := slices.Index(path, dep); i >= 0 {
				return &CyclicDependencyError{Components: append(slices.Clone(path[i:]), dep)}
			}
			if err := visit(dep, path); err != nil {
				return err
			}
		}
		done[key] = true
		return nil
	}

	for _, key := range sortKeys(providers) {
		if err := visit(key, nil); err != nil {
			return err
		}
	}
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound returns true if key (or an alias of it) has been registered.
//
//	// Laravel: $app->bound(UserRepository::class)
func (c *Container) Bound(key reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.providers[c.canonical(key)]
	return ok
}

// Dependencies returns the static dependency set of the binding for key.
func (c *Container) Dependencies(key reflect.Type) ([]reflect.Type, bool) {
	c.mu.RLock()
	p, ok := c.providers[c.canonical(key)]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return p.Dependencies(), true
}

// Forget removes the binding for key.
//
//	// Laravel: $app->offsetUnset(Cache::class)
func (c *Container) Forget(key reflect.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.providers, c.canonical(key))
}

// Keys returns all bound keys sorted by name (for debugging).
func (c *Container) Keys() []reflect.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortKeys(c.providers)
}

func sortKeys(providers map[reflect.Type]Provider) []reflect.Type {
	keys := make([]reflect.Type, 0, len(providers))
	for k := range providers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// canonical resolves an alias to its canonical key (must hold mu).
func (c *Container) canonical(key reflect.Type) reflect.Type {
	return followAliases(c.aliases, key)
}

// followAliases walks an alias chain to its end. Alias refuses cycles, so
// the walk terminates.
func followAliases(aliases map[reflect.Type]reflect.Type, key reflect.Type) reflect.Type {
	for {
		target, ok := aliases[key]
		if !ok {
			return key
		}
		key = target
	}
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired each time a provider finishes,
// for the root key and every nested dependency. On failure instance is nil
// and err is set.
//
//	// Laravel: $app->afterResolving(fn($object, $app) => ...)
func (c *Container) AfterResolving(cb func(key reflect.Type, instance any, err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(key reflect.Type, v reflect.Value, err error) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	if len(cbs) == 0 {
		return
	}
	var instance any
	if err == nil && v.IsValid() {
		instance = v.Interface()
	}
	for _, cb := range cbs {
		cb(key, instance, err)
	}
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Getter is satisfied by both *Container and *Context.
type Getter interface {
	Get(key reflect.Type) (any, error)
}

// Resolve builds the instance bound to TypeOf[T]() and type-asserts it.
//
//	// Instead of: v, err := c.Get(container.TypeOf[*gorm.DB]()); db := v.(*gorm.DB)
//	// Write:      db, err := container.Resolve[*gorm.DB](c)
func Resolve[T any](g Getter) (T, error) {
	var zero T
	instance, err := g.Get(TypeOf[T]())
	if err != nil {
		return zero, err
	}
	if instance == nil {
		return zero, nil
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%s]: resolved to %T", TypeOf[T](), instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](g Getter) T {
	typed, err := Resolve[T](g)
	if err != nil {
		panic(err)
	}
	return typed
}

// BindTo binds implementation I to key K.
//
//	err := container.BindTo[UserRepository, *EloquentUserRepository](c)
func BindTo[K, I any](c *Container, ctors ...Constructor) error {
	return c.Bind(TypeOf[K](), TypeOf[I](), ctors...)
}

// InstanceOf binds v to key K.
func InstanceOf[K any](c *Container, v K) error {
	return c.Instance(TypeOf[K](), v)
}
