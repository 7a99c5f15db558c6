// Package container provides a reflection-based dependency injection engine
// and the Service Provider system built on it.
//
// # Overview
//
// Bindings map a key (a reflect.Type) to a pre-built instance, a factory
// func, or an implementation struct. Implementations are described once when
// bound: the container picks a constructor, collects injectable fields and
// methods across embedded structs, and rejects types it could never build.
// Resolving a key builds its whole dependency graph depth-first and reports
// missing bindings and cycles with the full path.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot()        — safe to resolve everything after this
//  4. Check: ctx, err := c.Context() — validates the graph without building it
//  5. Serve requests
//
// # Injection points
//
//	type Mailer struct {
//	    _ struct{} `inject:"UseTransport"` // injectable methods of this struct
//
//	    Log       *zap.Logger `inject:""`  // field injection
//	    transport Transport
//	    from      string
//	}
//
//	func NewMailer(cfg *config.Config) *Mailer { return &Mailer{from: cfg.Mail.From} }
//	func (m *Mailer) UseTransport(t Transport) { m.transport = t }
//
//	c.Bind(container.TypeOf[*Mailer](), container.TypeOf[*Mailer](),
//	    container.InjectConstructor(NewMailer))
//
// Constructors run first, then fields are assigned, then methods are called,
// so a constructor never sees a half-injected value. Without a declared
// constructor the zero value is allocated.
//
// Structs embedded by value act as base types: their fields and methods are
// injected before the embedder's. A method marked on a base is skipped when
// the embedder marks it again or shadows it with its own method.
//
// # Bindings
//
//	// Implementation — built on every Get
//	// Laravel: $app->bind(Repo::class, EloquentRepo::class)
//	container.BindTo[Repo, *EloquentRepo](c)
//
//	// Pre-built value
//	// Laravel: $app->instance(Config::class, $config)
//	container.InstanceOf[*config.Config](c, cfg)
//
//	// Factory func — parameters are dependencies
//	c.Factory(container.TypeOf[Cache](), func(cfg *config.Config) (Cache, error) { ... })
//
//	// Alias
//	// Laravel: $app->alias(Cache::class, 'cache')
//	c.Alias(container.TypeOf[*RedisCache](), container.TypeOf[Cache]())
//
// # Resolving
//
//	repo, err := container.Resolve[Repo](c)
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    return container.BindTo[Repo, *EloquentRepo](app)
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// # Concurrency
//
// Registration and lookups are guarded by the container's lock, which is
// never held while constructors run. Cycle tracking belongs to each root Get
// call, so concurrent Gets do not interfere with each other.
package container
