package container

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider mirrors Laravel's Illuminate\Support\ServiceProvider.
//
// Every provider must implement at minimum Register().
// Boot() is called after ALL providers have been registered, making it safe
// to resolve other bindings inside Boot().
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    return container.BindTo[Mailer, *SmtpMailer](app)
//	}
//
//	func (p *AppServiceProvider) Boot(app *container.Container) error {
//	    log, err := container.Resolve[*zap.Logger](app)
//	    if err != nil {
//	        return err
//	    }
//	    log.Info("Application booted")
//	    return nil
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here — use Boot() for that.
	Register(app *Container) error

	// Boot is called after all providers are registered.
	// Safe to resolve and use any binding here.
	Boot(app *Container) error

	// Provides returns the keys this provider registers.
	// Used for deferred (lazy) provider loading.
	Provides() []reflect.Type

	// IsDeferred returns true if this provider should be loaded lazily —
	// only when one of its Provides() keys is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred().
//
//	type MyProvider struct{ container.BaseProvider }
//	func (p *MyProvider) Register(app *container.Container) error { ... }
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error  { return nil }
func (p *BaseProvider) Provides() []reflect.Type { return nil }
func (p *BaseProvider) IsDeferred() bool         { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred (lazy) providers.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	registered map[ServiceProvider]bool
	loaded     map[ServiceProvider]bool // deferred providers already registered
	booted     bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
		loaded:     make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register() method (unless deferred).
//
//	// Laravel: $app->register(new AppServiceProvider($app))
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true
	booted := r.booted
	r.mu.Unlock()

	if provider.IsDeferred() {
		// Placeholders stand in for each key until the first Get loads the provider.
		for _, key := range provider.Provides() {
			r.app.Provide(key, &deferredProvider{registry: r, provider: provider, key: key})
		}
		return nil
	}

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("container: registering %T: %w", provider, err)
	}
	r.mu.Lock()
	r.eager = append(r.eager, provider)
	r.mu.Unlock()

	// If already booted, boot this provider immediately
	if booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("container: booting %T: %w", provider, err)
		}
	}
	return nil
}

// load registers (and boots, if the registry is booted) a deferred provider
// the first time one of its keys is resolved.
func (r *ProviderRegistry) load(provider ServiceProvider) error {
	r.mu.Lock()
	if r.loaded[provider] {
		r.mu.Unlock()
		return nil
	}
	r.loaded[provider] = true
	booted := r.booted
	r.mu.Unlock()

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("container: registering deferred %T: %w", provider, err)
	}
	if booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("container: booting deferred %T: %w", provider, err)
		}
	}
	return nil
}

// Boot calls Boot() on all eager providers. Every provider is booted even if
// an earlier one fails; the failures are joined.
//
//	// Laravel: $app->boot()
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	eager := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	var errs []error
	for _, provider := range eager {
		if err := provider.Boot(r.app); err != nil {
			errs = append(errs, fmt.Errorf("container: booting %T: %w", provider, err))
		}
	}
	return errors.Join(errs...)
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}

// ── Deferred placeholder ──────────────────────────────────────────────────────

// deferredProvider is bound in place of each key a deferred provider offers.
// Its real dependencies are unknown until the provider registers, so Check
// treats it as a leaf.
type deferredProvider struct {
	registry *ProviderRegistry
	provider ServiceProvider
	key      reflect.Type
}

func (p *deferredProvider) Dependencies() []reflect.Type { return nil }

func (p *deferredProvider) Provide(r Resolver) (reflect.Value, error) {
	if err := p.registry.load(p.provider); err != nil {
		return reflect.Value{}, err
	}

	c := p.registry.app
	c.mu.RLock()
	bound, ok := c.providers[c.canonical(p.key)]
	c.mu.RUnlock()
	if !ok || bound == Provider(p) {
		return reflect.Value{}, fmt.Errorf("container: deferred %T did not bind [%s]", p.provider, keyName(p.key))
	}
	// Called directly: the key is already on the resolution path.
	return bound.Provide(r)
}
