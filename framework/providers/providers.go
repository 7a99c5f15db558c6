// Package providers holds the framework's core service providers. The
// application kernel registers them in order before any user provider.
package providers

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/container"
	gohttp "github.com/km-arc/go-inject/framework/http"
	"github.com/km-arc/go-inject/framework/metrics"
	"github.com/km-arc/go-inject/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the loaded configuration.
//
// Bound keys:
//   - *config.Config
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->instance('config', $config);
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	if p.Config == nil {
		return errors.New("no configuration loaded")
	}
	return container.InstanceOf(app, p.Config)
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider binds the application logger.
//
// Bound keys:
//   - *zap.Logger
type LogServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LogServiceProvider) Register(app *container.Container) error {
	return container.InstanceOf(app, p.Logger)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router. The router is shared, so
// it is bound as an instance rather than built per Get.
//
// Bound keys:
//   - *routing.Router
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RoutingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	return container.InstanceOf(app, routing.New(p.Logger))
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider counts resolutions and serves them on the configured
// metrics path.
//
// Bound keys:
//   - *metrics.Resolutions
//
// Configuration read at Boot:
//   - Metrics.Enabled, Metrics.Path
type MetricsServiceProvider struct {
	container.BaseProvider
}

func (p *MetricsServiceProvider) Register(app *container.Container) error {
	return container.InstanceOf(app, metrics.New(prometheus.NewRegistry()))
}

func (p *MetricsServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.Resolve[*config.Config](app)
	if err != nil {
		return err
	}
	if !cfg.Metrics.Enabled {
		return nil
	}
	m, err := container.Resolve[*metrics.Resolutions](app)
	if err != nil {
		return err
	}
	router, err := container.Resolve[*routing.Router](app)
	if err != nil {
		return err
	}
	app.AfterResolving(m.Observe)
	router.Get(cfg.Metrics.Path, m.Handler())
	return nil
}

// ── ContainerServiceProvider ──────────────────────────────────────────────────

// ContainerServiceProvider mounts GET /_container when
// Container.DebugRoutes is enabled. The route lists every binding with its
// dependency keys.
type ContainerServiceProvider struct {
	container.BaseProvider
}

func (p *ContainerServiceProvider) Register(*container.Container) error { return nil }

func (p *ContainerServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.Resolve[*config.Config](app)
	if err != nil {
		return err
	}
	if !cfg.Container.DebugRoutes {
		return nil
	}
	router, err := container.Resolve[*routing.Router](app)
	if err != nil {
		return err
	}
	router.Get("/_container", BindingsHandler(app))
	return nil
}

// Binding describes one key for the debug route.
type Binding struct {
	Key          string   `json:"key"`
	Dependencies []string `json:"dependencies"`
}

// Bindings snapshots every key bound in c, sorted by name.
func Bindings(c *container.Container) []Binding {
	keys := c.Keys()
	out := make([]Binding, 0, len(keys))
	for _, key := range keys {
		deps, _ := c.Dependencies(key)
		out = append(out, Binding{Key: key.String(), Dependencies: names(deps)})
	}
	return out
}

// BindingsHandler serves Bindings(c) once c passes Check, and the check
// failure otherwise.
func BindingsHandler(c *container.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		res := gohttp.NewResponse(w)
		if err := c.Check(); err != nil {
			res.ResolutionError(err)
			return
		}
		res.Success(map[string]any{"check": "ok", "bindings": Bindings(c)})
	}
}

func names(keys []reflect.Type) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}
