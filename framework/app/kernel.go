package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/logger"
	"github.com/km-arc/go-inject/framework/providers"
	"github.com/km-arc/go-inject/framework/routing"
)

// Application is the top-level application container.
// It embeds the Container and ProviderRegistry so user code can
// call app.Bind(), app.Instance(), app.Register() directly —
// exactly like $app in Laravel's bootstrap/app.php.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	config *config.Config
	log    *zap.Logger
}

// New loads configuration from envFiles (default .env), builds the logger and
// registers the framework providers.
func New(envFiles ...string) (*Application, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.App.Env, cfg.App.Debug).With(zap.String("app", cfg.App.Name))
	logger.Set(log)
	return NewWithConfig(cfg, log)
}

// NewWithConfig is New for an already loaded configuration.
func NewWithConfig(cfg *config.Config, log *zap.Logger) (*Application, error) {
	c := container.New(container.WithLogger(log.Named("container")))
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
		config:    cfg,
		log:       log,
	}

	// Framework core providers, same order as Laravel
	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LogServiceProvider{Logger: log},
		&providers.RoutingServiceProvider{Logger: log.Named("http")},
		&providers.MetricsServiceProvider{},
		&providers.ContainerServiceProvider{},
	}
	for _, p := range core {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers, then validates the whole
// dependency graph when Container.Check is enabled.
func (a *Application) Boot() error {
	if err := a.Providers.Boot(); err != nil {
		return err
	}
	if a.config.Container.Check {
		if err := a.Check(); err != nil {
			return fmt.Errorf("dependency check failed: %w", err)
		}
		a.log.Debug("dependency graph checked", zap.Int("bindings", len(a.Keys())))
	}
	return nil
}

// Config returns the loaded configuration.
func (a *Application) Config() *config.Config { return a.config }

// Logger returns the application logger.
func (a *Application) Logger() *zap.Logger { return a.log }

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container)
}

// Run boots the application (if needed) and serves HTTP until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:         ":" + a.config.App.Port,
		Handler:      a.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("starting web server",
			zap.String("addr", srv.Addr),
			zap.String("env", a.config.App.Env))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.config.App.Env }
func (a *Application) IsLocal() bool       { return a.config.App.IsLocal() }
func (a *Application) IsProduction() bool  { return a.config.App.IsProduction() }
func (a *Application) IsTesting() bool     { return a.config.App.IsTesting() }
func (a *Application) IsDebug() bool       { return a.config.App.Debug }
func (a *Application) Version() string     { return "0.1.0" }
