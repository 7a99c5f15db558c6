package app

import (
	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/routing"
)

// AppServiceProvider binds the user directory and mounts its routes.
type AppServiceProvider struct {
	container.BaseProvider

	// Seed is loaded into the repository at registration.
	Seed []User
}

func (p *AppServiceProvider) Register(app *container.Container) error {
	if err := container.InstanceOf[UserRepository](app, NewMemoryUserRepository(p.Seed...)); err != nil {
		return err
	}
	if err := container.BindTo[*UserService, *UserService](app); err != nil {
		return err
	}
	return container.BindTo[*UserController, *UserController](app,
		container.InjectConstructor(NewUserController))
}

func (p *AppServiceProvider) Boot(app *container.Container) error {
	router, err := container.Resolve[*routing.Router](app)
	if err != nil {
		return err
	}
	users, err := container.Resolve[*UserController](app)
	if err != nil {
		return err
	}
	router.Prefix("/api", func(api *routing.Router) {
		api.Resource("/users", users)
	})
	return nil
}
