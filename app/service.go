package app

import (
	"strings"

	"go.uber.org/zap"

	"github.com/km-arc/go-inject/framework/http/validation"
)

var userRules = validation.Rules{
	"name":  "required|between:2,100",
	"email": "required|email",
}

// UserService holds the user rules. Its collaborators are field-injected.
type UserService struct {
	Users UserRepository `inject:""`
	Log   *zap.Logger    `inject:""`
}

func (s *UserService) List() []User { return s.Users.All() }

func (s *UserService) Get(id int) (User, error) { return s.Users.Find(id) }

func (s *UserService) Create(name, email string) (User, error) {
	name = strings.TrimSpace(name)
	if err := validate(name, email); err != nil {
		return User{}, err
	}
	u := s.Users.Save(User{Name: name, Email: email})
	s.Log.Info("user created", zap.Int("id", u.ID))
	return u, nil
}

func (s *UserService) Update(id int, name, email string) (User, error) {
	if _, err := s.Users.Find(id); err != nil {
		return User{}, err
	}
	name = strings.TrimSpace(name)
	if err := validate(name, email); err != nil {
		return User{}, err
	}
	return s.Users.Save(User{ID: id, Name: name, Email: email}), nil
}

func (s *UserService) Delete(id int) error {
	if err := s.Users.Delete(id); err != nil {
		return err
	}
	s.Log.Info("user deleted", zap.Int("id", id))
	return nil
}

// validate returns validation.Errors when the input breaks userRules.
func validate(name, email string) error {
	return validation.Make(map[string]string{"name": name, "email": email}, userRules).Validate()
}
