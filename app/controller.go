package app

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	gohttp "github.com/km-arc/go-inject/framework/http"
	"github.com/km-arc/go-inject/framework/http/validation"
)

// UserController serves /api/users. The service arrives through the
// constructor and the logger through UseLogger.
type UserController struct {
	_ struct{} `inject:"UseLogger"`

	users *UserService
	log   *zap.Logger
}

func NewUserController(users *UserService) *UserController {
	return &UserController{users: users}
}

func (c *UserController) UseLogger(log *zap.Logger) {
	c.log = log.Named("users")
}

type userPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (c *UserController) Index(w http.ResponseWriter, r *http.Request) {
	gohttp.NewResponse(w).Success(c.users.List())
}

func (c *UserController) Store(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	var body userPayload
	if err := gohttp.NewRequest(r).Bind(&body); err != nil {
		res.Error(http.StatusBadRequest, err.Error())
		return
	}
	u, err := c.users.Create(body.Name, body.Email)
	if err != nil {
		c.fail(res, err)
		return
	}
	res.Created(u)
}

func (c *UserController) Show(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	id, ok := routeID(res, r)
	if !ok {
		return
	}
	u, err := c.users.Get(id)
	if err != nil {
		c.fail(res, err)
		return
	}
	res.Success(u)
}

func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	id, ok := routeID(res, r)
	if !ok {
		return
	}
	var body userPayload
	if err := gohttp.NewRequest(r).Bind(&body); err != nil {
		res.Error(http.StatusBadRequest, err.Error())
		return
	}
	u, err := c.users.Update(id, body.Name, body.Email)
	if err != nil {
		c.fail(res, err)
		return
	}
	res.Success(u)
}

func (c *UserController) Destroy(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	id, ok := routeID(res, r)
	if !ok {
		return
	}
	if err := c.users.Delete(id); err != nil {
		c.fail(res, err)
		return
	}
	res.NoContent()
}

func (c *UserController) fail(res *gohttp.Response, err error) {
	var invalid validation.Errors
	switch {
	case errors.As(err, &invalid):
		res.ValidationError(invalid)
	case errors.Is(err, ErrUserNotFound):
		res.NotFound("User not found.")
	default:
		c.log.Error("user request failed", zap.Error(err))
		res.ServerError()
	}
}

func routeID(res *gohttp.Response, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(gohttp.NewRequest(r).RouteParam("id"))
	if err != nil {
		res.NotFound("User not found.")
		return 0, false
	}
	return id, true
}
