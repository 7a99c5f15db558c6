package container

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrIllegalComponent   = errors.New("illegal component")
	ErrDependencyNotFound = errors.New("dependency not found")
	ErrCyclicDependency   = errors.New("cyclic dependency")
	ErrNotBound           = errors.New("no binding registered")
)

// IllegalComponentError reports a type that can never be built by the
// container. It is raised while the component is described, before any
// instance exists.
type IllegalComponentError struct {
	Component reflect.Type
	Reason    string
}

func (e *IllegalComponentError) Error() string {
	return fmt.Sprintf("container: illegal component [%s]: %s", keyName(e.Component), e.Reason)
}

func (e *IllegalComponentError) Is(target error) bool { return target == ErrIllegalComponent }

func illegal(t reflect.Type, format string, args ...any) error {
	return &IllegalComponentError{Component: t, Reason: fmt.Sprintf(format, args...)}
}

// DependencyNotFoundError names the component whose dependency could not be
// resolved and the missing key.
type DependencyNotFoundError struct {
	Component  reflect.Type
	Dependency reflect.Type
}

func (e *DependencyNotFoundError) Error() string {
	return fmt.Sprintf("container: [%s] depends on [%s], which is not bound",
		keyName(e.Component), keyName(e.Dependency))
}

func (e *DependencyNotFoundError) Is(target error) bool { return target == ErrDependencyNotFound }

// CyclicDependencyError carries the cycle in resolution order; the first and
// last entries are the same key.
type CyclicDependencyError struct {
	Components []reflect.Type
}

func (e *CyclicDependencyError) Error() string {
	names := make([]string, len(e.Components))
	for i, t := range e.Components {
		names[i] = keyName(t)
	}
	return "container: cyclic dependency " + strings.Join(names, " -> ")
}

func (e *CyclicDependencyError) Is(target error) bool { return target == ErrCyclicDependency }

// ConstructionError wraps an error returned by a constructor, factory or
// injection method.
type ConstructionError struct {
	Component reflect.Type
	Err       error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("container: building [%s]: %v", keyName(e.Component), e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }
