package container_test

import (
	"errors"

	"github.com/km-arc/go-inject/framework/container"
)

// ── shared keys ───────────────────────────────────────────────────────────────

type Dependency interface{ Name() string }

type Component interface{ Dependency() Dependency }

type namedDependency struct{ name string }

func (d *namedDependency) Name() string { return d.name }

// ── constructor injection ─────────────────────────────────────────────────────

type ComponentWithDefaultConstructor struct{}

func (c *ComponentWithDefaultConstructor) Dependency() Dependency { return nil }

type ComponentWithInjectConstructor struct{ dep Dependency }

func NewComponentWithInjectConstructor(dep Dependency) *ComponentWithInjectConstructor {
	return &ComponentWithInjectConstructor{dep: dep}
}

func (c *ComponentWithInjectConstructor) Dependency() Dependency { return c.dep }

// DependencyWithInjectConstructor is itself built from a string binding.
type DependencyWithInjectConstructor struct{ upstream string }

func NewDependencyWithInjectConstructor(upstream string) *DependencyWithInjectConstructor {
	return &DependencyWithInjectConstructor{upstream: upstream}
}

func (d *DependencyWithInjectConstructor) Name() string { return d.upstream }

type ComponentWithPlainConstructors struct{ origin string }

func newComponentFromString(s string) *ComponentWithPlainConstructors {
	return &ComponentWithPlainConstructors{origin: s}
}

func newDefaultComponent() *ComponentWithPlainConstructors {
	return &ComponentWithPlainConstructors{origin: "default"}
}

type AbstractComponent struct {
	container.Abstract
	Dependency Dependency `inject:""`
}

// ConcreteComponent embeds an abstract base and is itself buildable.
type ConcreteComponent struct {
	AbstractComponent
}

var errBoom = errors.New("boom")

type FailingComponent struct{}

func NewFailingComponent() (*FailingComponent, error) { return nil, errBoom }

// ── field injection ───────────────────────────────────────────────────────────

type ComponentWithFieldInjection struct {
	Dependency Dependency `inject:""`
}

type SubclassWithFieldInjection struct {
	ComponentWithFieldInjection
}

type SubclassWithOwnField struct {
	ComponentWithFieldInjection
	Label string `inject:""`
}

type FinalInjectField struct {
	dependency Dependency `inject:""`
}

// ── method injection ──────────────────────────────────────────────────────────

type InjectMethodWithNoDependency struct {
	_ struct{} `inject:"Install"`

	Called bool
}

func (c *InjectMethodWithNoDependency) Install() { c.Called = true }

type InjectMethodWithDependency struct {
	_ struct{} `inject:"Install"`

	Dep Dependency
}

func (c *InjectMethodWithDependency) Install(dep Dependency) { c.Dep = dep }

type SuperClassWithInjectMethod struct {
	_ struct{} `inject:"Install"`

	SuperCalled int
}

func (s *SuperClassWithInjectMethod) Install() { s.SuperCalled++ }

type SubclassWithInjectMethod struct {
	SuperClassWithInjectMethod
	_ struct{} `inject:"InstallAnother"`

	SubCalled int
}

func (s *SubclassWithInjectMethod) InstallAnother() { s.SubCalled = s.SuperCalled + 1 }

type SubclassOverrideSuperClassWithInject struct {
	SuperClassWithInjectMethod
	_ struct{} `inject:"Install"`
}

func (s *SubclassOverrideSuperClassWithInject) Install() { s.SuperClassWithInjectMethod.Install() }

type SubclassOverrideSuperClassWithNoInject struct {
	SuperClassWithInjectMethod
}

func (s *SubclassOverrideSuperClassWithNoInject) Install() { s.SuperClassWithInjectMethod.Install() }

type InjectMethodWithUntypedParameter struct {
	_ struct{} `inject:"Install"`
}

func (c *InjectMethodWithUntypedParameter) Install(v any) {}

type InjectMethodVariadic struct {
	_ struct{} `inject:"Install"`
}

func (c *InjectMethodVariadic) Install(deps ...Dependency) {}

type InjectMethodMissing struct {
	_ struct{} `inject:"Install"`
}

type InjectMethodFailing struct {
	_ struct{} `inject:"Install"`
}

func (c *InjectMethodFailing) Install() error { return errBoom }

// ── unexported and sibling embeds ─────────────────────────────────────────────

type installBase struct {
	_ struct{} `inject:"Install"`

	Dep       Dependency `inject:""`
	Installed Dependency
}

func (b *installBase) Install(dep Dependency) { b.Installed = dep }

type ComponentWithUnexportedBase struct{ installBase }

type markedInstaller struct {
	_ struct{} `inject:"Install"`
}

func (*markedInstaller) Install() {}

type otherInstaller struct{}

func (*otherInstaller) Install() {}

// ComponentWithAmbiguousInstall has no promoted Install: both embeds declare
// it at the same depth.
type ComponentWithAmbiguousInstall struct {
	markedInstaller
	otherInstaller
}

type DeepInstaller struct{ SuperClassWithInjectMethod }

type ShallowInstaller struct{ Calls int }

func (s *ShallowInstaller) Install() { s.Calls++ }

// ComponentWithShadowingSibling promotes ShallowInstaller.Install, which sits
// above the marked SuperClassWithInjectMethod.Install.
type ComponentWithShadowingSibling struct {
	DeepInstaller
	ShallowInstaller
}

// ── ordering ──────────────────────────────────────────────────────────────────

// Recorder collects the order in which injection steps ran.
type Recorder struct{ Steps []string }

type OrderedBase struct {
	_ struct{} `inject:"Setup"`

	Log *Recorder `inject:""`
}

func (b *OrderedBase) Setup() { b.Log.Steps = append(b.Log.Steps, "base.Setup") }

type OrderedComponent struct {
	OrderedBase
	_ struct{} `inject:"Configure"`

	Dep  Dependency `inject:""`
	name string
}

func NewOrderedComponent(r *Recorder, name string) *OrderedComponent {
	r.Steps = append(r.Steps, "constructor")
	return &OrderedComponent{name: name}
}

func (c *OrderedComponent) Configure(dep Dependency, r *Recorder) {
	r.Steps = append(r.Steps, "Configure")
}

// ── cycles ────────────────────────────────────────────────────────────────────

type ServiceA interface{ A() }
type ServiceB interface{ B() }
type ServiceC interface{ C() }
type Root interface{ R() }

type serviceA struct {
	B ServiceB `inject:""`
}

func (*serviceA) A() {}

type serviceB struct{ a ServiceA }

func newServiceB(a ServiceA) *serviceB { return &serviceB{a: a} }

func (*serviceB) B() {}

type serviceBViaC struct {
	C ServiceC `inject:""`
}

func (*serviceBViaC) B() {}

type serviceC struct {
	_ struct{} `inject:"Use"`
	a ServiceA
}

func (c *serviceC) Use(a ServiceA) { c.a = a }
func (*serviceC) C()               {}

type root struct {
	A ServiceA `inject:""`
}

func (*root) R() {}

// Diamond uses the same dependency twice; that is not a cycle.
type Diamond struct {
	First  Dependency `inject:""`
	Second Dependency `inject:""`
}
