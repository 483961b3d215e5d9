// Package builtins is where the interpreter finds the functions it can call.
//
// Each module of built-ins can say which names it has and look one up. Modules are
// composed left to right, and the first module that has a name wins. The Registry is
// built once at startup and never changes again, so any number of interpreters can
// share it.
package builtins

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tim-hardcastle/scanscript/source/register"
	"github.com/tim-hardcastle/scanscript/source/set"
	"github.com/tim-hardcastle/scanscript/source/values"
)

// A Function returns either a value or an error, which should be an *fnerr.FnError.
// It mustn't keep hold of the Register after it returns, nor write into anything it
// got from it other than through the args getters, which hand out copies of data.
type Function func(ctx context.Context, reg *register.Register) (values.Value, error)

type Module interface {
	Name() string
	Lookup(name string) (Function, bool)
	Names() []string
}

// A Table is the simplest sort of module: a map.
type Table struct {
	name      string
	functions map[string]Function
}

func NewTable(name string, functions map[string]Function) *Table {
	return &Table{name: name, functions: functions}
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) Lookup(name string) (Function, bool) {
	f, ok := t.functions[name]
	return f, ok
}

func (t *Table) Names() []string {
	result := make([]string, 0, len(t.functions))
	for k := range t.functions {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}

// A cascade asks each of its modules in turn.
type cascade struct {
	name    string
	modules []Module
}

func Cascade(name string, modules ...Module) Module {
	return &cascade{name: name, modules: modules}
}

func (c *cascade) Name() string {
	return c.name
}

func (c *cascade) Lookup(name string) (Function, bool) {
	for _, m := range c.modules {
		if f, ok := m.Lookup(name); ok {
			return f, true
		}
	}
	return nil, false
}

func (c *cascade) Names() []string {
	seen := set.Set[string]{}
	for _, m := range c.modules {
		for _, n := range m.Names() {
			seen.Add(n)
		}
	}
	result := seen.ToSlice()
	sort.Strings(result)
	return result
}

// A Collision is a name defined by more than one module. Lookup goes to Winner.
type Collision struct {
	Function string
	Winner   string
	Shadowed []string
}

func (c Collision) String() string {
	return fmt.Sprintf("function '%s' is defined in %s and also in %s, which will never be called",
		c.Function, c.Winner, strings.Join(c.Shadowed, ", "))
}

type Registry struct {
	root       Module
	owner      map[string]string
	collisions []Collision
}

// New builds the registry from modules in order of precedence. Name collisions are
// allowed but are logged, and can be inspected with Collisions.
func New(log logrus.FieldLogger, modules ...Module) *Registry {
	r := build(modules)
	for _, c := range r.collisions {
		log.WithFields(logrus.Fields{
			"function": c.Function,
			"winner":   c.Winner,
			"shadowed": strings.Join(c.Shadowed, ","),
		}).Warn("built-in function name collision")
	}
	return r
}

// NewStrict is New but fails on the first collision.
func NewStrict(modules ...Module) (*Registry, error) {
	r := build(modules)
	if len(r.collisions) > 0 {
		return nil, fmt.Errorf("can't build function registry: %s", r.collisions[0])
	}
	return r, nil
}

func build(modules []Module) *Registry {
	r := &Registry{root: Cascade("builtins", modules...), owner: map[string]string{}}
	shadowed := map[string][]string{}
	order := []string{}
	for _, m := range modules {
		for _, n := range m.Names() {
			if _, ok := r.owner[n]; ok {
				if shadowed[n] == nil {
					order = append(order, n)
				}
				shadowed[n] = append(shadowed[n], m.Name())
				continue
			}
			r.owner[n] = m.Name()
		}
	}
	for _, n := range order {
		r.collisions = append(r.collisions, Collision{Function: n, Winner: r.owner[n], Shadowed: shadowed[n]})
	}
	return r
}

func (r *Registry) Lookup(name string) (Function, bool) {
	return r.root.Lookup(name)
}

// Module says which module a name resolves to.
func (r *Registry) Module(name string) (string, bool) {
	m, ok := r.owner[name]
	return m, ok
}

func (r *Registry) Names() []string {
	return r.root.Names()
}

func (r *Registry) Collisions() []Collision {
	result := make([]Collision, len(r.collisions))
	copy(result, r.collisions)
	return result
}
