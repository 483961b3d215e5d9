// Package vm runs scripts, one statement at a time.
//
// Every call to a built-in goes through Call, which decides what a failure means:
// try again, carry on with the value the function offered instead, or stop the
// script.
package vm

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tim-hardcastle/scanscript/source/ast"
	"github.com/tim-hardcastle/scanscript/source/builtins"
	"github.com/tim-hardcastle/scanscript/source/fnerr"
	"github.com/tim-hardcastle/scanscript/source/parser"
	"github.com/tim-hardcastle/scanscript/source/register"
	"github.com/tim-hardcastle/scanscript/source/report"
	"github.com/tim-hardcastle/scanscript/source/settings"
	"github.com/tim-hardcastle/scanscript/source/values"
)

// A Loader fetches the source of an included file.
type Loader func(filename string) (string, error)

// FileLoader reads included files from disk, relative to dir unless they're absolute.
func FileLoader(dir string) Loader {
	return func(filename string) (string, error) {
		if !filepath.IsAbs(filename) {
			filename = filepath.Join(dir, filename)
		}
		b, err := os.ReadFile(filename)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// A Vm isn't safe for concurrent use, but any number of them can share a Registry.
type Vm struct {
	registry  *builtins.Registry
	policy    RetryPolicy
	log       logrus.FieldLogger
	runId     string
	variables map[string]values.Value
	load      Loader
	including []string
}

func New(registry *builtins.Registry, policy RetryPolicy, log logrus.FieldLogger) *Vm {
	runId := uuid.NewString()
	return &Vm{
		registry:  registry,
		policy:    policy,
		log:       log.WithField("run", runId),
		runId:     runId,
		variables: map[string]values.Value{},
	}
}

// WithLoader lets the script include other files. Without one, include is an error.
func (vm *Vm) WithLoader(load Loader) *Vm {
	vm.load = load
	return vm
}

func (vm *Vm) RunId() string {
	return vm.runId
}

func (vm *Vm) Variable(name string) (values.Value, bool) {
	v, ok := vm.variables[name]
	return v, ok
}

// Run parses and executes a script, stopping at the first error.
func (vm *Vm) Run(ctx context.Context, filename, source string) error {
	statements, err := parser.Parse(filename, source)
	if err != nil {
		return report.Wrap(report.SYNTAX_ERROR, err)
	}
	return vm.execAll(ctx, statements)
}

func (vm *Vm) execAll(ctx context.Context, statements []ast.Node) error {
	for _, stmt := range statements {
		if _, err := vm.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Exec executes one statement and returns its value. An include has the value NULL.
func (vm *Vm) Exec(ctx context.Context, stmt ast.Node) (values.Value, error) {
	switch stmt := stmt.(type) {
	case *ast.AssignmentStatement:
		v, err := vm.eval(ctx, stmt, stmt.Value)
		if err != nil {
			return values.Value{}, err
		}
		vm.variables[stmt.Name] = v
		return v, nil
	case *ast.ExpressionStatement:
		return vm.eval(ctx, stmt, stmt.Expression)
	case *ast.IncludeStatement:
		return values.NULL_VALUE, vm.include(ctx, stmt)
	}
	return values.Value{}, report.New(report.WRONG_CATEGORY, "statement").WithOrigin(stmt)
}

func (vm *Vm) eval(ctx context.Context, stmt ast.Node, node ast.Node) (values.Value, error) {
	switch node := node.(type) {
	case *ast.IntegerLiteral:
		return values.Int(node.Value), nil
	case *ast.StringLiteral:
		return values.String(node.Value), nil
	case *ast.DataLiteral:
		return values.Data(node.Value), nil
	case *ast.BooleanLiteral:
		return values.Bool(node.Value), nil
	case *ast.NullLiteral:
		return values.NULL_VALUE, nil
	case *ast.ListExpression:
		elements := make([]values.Value, 0, len(node.Elements))
		for _, e := range node.Elements {
			v, err := vm.eval(ctx, stmt, e)
			if err != nil {
				return values.Value{}, err
			}
			elements = append(elements, v)
		}
		return values.Array(elements...), nil
	case *ast.Identifier:
		if v, ok := vm.variables[node.Value]; ok {
			return v, nil
		}
		if _, ok := vm.registry.Lookup(node.Value); ok {
			return values.Value{}, report.New(report.FUNCTION_EXPECTED_VALUE, node.Value).WithOrigin(stmt)
		}
		return values.Value{}, report.New(report.NOT_FOUND, node.Value).WithOrigin(stmt)
	case *ast.FunctionReference:
		return values.Value{}, report.New(report.FUNCTION_EXPECTED_VALUE, node.Name).WithOrigin(stmt)
	case *ast.CallExpression:
		reg, err := vm.register(ctx, stmt, node)
		if err != nil {
			return values.Value{}, err
		}
		return vm.Call(ctx, stmt, node.Function, reg)
	}
	return values.Value{}, report.New(report.WRONG_CATEGORY, "expression").WithOrigin(stmt)
}

// register evaluates the arguments of a call. Only a named argument can be a
// function reference.
func (vm *Vm) register(ctx context.Context, stmt ast.Node, call *ast.CallExpression) (*register.Register, error) {
	positional := make([]values.Value, 0, len(call.Positional))
	for _, arg := range call.Positional {
		v, err := vm.eval(ctx, stmt, arg)
		if err != nil {
			return nil, err
		}
		positional = append(positional, v)
	}
	named := make(map[string]register.ContextType, len(call.Named))
	for _, arg := range call.Named {
		if ref, ok := arg.Value.(*ast.FunctionReference); ok {
			if _, ok := vm.registry.Lookup(ref.Name); !ok {
				return nil, report.New(report.NOT_FOUND, ref.Name).WithOrigin(stmt)
			}
			named[arg.Name] = register.Function(ref.Name)
			continue
		}
		v, err := vm.eval(ctx, stmt, arg.Value)
		if err != nil {
			return nil, err
		}
		named[arg.Name] = register.Value(v)
	}
	return register.New(positional, named), nil
}

// Call calls a built-in on behalf of a statement.
//
// A retryable failure is tried again, with exponential backoff, until it succeeds,
// the attempts run out, or ctx is done. A failure that comes with a return value
// is logged and the value is used instead. Anything else is fatal to the script,
// and comes back as a *report.InterpretError.
func (vm *Vm) Call(ctx context.Context, stmt ast.Node, name string, reg *register.Register) (values.Value, error) {
	f, ok := vm.registry.Lookup(name)
	if !ok {
		if _, isVariable := vm.variables[name]; isVariable {
			return values.Value{}, report.New(report.VALUE_EXPECTED_FUNCTION, name).WithOrigin(stmt)
		}
		return values.Value{}, report.New(report.NOT_FOUND, name).WithOrigin(stmt)
	}
	log := vm.log.WithFields(vm.fields(stmt, name))
	if settings.SHOW_CALLS {
		log.WithField("positional", reg.Positional()).Debug("calling built-in")
	}
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return values.Value{}, fatal(stmt, name, err)
		}
		v, err := f(ctx, reg)
		if err == nil {
			return v, nil
		}
		fnErr := fnerr.From(err)
		if fnErr.Retryable() {
			if attempt >= vm.policy.MaxAttempts {
				log.WithField("attempt", attempt).WithError(fnErr).Error("giving up on retryable error")
				return values.Value{}, fatal(stmt, name, fnErr)
			}
			wait := vm.policy.Backoff(attempt)
			if settings.SHOW_RETRIES {
				log.WithFields(logrus.Fields{"attempt": attempt, "wait": wait}).WithError(fnErr).Warn("retrying")
			}
			if err := sleep(ctx, wait); err != nil {
				return values.Value{}, fatal(stmt, name, err)
			}
			continue
		}
		if rv, ok := fnErr.ReturnValue(); ok {
			log.WithField("error_id", fnErr.ErrorId()).WithError(fnErr).Warn("built-in failed, using its return value")
			return rv, nil
		}
		return values.Value{}, fatal(stmt, name, fnErr)
	}
}

func fatal(stmt ast.Node, name string, err error) *report.InterpretError {
	return report.FromFunctionError(&report.FunctionError{Function: name, Err: err}).WithOrigin(stmt)
}

func sleep(ctx context.Context, wait time.Duration) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (vm *Vm) fields(stmt ast.Node, name string) logrus.Fields {
	fields := logrus.Fields{"function": name}
	if stmt == nil {
		return fields
	}
	if tok := stmt.GetToken(); tok != nil {
		fields["line"] = tok.Line
		fields["col"] = tok.Column()
		if tok.Source != "" {
			fields["source"] = tok.Source
		}
	}
	return fields
}

func (vm *Vm) include(ctx context.Context, stmt *ast.IncludeStatement) error {
	if vm.load == nil {
		return report.Wrap(report.LOAD_ERROR, errors.Errorf("can't include %s here", stmt.Filename)).WithOrigin(stmt)
	}
	for _, f := range vm.including {
		if f == stmt.Filename {
			return report.Wrap(report.LOAD_ERROR, errors.Errorf("%s includes itself", stmt.Filename)).WithOrigin(stmt)
		}
	}
	source, err := vm.load(stmt.Filename)
	if err != nil {
		return report.Wrap(report.LOAD_ERROR, errors.Wrapf(err, "including %s", stmt.Filename)).WithOrigin(stmt)
	}
	statements, err := parser.Parse(stmt.Filename, source)
	if err != nil {
		return report.Include(stmt.Filename, err).WithOrigin(stmt)
	}
	vm.including = append(vm.including, stmt.Filename)
	defer func() { vm.including = vm.including[:len(vm.including)-1] }()
	return vm.execAll(ctx, statements)
}
