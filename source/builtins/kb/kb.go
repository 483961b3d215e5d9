// Package kb gives scripts the knowledge base: what earlier scripts found out about
// the target, and what this one wants to tell later ones.
//
// Whatever goes wrong in the store comes back as an internal error, so a busy store
// gets retried by the interpreter and the script never sees it.
package kb

import (
	"context"
	"errors"

	"github.com/tim-hardcastle/scanscript/source/args"
	"github.com/tim-hardcastle/scanscript/source/builtins"
	"github.com/tim-hardcastle/scanscript/source/fnerr"
	"github.com/tim-hardcastle/scanscript/source/register"
	"github.com/tim-hardcastle/scanscript/source/storage"
	"github.com/tim-hardcastle/scanscript/source/values"
)

type Kb struct {
	store storage.Store
}

func New(store storage.Store) *Kb {
	return &Kb{store: store}
}

func (kb *Kb) Module() builtins.Module {
	return builtins.NewTable("kb", map[string]builtins.Function{
		"set_kb_item":     kb.setKbItem,
		"replace_kb_item": kb.replaceKbItem,
		"get_kb_item":     kb.getKbItem,
		"get_kb_list":     kb.getKbList,
		"delete_kb_item":  kb.deleteKbItem,
	})
}

func storageError(err error) error {
	var se *storage.Error
	if errors.As(err, &se) {
		return fnerr.FromStorage(se)
	}
	return fnerr.FromStorage(storage.Backend("", err))
}

func nameAndValue(reg *register.Register) (string, values.Value, error) {
	if err := args.Only(reg, "name", "value"); err != nil {
		return "", values.Value{}, err
	}
	name, err := args.RequiredString(reg, "name")
	if err != nil {
		return "", values.Value{}, err
	}
	v, err := args.RequiredValue(reg, "value")
	if err != nil {
		return "", values.Value{}, err
	}
	return name, v, nil
}

// set_kb_item(name:, value:) adds a value to those under the name.
func (kb *Kb) setKbItem(ctx context.Context, reg *register.Register) (values.Value, error) {
	name, v, err := nameAndValue(reg)
	if err != nil {
		return values.Value{}, err
	}
	if err := kb.store.Add(ctx, name, v); err != nil {
		return values.Value{}, storageError(err)
	}
	return values.NULL_VALUE, nil
}

// replace_kb_item(name:, value:) makes the value the only one under the name.
func (kb *Kb) replaceKbItem(ctx context.Context, reg *register.Register) (values.Value, error) {
	name, v, err := nameAndValue(reg)
	if err != nil {
		return values.Value{}, err
	}
	if err := kb.store.Replace(ctx, name, v); err != nil {
		return values.Value{}, storageError(err)
	}
	return values.NULL_VALUE, nil
}

// get_kb_item(name) gives the first value under the name, or NULL if there isn't one.
func (kb *Kb) getKbItem(ctx context.Context, reg *register.Register) (values.Value, error) {
	if err := args.Only(reg); err != nil {
		return values.Value{}, err
	}
	if _, err := args.Positionals(reg, 1); err != nil {
		return values.Value{}, err
	}
	name, err := args.PositionalString(reg, 0)
	if err != nil {
		return values.Value{}, err
	}
	vals, err := kb.store.Get(ctx, name)
	if err != nil {
		var se *storage.Error
		if errors.As(err, &se) && se.Kind == storage.NOT_FOUND {
			return values.NULL_VALUE, nil
		}
		return values.Value{}, storageError(err)
	}
	if len(vals) == 0 {
		return values.NULL_VALUE, nil
	}
	return vals[0], nil
}

// get_kb_list(name) gives every value under the name as an array, which is empty if
// there's nothing there.
func (kb *Kb) getKbList(ctx context.Context, reg *register.Register) (values.Value, error) {
	if err := args.Only(reg); err != nil {
		return values.Value{}, err
	}
	if _, err := args.Positionals(reg, 1); err != nil {
		return values.Value{}, err
	}
	name, err := args.PositionalString(reg, 0)
	if err != nil {
		return values.Value{}, err
	}
	vals, err := kb.store.Get(ctx, name)
	if err != nil {
		var se *storage.Error
		if errors.As(err, &se) && se.Kind == storage.NOT_FOUND {
			return values.Array(), nil
		}
		return values.Value{}, storageError(err)
	}
	return values.Array(vals...), nil
}

// delete_kb_item(name:) fails if there was nothing to delete, but says so with a
// FALSE attached that the script can carry on with.
func (kb *Kb) deleteKbItem(ctx context.Context, reg *register.Register) (values.Value, error) {
	if err := args.Only(reg, "name"); err != nil {
		return values.Value{}, err
	}
	name, err := args.RequiredString(reg, "name")
	if err != nil {
		return values.Value{}, err
	}
	if err := kb.store.Delete(ctx, name); err != nil {
		return values.Value{}, fnerr.From(storageError(err)).WithReturnValue(values.FALSE)
	}
	return values.TRUE, nil
}
