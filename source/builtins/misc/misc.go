// Package misc has the small string and data built-ins that scripts use to pick
// apart what the other built-ins hand them.
package misc

import (
	"context"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/tim-hardcastle/scanscript/source/args"
	"github.com/tim-hardcastle/scanscript/source/builtins"
	"github.com/tim-hardcastle/scanscript/source/fnerr"
	"github.com/tim-hardcastle/scanscript/source/register"
	"github.com/tim-hardcastle/scanscript/source/values"
)

func Module() builtins.Module {
	return builtins.NewTable("misc", map[string]builtins.Function{
		"strlen":    strlen,
		"hexstr":    hexstr,
		"hex2raw":   hex2raw,
		"toupper":   toupper,
		"tolower":   tolower,
		"ereg":      ereg,
		"make_list": makeList,
		"typeof":    typeOf,
	})
}

func strlen(ctx context.Context, reg *register.Register) (values.Value, error) {
	if _, err := args.Positionals(reg, 1); err != nil {
		return values.Value{}, err
	}
	b, err := args.PositionalData(reg, 0)
	if err != nil {
		return values.Value{}, err
	}
	return values.Int(int64(len(b))), nil
}

func hexstr(ctx context.Context, reg *register.Register) (values.Value, error) {
	if _, err := args.Positionals(reg, 1); err != nil {
		return values.Value{}, err
	}
	b, err := args.PositionalData(reg, 0)
	if err != nil {
		return values.Value{}, err
	}
	return values.String(hex.EncodeToString(b)), nil
}

// hex2raw(string:)
func hex2raw(ctx context.Context, reg *register.Register) (values.Value, error) {
	if err := args.Only(reg, "string"); err != nil {
		return values.Value{}, err
	}
	s, err := args.RequiredString(reg, "string")
	if err != nil {
		return values.Value{}, err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return values.Value{}, fnerr.FromBuiltin(fnerr.BuiltinWrapping(err, "built/hex", s))
	}
	return values.Data(b), nil
}

func toupper(ctx context.Context, reg *register.Register) (values.Value, error) {
	if _, err := args.Positionals(reg, 1); err != nil {
		return values.Value{}, err
	}
	s, err := args.PositionalString(reg, 0)
	if err != nil {
		return values.Value{}, err
	}
	return values.String(strings.ToUpper(s)), nil
}

func tolower(ctx context.Context, reg *register.Register) (values.Value, error) {
	if _, err := args.Positionals(reg, 1); err != nil {
		return values.Value{}, err
	}
	s, err := args.PositionalString(reg, 0)
	if err != nil {
		return values.Value{}, err
	}
	return values.String(strings.ToLower(s)), nil
}

// ereg(string:, pattern:, icase:) says whether the pattern matches anywhere in the
// string. A bad pattern is returned as an error with FALSE attached, so a script
// that doesn't care carries on as though nothing matched.
func ereg(ctx context.Context, reg *register.Register) (values.Value, error) {
	if err := args.Only(reg, "string", "pattern", "icase"); err != nil {
		return values.Value{}, err
	}
	s, err := args.RequiredData(reg, "string")
	if err != nil {
		return values.Value{}, err
	}
	pattern, err := args.RequiredString(reg, "pattern")
	if err != nil {
		return values.Value{}, err
	}
	icase, _, err := args.NamedBool(reg, "icase", false)
	if err != nil {
		return values.Value{}, err
	}
	if icase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return values.Value{}, fnerr.FromBuiltin(fnerr.BuiltinWrapping(err, "built/regex", pattern, err)).WithReturnValue(values.FALSE)
	}
	return values.Bool(re.Match(s)), nil
}

func makeList(ctx context.Context, reg *register.Register) (values.Value, error) {
	return values.Array(reg.Positional()...), nil
}

func typeOf(ctx context.Context, reg *register.Register) (values.Value, error) {
	if _, err := args.Positionals(reg, 1); err != nil {
		return values.Value{}, err
	}
	v, err := args.Positional(reg, 0, args.ANY)
	if err != nil {
		return values.Value{}, err
	}
	return values.String(values.TypeName(v.T)), nil
}
