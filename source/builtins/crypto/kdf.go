package crypto

import (
	"context"
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"

	"github.com/tim-hardcastle/scanscript/source/args"
	"github.com/tim-hardcastle/scanscript/source/builtins"
	"github.com/tim-hardcastle/scanscript/source/fnerr"
	"github.com/tim-hardcastle/scanscript/source/register"
	"github.com/tim-hardcastle/scanscript/source/values"
)

func kdfModule() builtins.Module {
	return builtins.NewTable("kdf", map[string]builtins.Function{
		"pbkdf2_sha256": pbkdf2Sha256,
		"bcrypt_hash":   bcryptHash,
		"bcrypt_verify": bcryptVerify,
	})
}

// pbkdf2_sha256(password:, salt:, iterations:, len:)
func pbkdf2Sha256(ctx context.Context, reg *register.Register) (values.Value, error) {
	if err := args.Only(reg, "password", "salt", "iterations", "len"); err != nil {
		return values.Value{}, err
	}
	password, err := args.RequiredData(reg, "password")
	if err != nil {
		return values.Value{}, err
	}
	salt, err := args.RequiredData(reg, "salt")
	if err != nil {
		return values.Value{}, err
	}
	iterations, _, err := args.NamedUint(reg, "iterations", true)
	if err != nil {
		return values.Value{}, err
	}
	if iterations == 0 {
		return values.Value{}, fnerr.FromBuiltin(fnerr.Builtin("crypto/iterations"))
	}
	length, hasLength, err := getLen(reg)
	if err != nil {
		return values.Value{}, err
	}
	if !hasLength {
		length = sha256.Size
	}
	iter, err := args.ToInt(int64(iterations))
	if err != nil {
		return values.Value{}, err
	}
	keyLen, err := args.ToInt(int64(length))
	if err != nil {
		return values.Value{}, err
	}
	return values.Data(pbkdf2.Key(password, salt, iter, keyLen, sha256.New)), nil
}

// bcrypt_hash(password:, cost:)
func bcryptHash(ctx context.Context, reg *register.Register) (values.Value, error) {
	if err := args.Only(reg, "password", "cost"); err != nil {
		return values.Value{}, err
	}
	password, err := args.RequiredData(reg, "password")
	if err != nil {
		return values.Value{}, err
	}
	cost := int64(bcrypt.DefaultCost)
	if c, ok, err := args.NamedInt(reg, "cost", false); err != nil {
		return values.Value{}, err
	} else if ok {
		cost = c
	}
	costInt, err := args.ToInt(cost)
	if err != nil {
		return values.Value{}, err
	}
	hashed, err := bcrypt.GenerateFromPassword(password, costInt)
	if err != nil {
		return values.Value{}, fnerr.FromBuiltin(fnerr.BuiltinWrapping(err, "crypto/bcrypt", err))
	}
	return values.String(string(hashed)), nil
}

// bcrypt_verify(password:, hash:) is false for a wrong password and an error for a
// hash that isn't one.
func bcryptVerify(ctx context.Context, reg *register.Register) (values.Value, error) {
	if err := args.Only(reg, "password", "hash"); err != nil {
		return values.Value{}, err
	}
	password, err := args.RequiredData(reg, "password")
	if err != nil {
		return values.Value{}, err
	}
	hashed, err := args.RequiredData(reg, "hash")
	if err != nil {
		return values.Value{}, err
	}
	err = bcrypt.CompareHashAndPassword(hashed, password)
	switch err {
	case nil:
		return values.TRUE, nil
	case bcrypt.ErrMismatchedHashAndPassword:
		return values.FALSE, nil
	}
	return values.Value{}, fnerr.FromBuiltin(fnerr.BuiltinWrapping(err, "crypto/bcrypt", err))
}
