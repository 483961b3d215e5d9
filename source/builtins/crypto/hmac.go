package crypto

import (
	"context"
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"golang.org/x/crypto/ripemd160"

	"github.com/tim-hardcastle/scanscript/source/args"
	"github.com/tim-hardcastle/scanscript/source/builtins"
	"github.com/tim-hardcastle/scanscript/source/register"
	"github.com/tim-hardcastle/scanscript/source/values"
)

func hmacModule() builtins.Module {
	return builtins.NewTable("hmac", map[string]builtins.Function{
		"HMAC_MD5":       hmacWith(md5.New),
		"HMAC_SHA1":      hmacWith(sha1.New),
		"HMAC_SHA256":    hmacWith(sha256.New),
		"HMAC_SHA384":    hmacWith(sha512.New384),
		"HMAC_SHA512":    hmacWith(sha512.New),
		"HMAC_RIPEMD160": hmacWith(ripemd160.New),
	})
}

func hmacWith(h func() hash.Hash) builtins.Function {
	return func(ctx context.Context, reg *register.Register) (values.Value, error) {
		if err := args.Only(reg, "key", "data"); err != nil {
			return values.Value{}, err
		}
		key, err := getKey(reg)
		if err != nil {
			return values.Value{}, err
		}
		data, err := getData(reg)
		if err != nil {
			return values.Value{}, err
		}
		mac := hmac.New(h, key)
		mac.Write(data)
		return values.Data(mac.Sum(nil)), nil
	}
}
