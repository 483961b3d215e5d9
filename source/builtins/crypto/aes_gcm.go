package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"

	"github.com/tim-hardcastle/scanscript/source/args"
	"github.com/tim-hardcastle/scanscript/source/builtins"
	"github.com/tim-hardcastle/scanscript/source/fnerr"
	"github.com/tim-hardcastle/scanscript/source/register"
	"github.com/tim-hardcastle/scanscript/source/values"
)

func gcmModule() builtins.Module {
	return builtins.NewTable("aes_gcm", map[string]builtins.Function{
		"aes128_gcm_encrypt": aesGcm("aes128_gcm_encrypt", 16, ENCRYPT),
		"aes128_gcm_decrypt": aesGcm("aes128_gcm_decrypt", 16, DECRYPT),
		"aes256_gcm_encrypt": aesGcm("aes256_gcm_encrypt", 32, ENCRYPT),
		"aes256_gcm_decrypt": aesGcm("aes256_gcm_decrypt", 32, DECRYPT),
	})
}

// The ciphertext has the 16-byte tag on the end, going out and coming in. aad is
// optional additional authenticated data.
func aesGcm(name string, keySize int, c crypt) builtins.Function {
	return func(ctx context.Context, reg *register.Register) (values.Value, error) {
		if err := args.Only(reg, "key", "data", "iv", "aad", "len"); err != nil {
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
		iv, err := getIv(reg)
		if err != nil {
			return values.Value{}, err
		}
		aad, _, err := args.NamedData(reg, "aad", false)
		if err != nil {
			return values.Value{}, err
		}
		length, hasLength, err := getLen(reg)
		if err != nil {
			return values.Value{}, err
		}
		if err := checkKey(name, key, keySize); err != nil {
			return values.Value{}, err
		}
		if len(iv) == 0 {
			return values.Value{}, fnerr.FromBuiltin(fnerr.Builtin("crypto/iv", name, "at least 1", 0))
		}
		block, err := aes.NewCipher(key)
		if err != nil {
			return values.Value{}, fnerr.FromBuiltin(fnerr.General(err))
		}
		aead, err := cipher.NewGCMWithNonceSize(block, len(iv))
		if err != nil {
			return values.Value{}, fnerr.FromBuiltin(fnerr.General(err))
		}
		var out []byte
		switch c {
		case ENCRYPT:
			out = aead.Seal(nil, iv, data, aad)
		case DECRYPT:
			out, err = aead.Open(nil, iv, data, aad)
			if err != nil {
				return values.Value{}, fnerr.FromBuiltin(fnerr.BuiltinWrapping(err, "crypto/auth", name))
			}
		}
		if c == DECRYPT {
			out, err = truncate(out, length, hasLength)
			if err != nil {
				return values.Value{}, err
			}
		}
		return values.Data(out), nil
	}
}
