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

func ctrModule() builtins.Module {
	return builtins.NewTable("aes_ctr", map[string]builtins.Function{
		"aes128_ctr_encrypt": aesCtr("aes128_ctr_encrypt", 16, ENCRYPT),
		"aes128_ctr_decrypt": aesCtr("aes128_ctr_decrypt", 16, DECRYPT),
		"aes192_ctr_encrypt": aesCtr("aes192_ctr_encrypt", 24, ENCRYPT),
		"aes192_ctr_decrypt": aesCtr("aes192_ctr_decrypt", 24, DECRYPT),
		"aes256_ctr_encrypt": aesCtr("aes256_ctr_encrypt", 32, ENCRYPT),
		"aes256_ctr_decrypt": aesCtr("aes256_ctr_decrypt", 32, DECRYPT),
	})
}

// CTR is a stream mode, so encryption and decryption are the same thing apart from
// len, which only cuts down decrypted output.
func aesCtr(name string, keySize int, c crypt) builtins.Function {
	return func(ctx context.Context, reg *register.Register) (values.Value, error) {
		if err := args.Only(reg, "key", "data", "iv", "len"); err != nil {
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
		length, hasLength, err := getLen(reg)
		if err != nil {
			return values.Value{}, err
		}
		if err := checkKey(name, key, keySize); err != nil {
			return values.Value{}, err
		}
		if err := checkIv(name, iv, aes.BlockSize); err != nil {
			return values.Value{}, err
		}
		block, err := aes.NewCipher(key)
		if err != nil {
			return values.Value{}, fnerr.FromBuiltin(fnerr.General(err))
		}
		out := make([]byte, len(data))
		cipher.NewCTR(block, iv).XORKeyStream(out, data)
		if c == DECRYPT {
			out, err = truncate(out, length, hasLength)
			if err != nil {
				return values.Value{}, err
			}
		}
		return values.Data(out), nil
	}
}
