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

func cbcModule() builtins.Module {
	return builtins.NewTable("aes_cbc", map[string]builtins.Function{
		"aes128_cbc_encrypt": aesCbc("aes128_cbc_encrypt", 16, ENCRYPT),
		"aes128_cbc_decrypt": aesCbc("aes128_cbc_decrypt", 16, DECRYPT),
		"aes192_cbc_encrypt": aesCbc("aes192_cbc_encrypt", 24, ENCRYPT),
		"aes192_cbc_decrypt": aesCbc("aes192_cbc_decrypt", 24, DECRYPT),
		"aes256_cbc_encrypt": aesCbc("aes256_cbc_encrypt", 32, ENCRYPT),
		"aes256_cbc_decrypt": aesCbc("aes256_cbc_decrypt", 32, DECRYPT),
	})
}

// Encryption pads the data with zeros up to a whole number of blocks. Decryption
// wants whole blocks and leaves any padding in place unless told a len.
func aesCbc(name string, keySize int, c crypt) builtins.Function {
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
		var out []byte
		switch c {
		case ENCRYPT:
			padded := make([]byte, (len(data)+aes.BlockSize-1)/aes.BlockSize*aes.BlockSize)
			copy(padded, data)
			out = make([]byte, len(padded))
			cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
		case DECRYPT:
			if len(data)%aes.BlockSize != 0 {
				return values.Value{}, fnerr.FromBuiltin(fnerr.Builtin("crypto/blocks", name, len(data)))
			}
			out = make([]byte, len(data))
			cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)
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
