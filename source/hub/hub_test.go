package hub_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/scanscript/source/builtins"
	"github.com/tim-hardcastle/scanscript/source/builtins/misc"
	"github.com/tim-hardcastle/scanscript/source/hub"
	"github.com/tim-hardcastle/scanscript/source/test_helper"
	"github.com/tim-hardcastle/scanscript/source/vm"
)

func newHub() (*hub.Hub, *bytes.Buffer) {
	log, _ := test.NewNullLogger()
	registry := builtins.New(log, misc.Module())
	policy := vm.RetryPolicy{MaxAttempts: 1, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, Multiplier: 1}
	out := &bytes.Buffer{}
	return hub.New(vm.New(registry, policy, log), registry, out).Plain(), out
}

func do(h *hub.Hub, out *bytes.Buffer) func(s string) (string, error) {
	return func(s string) (string, error) {
		out.Reset()
		h.Do(context.Background(), s)
		return strings.TrimSpace(out.String()), nil
	}
}

func TestHub(t *testing.T) {
	h, out := newHub()
	tests := []test_helper.TestItem{
		{`x = strlen("abcd")`, `4`},
		{`x`, `4`},
		{`make_list()`, `[]`},
		{`# nothing`, ``},
		{`hex2raw(string: "0g")`, `Error: 1:1: Error while calling function 'hex2raw': can't read '0g' as hexadecimal`},
		{`why`, `A hex string must have an even number of characters, each of which is 0-9, a-f or A-F.`},
		{`strlen(`, `Error: 1:8: unexpected end of file`},
		{`run`, `Hub error: 'run' takes the name of one script file.`},
		{`quit`, `OK`},
	}
	test_helper.RunTest(t, tests, do(h, out))
}

func TestWhyWithNoError(t *testing.T) {
	h, out := newHub()
	h.Do(context.Background(), "why")
	assert.Equal(t, "Hub error: there are no recent errors.\n", out.String())
}

func TestQuit(t *testing.T) {
	h, _ := newHub()
	assert.True(t, h.Do(context.Background(), "quit"))
	assert.False(t, h.Do(context.Background(), "help"))
}

func TestFunctions(t *testing.T) {
	h, out := newHub()
	h.Do(context.Background(), "functions")
	assert.Contains(t, out.String(), "strlen (misc)")
	assert.Contains(t, out.String(), "hex2raw (misc)")
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.inc"), []byte("n = strlen(\"abc\")\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.scan"), []byte("include \"lib.inc\"\nm = toupper(\"x\")\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.scan"), []byte("a = 1\nb = nosuch()\n"), 0o644))

	h, out := newHub()
	assert.True(t, h.Run(context.Background(), filepath.Join(dir, "main.scan")))
	assert.Equal(t, "OK\n", out.String())
	h.Do(context.Background(), "n")
	assert.Contains(t, out.String(), "3")

	out.Reset()
	assert.False(t, h.Run(context.Background(), filepath.Join(dir, "broken.scan")))
	assert.Equal(t, "Error: 2:1: Key not found: nosuch\n", out.String())

	out.Reset()
	assert.False(t, h.Run(context.Background(), filepath.Join(dir, "missing.scan")))
	assert.Contains(t, out.String(), "Error: ")
}
