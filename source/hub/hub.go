// Package hub is what sits between the REPL and the interpreter. It takes a line of
// input and either does it, if it's one of the hub's own commands, or hands it to
// the Vm as a call line.
package hub

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tim-hardcastle/scanscript/source/builtins"
	"github.com/tim-hardcastle/scanscript/source/parser"
	"github.com/tim-hardcastle/scanscript/source/report"
	"github.com/tim-hardcastle/scanscript/source/text"
	"github.com/tim-hardcastle/scanscript/source/values"
	"github.com/tim-hardcastle/scanscript/source/vm"
)

var (
	MARGIN = 84
)

type Hub struct {
	vm       *vm.Vm
	registry *builtins.Registry
	out      io.Writer
	lastErr  error
	plain    bool // No colors and no wrapping, for output that isn't going to a terminal.
}

func New(machine *vm.Vm, registry *builtins.Registry, out io.Writer) *Hub {
	return &Hub{vm: machine, registry: registry, out: out}
}

// Plain turns off colors and line-wrapping.
func (hub *Hub) Plain() *Hub {
	hub.plain = true
	return hub
}

// Do does one line of input. It returns true if the user has asked to quit.
func (hub *Hub) Do(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}
	words := strings.Fields(line)
	switch words[0] {
	case "quit":
		hub.quit()
		return true
	case "help":
		hub.help()
		return false
	case "why":
		hub.why()
		return false
	case "functions":
		hub.functions()
		return false
	case "run":
		if len(words) != 2 {
			hub.WriteError("'run' takes the name of one script file.")
			return false
		}
		hub.Run(ctx, words[1])
		return false
	}
	hub.callLine(ctx, line)
	return false
}

func (hub *Hub) callLine(ctx context.Context, line string) {
	statements, err := parser.Parse("REPL input", line)
	if err != nil {
		hub.fail(report.Wrap(report.SYNTAX_ERROR, err))
		return
	}
	for _, stmt := range statements {
		v, err := hub.vm.Exec(ctx, stmt)
		if err != nil {
			hub.fail(err)
			return
		}
		if v.T == values.NULL {
			hub.WriteString(hub.ok() + "\n")
			continue
		}
		hub.WriteString(values.Literal(v) + "\n")
	}
}

// Run runs a script file. Files it includes are looked for in the same directory.
func (hub *Hub) Run(ctx context.Context, scriptFilepath string) bool {
	source, err := os.ReadFile(scriptFilepath)
	if err != nil {
		hub.fail(report.Wrap(report.LOAD_ERROR, err))
		return false
	}
	hub.vm.WithLoader(vm.FileLoader(filepath.Dir(scriptFilepath)))
	if err := hub.vm.Run(ctx, filepath.Base(scriptFilepath), string(source)); err != nil {
		hub.fail(err)
		return false
	}
	hub.WriteString(hub.ok() + "\n")
	return true
}

func (hub *Hub) fail(err error) {
	hub.lastErr = err
	if hub.plain {
		hub.WriteString("Error: " + err.Error() + "\n")
		return
	}
	hub.WritePretty(text.ERROR + err.Error())
}

func (hub *Hub) why() {
	if hub.lastErr == nil {
		hub.WriteError("there are no recent errors.")
		return
	}
	var interpretErr *report.InterpretError
	if errors.As(hub.lastErr, &interpretErr) {
		hub.WritePretty(interpretErr.Explain())
		return
	}
	hub.WritePretty("There is no further explanation of that error.")
}

func (hub *Hub) functions() {
	for _, name := range hub.registry.Names() {
		module, _ := hub.registry.Module(name)
		hub.WriteString(text.BULLET + name + " (" + module + ")\n")
	}
}

func (hub *Hub) quit() {
	if hub.plain {
		hub.WriteString("OK\n")
		return
	}
	hub.WriteString(text.OK + "\n" + text.Logo() + "Thank you for using scanscript. Have a nice day!\n\n")
}

func (hub *Hub) help() {
	hub.WriteString("\n")
	hub.WriteString("Hub commands are:\n")
	hub.WriteString("\n")
	for _, v := range helpTopics {
		hub.WriteString(text.BULLET + v + "\n")
	}
	hub.WriteString("\n")
	hub.WritePretty("Anything else is a call line, e.g. 'x = hexstr(0x0102)', or 'aes128_cbc_encrypt(data, key: k, iv: iv)'.")
	hub.WriteString("\n")
}

var helpTopics = []string{
	"run <file>    runs a script",
	"why           explains the last error",
	"functions     lists the built-in functions and the modules they come from",
	"help          shows this",
	"quit          leaves",
}

func (hub *Hub) ok() string {
	if hub.plain {
		return "OK"
	}
	return text.OK
}

func (hub *Hub) WritePretty(s string) {
	if hub.plain {
		hub.WriteString(s + "\n")
		return
	}
	hub.WriteString(text.Pretty(s, 0, MARGIN))
}

func (hub *Hub) WriteError(s string) {
	if hub.plain {
		hub.WriteString("Hub error: " + s + "\n")
		return
	}
	hub.WritePretty(text.HUB_ERROR + s)
}

func (hub *Hub) WriteString(s string) {
	io.WriteString(hub.out, s)
}
