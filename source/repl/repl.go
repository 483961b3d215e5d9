package repl

import (
	"context"
	"strings"

	"github.com/lmorg/readline"

	"github.com/tim-hardcastle/scanscript/source/hub"
	"github.com/tim-hardcastle/scanscript/source/text"
)

// Start reads lines and gives them to the hub until the user quits or ctx is done.
func Start(ctx context.Context, h *hub.Hub) {
	rline := readline.NewInstance()
	rline.SetPrompt(text.PROMPT)
	for ctx.Err() == nil {
		line, err := rline.Readline()
		if err != nil {
			// Ctrl-C clears the line; anything else, such as EOF, ends the session.
			if err == readline.CtrlC {
				continue
			}
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if h.Do(ctx, line) {
			return
		}
	}
}
