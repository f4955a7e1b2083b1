package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/podhmo/daro"
	"github.com/podhmo/daro/object"
	"github.com/podhmo/daro/parser"
)

const (
	historyFile = ".daro_history"
	promptMain  = "daro> "
	promptCont  = "..... "
)

// prompter is the part of *liner.State the read loop uses.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func (a *app) cmdRepl(ctx context.Context, args []string) int {
	var opts options
	fset := a.flagSet("repl", &opts)
	if err := fset.Parse(args); err != nil {
		return 2
	}
	interp, err := a.interpreter(ctx, &opts)
	if err != nil {
		fmt.Fprintf(a.stderr, "daro: %v\n", err)
		return 1
	}

	fmt.Fprintf(a.stdout, "daro %s, type :quit to exit\n", daro.Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	a.repl(ctx, interp, ln)
	return 0
}

// repl reads, evaluates and prints until end of input or :quit.
func (a *app) repl(ctx context.Context, interp *daro.Interpreter, p prompter) {
	for {
		code, ok := readInput(p)
		if !ok {
			fmt.Fprintln(a.stdout)
			return
		}
		code = strings.TrimSpace(code)
		switch {
		case code == "":
			continue
		case strings.HasPrefix(code, ":"):
			switch strings.ToLower(code) {
			case ":quit", ":q":
				return
			case ":reset":
				interp.Reset()
			default:
				fmt.Fprintln(a.stdout, "unknown command. Type :quit to exit.")
			}
			continue
		}

		p.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		res, err := interp.Execute(ctx, code)
		if err != nil {
			fmt.Fprintln(a.stderr, err)
			continue
		}
		if res.Value != object.NULL {
			fmt.Fprintln(a.stdout, object.Repr(res.Value))
		}
	}
}

// readInput keeps prompting while the input so far ends prematurely, so
// blocks can span several lines.
func readInput(p prompter) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := p.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, err := parser.Parse("<repl>", src); err != nil && incomplete(err) {
			continue
		}
		return src, true
	}
}

func incomplete(err error) bool {
	var perr *parser.Error
	return errors.As(err, &perr) && strings.HasSuffix(perr.Msg, "end of input")
}
