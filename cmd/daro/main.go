// Command daro runs, checks and explores daro scripts.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/podhmo/daro"
	"github.com/podhmo/daro/fs"
	"github.com/podhmo/daro/lexer"
)

const usageText = `daro %s

Usage:
  daro run [options] <file.daro>     Run a script.
  daro repl [options]                Start the interactive shell.
  daro check [options] [path ...]    Report syntax errors (default ".").
  daro tokens <file.daro>            Print the tokens of a script.
  daro version                       Print the interpreter version.

Options:
  -config string     config file (default "daro.yaml" when present)
  -log-level string  debug, info, warn or error
  -root string       base directory for modules
`

type app struct {
	fsys   fs.FS
	stdout io.Writer
	stderr io.Writer
}

func main() {
	a := &app{fsys: fs.NewOSFS(), stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(a.main(context.Background(), os.Args[1:]))
}

func (a *app) main(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.usage()
		return 2
	}
	switch cmd, rest := args[0], args[1:]; cmd {
	case "run":
		return a.cmdRun(ctx, rest)
	case "repl":
		return a.cmdRepl(ctx, rest)
	case "check":
		return a.cmdCheck(ctx, rest)
	case "tokens":
		return a.cmdTokens(rest)
	case "version":
		fmt.Fprintln(a.stdout, daro.Version)
		return 0
	case "-h", "--help", "help":
		a.usage()
		return 0
	default:
		fmt.Fprintf(a.stderr, "daro: unknown command %q\n", cmd)
		a.usage()
		return 2
	}
}

func (a *app) usage() {
	fmt.Fprintf(a.stderr, usageText, daro.Version)
}

// options are the flags shared by run, repl and check.
type options struct {
	config   string
	logLevel string
	root     string
}

func (a *app) flagSet(name string, opts *options) *flag.FlagSet {
	fset := flag.NewFlagSet(name, flag.ContinueOnError)
	fset.SetOutput(a.stderr)
	fset.StringVar(&opts.config, "config", "", "config file")
	fset.StringVar(&opts.logLevel, "log-level", "", "log level")
	fset.StringVar(&opts.root, "root", "", "base directory for modules")
	return fset
}

// interpreter builds an interpreter from the config file and the flags,
// and runs the preload files.
func (a *app) interpreter(ctx context.Context, opts *options) (*daro.Interpreter, error) {
	path, required := opts.config, true
	if path == "" {
		path, required = DefaultConfigFile, false
	}
	conf, err := LoadConfig(a.fsys, path, required)
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	for _, s := range []string{conf.LogLevel, opts.logLevel} {
		if s == "" {
			continue
		}
		if level, err = parseLevel(s); err != nil {
			return nil, err
		}
	}
	root := conf.RootDir()
	if opts.root != "" {
		root = opts.root
	}
	globals := make(map[string]any, len(conf.Globals))
	for k, v := range conf.Globals {
		globals[k] = v
	}

	logger := slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	interp := daro.New(
		daro.WithStdout(a.stdout),
		daro.WithStderr(a.stderr),
		daro.WithLogger(logger),
		daro.WithFS(a.fsys),
		daro.WithRoot(root),
		daro.WithGlobals(globals),
	)
	for _, file := range conf.PreloadFiles() {
		logger.DebugContext(ctx, "preloading", "file", file)
		if _, err := interp.ExecuteFile(ctx, file); err != nil {
			return nil, fmt.Errorf("preload %s: %w", file, err)
		}
	}
	return interp, nil
}

func (a *app) cmdRun(ctx context.Context, args []string) int {
	var opts options
	fset := a.flagSet("run", &opts)
	if err := fset.Parse(args); err != nil {
		return 2
	}
	if fset.NArg() != 1 {
		fmt.Fprintln(a.stderr, "usage: daro run [options] <file.daro>")
		return 2
	}

	interp, err := a.interpreter(ctx, &opts)
	if err != nil {
		fmt.Fprintf(a.stderr, "Program terminated with errors: %v\n", err)
		return 1
	}
	if _, err := interp.ExecuteFile(ctx, fset.Arg(0)); err != nil {
		fmt.Fprintf(a.stderr, "Program terminated with errors: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) cmdTokens(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(a.stderr, "usage: daro tokens <file.daro>")
		return 2
	}
	src, err := a.fsys.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(a.stderr, "daro: %v\n", err)
		return 1
	}
	for tok := range lexer.New(args[0], string(src)).All() {
		fmt.Fprintf(a.stdout, "%d:%d\t%s\n", tok.Pos.Start, tok.Pos.End, tok)
	}
	return 0
}
