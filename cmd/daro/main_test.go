package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/podhmo/daro"
	"github.com/podhmo/daro/fs"
)

func newTestApp(files map[string]string) (*app, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &app{fsys: fs.NewMemFS(files), stdout: &stdout, stderr: &stderr}, &stdout, &stderr
}

func TestRun(t *testing.T) {
	files := map[string]string{
		"main.daro":       `use "lib/greet"; println(greet.hello(name))`,
		"lib/greet.daro":  `fn hello(who) { "hello " + who }`,
		"prelude.daro":    `name = "world"`,
		"broken.daro":     "fn (",
		"fail.daro":       "1 / 0",
		"daro.yaml":       "version: v0.1.0\nlog_level: error\npreload:\n  - prelude.daro\n",
		"sub/daro.yaml":   "root: ..\nglobals:\n  name: sub\n",
		"sub/main.daro":   `use "lib/greet"; println(greet.hello(name))`,
		"future/x.yaml":   "version: v99.0.0\n",
		"badlevel/x.yaml": "log_level: loud\n",
	}

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"preload and modules", []string{"run", "main.daro"}, 0, "hello world\n", ""},
		{"config root and globals", []string{"run", "-config", "sub/daro.yaml", "sub/main.daro"}, 0, "hello sub\n", ""},
		{"syntax error", []string{"run", "broken.daro"}, 1, "", "Program terminated with errors: broken.daro"},
		{"runtime error", []string{"run", "fail.daro"}, 1, "", "Program terminated with errors: fail.daro"},
		{"missing file", []string{"run", "missing.daro"}, 1, "", "Program terminated with errors: reading script"},
		{"version requirement", []string{"run", "-config", "future/x.yaml", "main.daro"}, 1, "", "requires daro v99.0.0"},
		{"bad log level", []string{"run", "-config", "badlevel/x.yaml", "main.daro"}, 1, "", `unknown log level "loud"`},
		{"missing config", []string{"run", "-config", "nope.yaml", "main.daro"}, 1, "", "reading config"},
		{"usage", []string{"run"}, 2, "", "usage: daro run"},
		{"unknown command", []string{"frobnicate"}, 2, "", `unknown command "frobnicate"`},
		{"version", []string{"version"}, 0, daro.Version + "\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, stdout, stderr := newTestApp(files)
			code := a.main(context.Background(), tt.args)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
			if diff := cmp.Diff(tt.wantStdout, stdout.String()); diff != "" {
				t.Errorf("stdout mismatch (-want +got):\n%s", diff)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr %q does not contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	files := map[string]string{
		"ok.daro":            "x = 1",
		"lib/a.daro":         "fn a() { 1 }",
		"lib/b.daro":         "fn b( { 1 }",
		"lib/notes.txt":      "not a script",
		"lib/.hidden/c.daro": "((",
		"bad/c.daro":         "x = ",
	}

	t.Run("all", func(t *testing.T) {
		a, _, stderr := newTestApp(files)
		if code := a.main(context.Background(), []string{"check"}); code != 1 {
			t.Fatalf("exit code = %d, want 1", code)
		}
		lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("unexpected output:\n%s", stderr)
		}
		if !strings.HasPrefix(lines[0], "bad/c.daro") || !strings.HasPrefix(lines[1], "lib/b.daro") {
			t.Errorf("errors are not sorted by file:\n%s", stderr)
		}
		if diff := cmp.Diff("2 of 4 files have syntax errors", lines[2]); diff != "" {
			t.Errorf("summary mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("clean files", func(t *testing.T) {
		a, stdout, _ := newTestApp(files)
		if code := a.main(context.Background(), []string{"check", "ok.daro", "lib/a.daro"}); code != 0 {
			t.Fatalf("exit code = %d, want 0", code)
		}
		if diff := cmp.Diff("ok, 2 files\n", stdout.String()); diff != "" {
			t.Errorf("stdout mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		a, _, _ := newTestApp(files)
		if code := a.main(context.Background(), []string{"check", "nowhere"}); code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
	})
}

func TestTokens(t *testing.T) {
	a, stdout, _ := newTestApp(map[string]string{"x.daro": "x = 42"})
	if code := a.main(context.Background(), []string{"tokens", "x.daro"}); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	want := "0:1\tIDENTIFIER(x)\n2:3\t=\n4:6\tINTEGER(42)\n"
	if diff := cmp.Diff(want, stdout.String()); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

type fakePrompter struct {
	lines   []string
	history []string
}

func (p *fakePrompter) Prompt(string) (string, error) {
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func (p *fakePrompter) AppendHistory(item string) { p.history = append(p.history, item) }

func TestRepl(t *testing.T) {
	a, stdout, stderr := newTestApp(nil)
	interp := daro.New(daro.WithStdout(a.stdout))
	p := &fakePrompter{lines: []string{
		"x = 20",
		"fn twice(n) {",
		"  n * 2",
		"}",
		"twice(x) + 2",
		`"s"`,
		"missing",
		":what",
		":reset",
		"x",
		":quit",
		"never read",
	}}
	a.repl(context.Background(), interp, p)

	if diff := cmp.Diff("fn twice(n)\n42\n\"s\"\nunknown command. Type :quit to exit.\n", stdout.String()); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
	if got := strings.Count(stderr.String(), "undefined"); got != 2 {
		t.Errorf("expected two undefined errors, got:\n%s", stderr)
	}
	if diff := cmp.Diff([]string{"never read"}, p.lines); diff != "" {
		t.Errorf(":quit should stop reading (-want +got):\n%s", diff)
	}
	if len(p.history) < 2 || p.history[1] != "fn twice(n) {   n * 2 }" {
		t.Errorf("unexpected history %q", p.history)
	}
}
