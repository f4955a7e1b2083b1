package main

import (
	"context"
	"errors"
	"fmt"
	i_fs "io/fs"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/podhmo/daro/parser"
	"golang.org/x/sync/errgroup"
)

func (a *app) cmdCheck(ctx context.Context, args []string) int {
	var opts options
	fset := a.flagSet("check", &opts)
	if err := fset.Parse(args); err != nil {
		return 2
	}
	paths := fset.Args()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := a.collect(paths)
	if err != nil {
		fmt.Fprintf(a.stderr, "daro: %v\n", err)
		return 1
	}
	errs, err := a.check(ctx, files)
	if err != nil {
		fmt.Fprintf(a.stderr, "daro: %v\n", err)
		return 1
	}
	for _, e := range errs {
		fmt.Fprintln(a.stderr, e)
	}
	if len(errs) > 0 {
		fmt.Fprintf(a.stderr, "%d of %d files have syntax errors\n", countFiles(errs), len(files))
		return 1
	}
	fmt.Fprintf(a.stdout, "ok, %d files\n", len(files))
	return 0
}

// collect expands directories into the script files below them.
func (a *app) collect(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := a.fsys.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = a.fsys.WalkDir(p, func(path string, d i_fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && len(d.Name()) > 1 && d.Name()[0] == '.' {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".daro" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}
	return files, nil
}

// check parses files concurrently and returns the syntax errors sorted by
// file and offset. I/O errors abort the whole check.
func (a *app) check(ctx context.Context, files []string) (parser.ErrorList, error) {
	var (
		mu   sync.Mutex
		errs parser.ErrorList
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := a.fsys.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}
			if _, err := parser.Parse(file, string(src)); err != nil {
				var perr *parser.Error
				if !errors.As(err, &perr) {
					return err
				}
				mu.Lock()
				errs = append(errs, perr)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	errs.Sort()
	return errs, nil
}

func countFiles(errs parser.ErrorList) int {
	seen := make(map[string]bool)
	for _, e := range errs {
		seen[e.Pos.File] = true
	}
	return len(seen)
}
