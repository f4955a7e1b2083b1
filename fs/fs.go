// Package fs abstracts the file system used to resolve script modules, so
// that tests and embeddings can serve sources from memory.
package fs

import (
	i_fs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing/fstest"
	"time"
)

// FS is what the interpreter needs to load scripts and resolve modules
// named by use and import, and what daro check needs to find scripts.
type FS interface {
	Stat(name string) (i_fs.FileInfo, error)
	ReadDir(name string) ([]i_fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
	WalkDir(root string, fn i_fs.WalkDirFunc) error
}

// diskFS reads scripts from the host file system. Module paths arrive
// already joined with the interpreter root, so names are used as given.
type diskFS struct{}

// NewOSFS returns the FS the daro command runs scripts from.
func NewOSFS() FS { return diskFS{} }

func (diskFS) Stat(name string) (i_fs.FileInfo, error)      { return os.Stat(name) }
func (diskFS) ReadDir(name string) ([]i_fs.DirEntry, error) { return os.ReadDir(name) }
func (diskFS) ReadFile(name string) ([]byte, error)         { return os.ReadFile(name) }

func (diskFS) WalkDir(root string, fn i_fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

// memFS serves files from memory. Paths are slash separated; a leading
// "/" or "./" is ignored.
type memFS struct {
	files fstest.MapFS
}

// NewMemFS creates an in-memory FS holding files, keyed by path.
func NewMemFS(files map[string]string) FS {
	m := make(fstest.MapFS, len(files))
	for name, content := range files {
		m[clean(name)] = &fstest.MapFile{Data: []byte(content), Mode: 0o644, ModTime: time.Unix(0, 0)}
	}
	return &memFS{files: m}
}

func clean(name string) string {
	name = filepath.ToSlash(filepath.Clean(name))
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "."
	}
	return name
}

func (f *memFS) Stat(name string) (i_fs.FileInfo, error) {
	return f.files.Stat(clean(name))
}

func (f *memFS) ReadDir(name string) ([]i_fs.DirEntry, error) {
	return f.files.ReadDir(clean(name))
}

func (f *memFS) ReadFile(name string) ([]byte, error) {
	return f.files.ReadFile(clean(name))
}

func (f *memFS) WalkDir(root string, fn i_fs.WalkDirFunc) error {
	return i_fs.WalkDir(f.files, clean(root), fn)
}
