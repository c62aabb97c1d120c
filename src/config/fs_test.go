package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing/fstest"
)

// memFS serves an fstest.MapFS under absolute slash paths ("/a/b" maps to
// "a/b") and counts accesses. Setting fail makes every call error.
type memFS struct {
	files fstest.MapFS
	reads int
	lists int
	fail  bool
}

var errFSAccess = errors.New("unexpected filesystem access")

func newMemFS(files map[string]string) *memFS {
	m := &memFS{files: fstest.MapFS{}}
	for name, content := range files {
		m.files[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

func (m *memFS) ReadFile(name string) ([]byte, error) {
	m.reads++
	if m.fail {
		return nil, errFSAccess
	}
	return fs.ReadFile(m.files, memKey(name))
}

func (m *memFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.lists++
	if m.fail {
		return nil, errFSAccess
	}
	return fs.ReadDir(m.files, memKey(name))
}

func memKey(name string) string {
	name = filepath.ToSlash(filepath.Clean(name))
	if name == "/" {
		return "."
	}
	return strings.TrimPrefix(name, "/")
}
