package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FileSystem is the read capability the resolver needs. OSFileSystem is the
// production implementation; tests substitute their own.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	ReadDir(name string) ([]fs.DirEntry, error)
}

// OSFileSystem reads from the host filesystem.
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(name string) ([]byte, error)       { return os.ReadFile(name) }
func (OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }

// LoadFile reads and decodes the configuration file at path.
// A missing file yields an error matching fs.ErrNotExist; undecodable
// contents yield a *ParseError.
func LoadFile(fsys FileSystem, path string) (Object, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes configuration data; name is only used for error reporting.
// A document whose first significant byte is '{' is strict JSON: duplicate
// keys resolve to the last value and trailing commas are errors. Anything
// else is YAML. Integral numbers decode as int under both syntaxes and
// nested objects as map[string]any.
func Parse(data []byte, name string) (Object, error) {
	var (
		cfg map[string]any
		err error
	)
	if trimmed := bytes.TrimLeft(data, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '{' {
		cfg, err = parseJSON(trimmed)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	if cfg == nil {
		return nil, &ParseError{Path: name, Err: errors.New("empty document")}
	}
	return Object(cfg), nil
}

func parseJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var cfg map[string]any
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level object")
	}
	return normalizeNumbers(cfg).(map[string]any), nil
}

// normalizeNumbers replaces json.Number values with int, or float64 when the
// number is not integral or does not fit.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	case json.Number:
		if n, err := strconv.Atoi(t.String()); err == nil {
			return n
		}
		f, _ := t.Float64()
		return f
	}
	return v
}
