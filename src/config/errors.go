package config

import "fmt"

// ParseError reports a configuration file whose contents could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FileSystemError reports a directory that could not be listed during
// local config discovery.
type FileSystemError struct {
	Dir string
	Err error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("listing %s: %v", e.Dir, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }

// InitError is returned by New when the baseline or the explicit config
// cannot be loaded. No resolver is usable after it.
type InitError struct {
	Path string
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing config from %s: %v", e.Path, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
