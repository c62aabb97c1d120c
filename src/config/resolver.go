// Package config resolves the effective lint configuration for a file.
//
// Every result is the built-in baseline with one override layer merged on
// top: the explicit file passed at construction, or else the nearest
// .lintrc found by walking up from the file's directory. Results are
// memoized per directory for the lifetime of the Resolver.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sofmeright/lintrc/src/log"
)

//go:embed conf/baseline.json
var baselineJSON []byte

const embeddedBaselineName = "conf/baseline.json"

// Options configures a Resolver.
type Options struct {
	// Config is an explicit config file. When set, local discovery is
	// disabled for every request.
	Config string
	// Format is stored verbatim under the "format" key of the baseline and
	// the explicit config when non-empty.
	Format string
	// Cwd anchors relative paths and is where discovery starts for an empty
	// directory. Defaults to the process working directory at New.
	Cwd string
	// BaselineFile replaces the embedded baseline.
	BaselineFile string
	// InstallDir is the directory the embedded baseline's blacklist is
	// relative to. Defaults to the directory of the running executable.
	InstallDir string
	// FS defaults to OSFileSystem.
	FS FileSystem
	// Logger receives non-fatal diagnostics. Defaults to the "config"
	// component logger.
	Logger *zerolog.Logger
}

// Resolver builds merged configurations. It does no locking: share one
// Resolver across goroutines only behind external synchronization.
type Resolver struct {
	fs       FileSystem
	cwd      string
	logger   zerolog.Logger
	baseline Object
	explicit Object
	cache    map[string]Object
}

// New loads the baseline and, if requested, the explicit config. Failure to
// load either returns an *InitError.
func New(opts Options) (*Resolver, error) {
	r := &Resolver{
		fs:    opts.FS,
		cwd:   opts.Cwd,
		cache: make(map[string]Object),
	}
	if r.fs == nil {
		r.fs = OSFileSystem{}
	}
	if opts.Logger != nil {
		r.logger = *opts.Logger
	} else {
		r.logger = log.WithComponent("config")
	}
	if r.cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		r.cwd = wd
	}

	baseline, err := r.loadBaseline(opts)
	if err != nil {
		return nil, err
	}
	if opts.Format != "" {
		baseline[FormatKey] = opts.Format
	}
	r.baseline = baseline

	if opts.Config != "" {
		path := r.abs(opts.Config)
		explicit, err := LoadFile(r.fs, path)
		if err != nil {
			return nil, &InitError{Path: path, Err: err}
		}
		explicit = ResolveBlacklistPaths(explicit, filepath.Dir(path))
		if opts.Format != "" {
			explicit[FormatKey] = opts.Format
		}
		r.explicit = explicit
		r.logger.Debug().Str("path", path).Msg("using explicit config")
	}

	return r, nil
}

func (r *Resolver) loadBaseline(opts Options) (Object, error) {
	if opts.BaselineFile != "" {
		path := r.abs(opts.BaselineFile)
		cfg, err := LoadFile(r.fs, path)
		if err != nil {
			return nil, &InitError{Path: path, Err: err}
		}
		return ResolveBlacklistPaths(cfg, filepath.Dir(path)), nil
	}

	cfg, err := Parse(baselineJSON, embeddedBaselineName)
	if err != nil {
		return nil, &InitError{Path: embeddedBaselineName, Err: err}
	}
	dir := opts.InstallDir
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, &InitError{Path: embeddedBaselineName, Err: fmt.Errorf("locating executable: %w", err)}
		}
		dir = filepath.Dir(exe)
	}
	return ResolveBlacklistPaths(cfg, r.abs(dir)), nil
}

// GetConfig returns the merged configuration for the directory containing
// filePath. The result is cached and shared; callers must not modify it.
func (r *Resolver) GetConfig(filePath string) (Object, error) {
	dir := filepath.Dir(r.abs(filePath))
	if cfg, ok := r.cache[dir]; ok {
		return cfg, nil
	}

	override := r.explicit
	if override == nil {
		local, err := r.localConfig(dir)
		if err != nil {
			return nil, err
		}
		override = local
	}

	cfg := Merge(r.baseline, override)
	r.cache[dir] = cfg
	return cfg, nil
}

// localConfig discovers and loads the local config for dir. A file that
// fails to load is reported and replaced by an empty layer; only discovery
// errors are returned.
func (r *Resolver) localConfig(dir string) (Object, error) {
	path, found, err := FindLocalConfigFile(r.fs, dir)
	if err != nil {
		return nil, err
	}
	if !found {
		return Object{}, nil
	}

	cfg, err := LoadFile(r.fs, path)
	if err != nil {
		ev := r.logger.Warn().Str("path", path).Err(err)
		var perr *ParseError
		if errors.As(err, &perr) {
			ev.Msg("cannot parse config file, using baseline")
		} else {
			ev.Msg("cannot read config file, using baseline")
		}
		return Object{}, nil
	}
	r.logger.Debug().Str("path", path).Str("dir", dir).Msg("loaded local config")
	return ResolveBlacklistPaths(cfg, filepath.Dir(path)), nil
}

// FindLocalConfigFile runs discovery from dir. An empty dir starts at the
// resolver's working directory.
func (r *Resolver) FindLocalConfigFile(dir string) (string, bool, error) {
	if dir == "" {
		dir = r.cwd
	}
	return FindLocalConfigFile(r.fs, r.abs(dir))
}

// Baseline returns a copy of the normalized baseline.
func (r *Resolver) Baseline() Object { return r.baseline.Clone() }

// Explicit returns a copy of the explicit config, or nil when discovery is
// in use.
func (r *Resolver) Explicit() Object { return r.explicit.Clone() }

// CacheLen reports how many directories have been resolved.
func (r *Resolver) CacheLen() int { return len(r.cache) }

func (r *Resolver) abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(r.cwd, p)
}
