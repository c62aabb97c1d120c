package lint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/sofmeright/lintrc/src/config"
	"github.com/sofmeright/lintrc/src/log"
)

// ConfigSource yields the resolved configuration for a file.
// *config.Resolver satisfies it.
type ConfigSource interface {
	GetConfig(path string) (config.Object, error)
}

// Engine runs lint modules over files, configuring each file from the
// configuration resolved for its directory.
type Engine struct {
	Source  ConfigSource
	RootDir string
	Only    []string // run only these modules, when non-empty
	Skip    []string // never run these modules

	logger zerolog.Logger
	sets   map[string][]activeModule // by directory
}

type activeModule struct {
	Module
	level Level
}

type task struct {
	file    FileInfo
	modules []activeModule
}

// NewEngine creates a lint engine. Every name in only and skip must be a
// registered module.
func NewEngine(src ConfigSource, rootDir string, only, skip []string) (*Engine, error) {
	known := make(map[string]bool)
	for _, name := range All() {
		known[name] = true
	}
	for _, name := range append(append([]string{}, only...), skip...) {
		if !known[name] {
			return nil, fmt.Errorf("lint: unknown module: %s", name)
		}
	}

	return &Engine{
		Source:  src,
		RootDir: rootDir,
		Only:    only,
		Skip:    skip,
		logger:  log.WithComponent("lint"),
		sets:    make(map[string][]activeModule),
	}, nil
}

// ModuleStats holds per-module scan statistics.
type ModuleStats struct {
	Name     string
	Files    int
	Findings int
	Critical int
	Warnings int
}

// Run executes the configured modules against the given files.
func (e *Engine) Run(ctx context.Context, files []FileInfo) ([]Finding, error) {
	findings, _, err := e.RunWithStats(ctx, files)
	return findings, err
}

// RunWithStats executes the configured modules and returns findings plus
// per-module statistics. Configuration is resolved for every file on the
// calling goroutine before any module runs; modules then run in parallel.
func (e *Engine) RunWithStats(ctx context.Context, files []FileInfo) ([]Finding, []ModuleStats, error) {
	tasks, err := e.plan(files)
	if err != nil {
		return nil, nil, err
	}

	var (
		mu       sync.Mutex
		findings []Finding
		wg       sync.WaitGroup
		errs     []error
		stats    = make(map[string]*ModuleStats)
	)

	sem := semaphore.NewWeighted(int64(runtime.NumCPU() * 2))

	for _, t := range tasks {
		for _, mod := range t.modules {
			if err := sem.Acquire(ctx, 1); err != nil {
				wg.Wait()
				return findings, collectStats(stats), err
			}
			wg.Add(1)
			go func(m activeModule, f FileInfo) {
				defer wg.Done()
				defer sem.Release(1)

				results, err := m.Check(ctx, f)

				mu.Lock()
				defer mu.Unlock()
				st, ok := stats[m.Name()]
				if !ok {
					st = &ModuleStats{Name: m.Name()}
					stats[m.Name()] = st
				}
				st.Files++
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %s: %w", m.Name(), f.Path, err))
					return
				}
				for _, r := range results {
					if m.level == LevelError {
						r.Severity = SeverityCritical
					}
					st.Findings++
					switch r.Severity {
					case SeverityCritical:
						st.Critical++
					case SeverityWarning:
						st.Warnings++
					}
					findings = append(findings, r)
				}
			}(mod, t.file)
		}
	}

	wg.Wait()
	SortFindings(findings)

	if len(errs) > 0 {
		return findings, collectStats(stats), fmt.Errorf("%d module errors (first: %w)", len(errs), errs[0])
	}
	return findings, collectStats(stats), nil
}

// plan resolves configuration per file, dropping blacklisted files.
func (e *Engine) plan(files []FileInfo) ([]task, error) {
	tasks := make([]task, 0, len(files))
	for _, f := range files {
		cfg, err := e.Source.GetConfig(f.AbsPath)
		if err != nil {
			return nil, fmt.Errorf("resolving config for %s: %w", f.Path, err)
		}
		if IsBlacklisted(cfg, f.AbsPath) {
			e.logger.Debug().Str("file", f.Path).Msg("blacklisted")
			continue
		}
		mods, err := e.modulesFor(filepath.Dir(f.AbsPath), cfg)
		if err != nil {
			return nil, err
		}
		if len(mods) > 0 {
			tasks = append(tasks, task{file: f, modules: mods})
		}
	}
	return tasks, nil
}

// modulesFor instantiates and configures the modules enabled for dir.
// Instances are shared by every file of the directory, so Check must not
// mutate module state.
func (e *Engine) modulesFor(dir string, cfg config.Object) ([]activeModule, error) {
	if mods, ok := e.sets[dir]; ok {
		return mods, nil
	}

	rules, err := RulesFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("config for %s: %w", dir, err)
	}

	only := toSet(e.Only)
	skip := toSet(e.Skip)

	var mods []activeModule
	for _, name := range All() {
		if skip[name] || (len(only) > 0 && !only[name]) {
			continue
		}
		r, ok := rules[name]
		if !ok || r.Level == LevelOff {
			continue
		}
		m, err := Get(name)
		if err != nil {
			return nil, err
		}
		if cm, ok := m.(ConfigurableModule); ok {
			if err := cm.Configure(r.Options); err != nil {
				return nil, fmt.Errorf("config for %s: rule %s: %w", dir, name, err)
			}
		}
		mods = append(mods, activeModule{Module: m, level: r.Level})
	}

	for name := range rules {
		if _, err := Get(name); err != nil {
			e.logger.Debug().Str("rule", name).Str("dir", dir).Msg("no module for rule")
		}
	}

	e.sets[dir] = mods
	return mods, nil
}

// CollectFiles walks the given roots (default: RootDir) and returns their
// regular files. Hidden directories are skipped, and so is any directory
// blacklisted by its own resolved configuration. Blacklisted files are
// dropped later, when the engine plans the run.
func (e *Engine) CollectFiles(roots ...string) ([]FileInfo, error) {
	if len(roots) == 0 {
		roots = []string{e.RootDir}
	}

	var files []FileInfo
	for _, root := range roots {
		if !filepath.IsAbs(root) {
			root = filepath.Join(e.RootDir, root)
		}
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				cfg, err := e.Source.GetConfig(filepath.Join(path, config.LocalConfigFilename))
				if err != nil {
					return err
				}
				if IsBlacklisted(cfg, path) {
					e.logger.Debug().Str("dir", path).Msg("skipping blacklisted directory")
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return err
			}

			files = append(files, FileInfo{
				Path:    e.relPath(path),
				AbsPath: path,
				Size:    info.Size(),
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

func (e *Engine) relPath(path string) string {
	rel, err := filepath.Rel(e.RootDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// SortFindings orders findings by file, position, module and message.
func SortFindings(findings []Finding) {
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		return a.Message < b.Message
	})
}

func collectStats(m map[string]*ModuleStats) []ModuleStats {
	out := make([]ModuleStats, 0, len(m))
	for _, st := range m {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
