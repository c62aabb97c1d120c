package config

import "path/filepath"

// LocalConfigFilename is the per-directory config file looked up during
// discovery.
const LocalConfigFilename = ".lintrc"

// FindLocalConfigFile walks from dir towards the filesystem root and returns
// the path of the nearest LocalConfigFilename. found is false when the root
// is reached without a match. A directory that cannot be listed stops the
// walk with a *FileSystemError.
func FindLocalConfigFile(fsys FileSystem, dir string) (path string, found bool, err error) {
	dir = filepath.Clean(dir)
	for {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			return "", false, &FileSystemError{Dir: dir, Err: err}
		}
		for _, e := range entries {
			if e.Name() == LocalConfigFilename && !e.IsDir() {
				return filepath.Join(dir, LocalConfigFilename), true, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
