// Package storage locates dataset and output files. Relative references resolve against the
// application data directory first and the working directory second.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const appDirName = "EarliestElephant"

var (
	dataDirMu       sync.Mutex
	dataDirPath     string
	dataDirOverride string
)

// SetDataDir overrides the data directory. An empty dir restores platform resolution.
func SetDataDir(dir string) {
	dataDirMu.Lock()
	defer dataDirMu.Unlock()
	dataDirOverride = dir
	dataDirPath = ""
}

// DataDir returns the platform-appropriate data directory and creates it if missing.
func DataDir() string {
	dataDirMu.Lock()
	defer dataDirMu.Unlock()
	if dataDirPath == "" {
		dataDirPath = resolveDataDir()
		_ = os.MkdirAll(dataDirPath, 0o755)
	}
	return dataDirPath
}

// DataFile joins the data directory with the provided relative name.
func DataFile(name string) string {
	return filepath.Join(DataDir(), name)
}

// Resolve maps a file reference to a path on disk. Absolute paths are returned unchanged;
// relative ones prefer the data directory and fall back to the working directory.
func Resolve(ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	primary := DataFile(ref)
	if _, err := os.Stat(primary); err == nil {
		return primary
	}
	return filepath.Clean(ref)
}

// ReadFile reads a referenced file, trying the data directory before the working directory.
func ReadFile(ref string) ([]byte, error) {
	if filepath.IsAbs(ref) {
		return os.ReadFile(ref)
	}
	data, err := os.ReadFile(DataFile(ref))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		return data, err
	}

	local, localErr := os.ReadFile(ref)
	if localErr != nil {
		return nil, localErr
	}
	return local, nil
}

// WriteFile writes data to path, relative paths landing in the data directory.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if !filepath.IsAbs(path) {
		path = DataFile(path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

func resolveDataDir() string {
	if dataDirOverride != "" {
		return dataDirOverride
	}

	switch runtime.GOOS {
	case "windows":
		if base := os.Getenv("APPDATA"); base != "" {
			return filepath.Join(base, appDirName)
		}
		if base := os.Getenv("LOCALAPPDATA"); base != "" {
			return filepath.Join(base, appDirName)
		}
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support", appDirName)
		}
	case "js":
		return "."
	default: // Linux and others
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName)
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".local", "share", appDirName)
		}
	}

	return filepath.Join(".", appDirName)
}
