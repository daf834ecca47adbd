package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"patchstatus/internal/config"
)

// ProjectPaths captures canonical locations for a project. Root is the
// document root; the manifest and lock file sit in its parent by default.
type ProjectPaths struct {
	Root         string
	ConfigFile   string
	ManifestFile string
	LockFile     string
	PatchBase    string
	LogsDir      string
}

// Resolve determines the project root using the optional --root flag or the
// current working directory when the flag is empty.
func Resolve(rootFlag string) (ProjectPaths, error) {
	var (
		root string
		err  error
	)

	if rootFlag != "" {
		root, err = filepath.Abs(rootFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return ProjectPaths{}, fmt.Errorf("resolve project root: %w", err)
	}

	return newProjectPaths(root), nil
}

func newProjectPaths(root string) ProjectPaths {
	parent := filepath.Dir(root)
	return ProjectPaths{
		Root:         root,
		ConfigFile:   filepath.Join(root, "patchstatus.yaml"),
		ManifestFile: filepath.Join(parent, "composer.json"),
		LockFile:     filepath.Join(parent, "composer.lock"),
		PatchBase:    root,
	}
}

// WithConfigFile points the config location at path, resolved against the
// working directory.
func (p ProjectPaths) WithConfigFile(path string) (ProjectPaths, error) {
	if path == "" {
		return p, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return p, fmt.Errorf("resolve config path: %w", err)
	}
	p.ConfigFile = abs
	return p, nil
}

// ApplyConfig resolves the configured file locations against the root.
func ApplyConfig(pp ProjectPaths, cfg config.Config) ProjectPaths {
	if cfg.Manifest != "" {
		pp.ManifestFile = resolveProjectPath(pp.Root, cfg.Manifest)
	}
	if cfg.Lock != "" {
		pp.LockFile = resolveProjectPath(pp.Root, cfg.Lock)
	}
	if cfg.Patch.BaseDir != "" {
		pp.PatchBase = resolveProjectPath(pp.Root, cfg.Patch.BaseDir)
	}
	if cfg.LogDir != "" {
		pp.LogsDir = resolveProjectPath(pp.Root, cfg.LogDir)
	}
	return pp
}

func resolveProjectPath(root, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(root, value)
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
