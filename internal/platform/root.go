package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DataDir is the default data directory name, relative to the project root.
const DataDir = ".simplelog"

// ConfigFile is the config file name looked up next to the data directory.
const ConfigFile = "simplelog.yaml"

// ErrRootNotFound is returned when no directory above the start holds a
// data directory or a config file.
var ErrRootNotFound = errors.New("root not found")

// Root is a project directory recognised by its simplelog indicators.
type Root struct {
	Dir       string
	HasData   bool // Dir/.simplelog is a directory
	HasConfig bool // Dir/simplelog.yaml is a regular file
}

// ConfigPath is where the config file of this root lives, present or not.
func (r Root) ConfigPath() string {
	return filepath.Join(r.Dir, ConfigFile)
}

// Resolve anchors a relative path at the root directory.
func (r Root) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.Dir, path)
}

// LocateRoot walks from startDir towards the filesystem root and returns the
// first directory carrying a .simplelog directory or a simplelog.yaml file.
func LocateRoot(startDir string) (Root, error) {
	start, err := filepath.Abs(startDir)
	if err != nil {
		return Root{}, err
	}

	for dir := start; ; {
		r := Root{
			Dir:       dir,
			HasData:   statIs(filepath.Join(dir, DataDir), true),
			HasConfig: statIs(filepath.Join(dir, ConfigFile), false),
		}
		if r.HasData || r.HasConfig {
			return r, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Root{}, fmt.Errorf("%w above %s", ErrRootNotFound, start)
		}
		dir = parent
	}
}

// FindRoot returns the directory found by LocateRoot.
func FindRoot(startDir string) (string, error) {
	r, err := LocateRoot(startDir)
	return r.Dir, err
}

func statIs(path string, dir bool) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir() == dir
}
