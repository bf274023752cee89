package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// DevDir is the directory under os.TempDir() used by the dev sandbox.
const DevDir = "simplelog-dev"

// IsDevRun reports whether the process runs via `go run` or `go test`.
// Both build their binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}

	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveDataPath returns the directory actually used for userPath. With
// forceTemp the path is re-rooted under os.TempDir()/simplelog-dev, unless
// it already lives inside the temp directory (e.g. t.TempDir()).
func ResolveDataPath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	if filepath.IsAbs(clean) {
		rel, err := filepath.Rel(os.TempDir(), clean)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return clean
		}
	}

	sub := filepath.Base(clean)
	if userPath == "" || sub == "." || sub == string(filepath.Separator) {
		sub = "default"
	}
	return filepath.Join(os.TempDir(), DevDir, sub)
}

// resolve applies the sandbox rules to uri and logs the outcome.
func (o *options) resolve(uri string) string {
	bypass := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypass)
	path := ResolveDataPath(uri, useTemp)

	if useTemp && path != filepath.Clean(uri) {
		o.log().Warn("running in SAFE MODE (dev/test)", "original_path", uri, "resolved_path", path)
	} else if IsDevRun() && bypass && !o.readOnly {
		o.log().Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", path)
	}
	return path
}
