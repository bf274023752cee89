package fs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

const (
	filePerm  = 0644
	tmpSuffix = ".tmp"
)

// writeFileAtomic streams data into a hidden temp file beside filename while
// hashing it, flushes it, and renames it over filename. onDigest, when set,
// receives the blake3 digest after the data is durable and before the rename
// makes it visible to watchers.
func writeFileAtomic(filename string, data []byte, onDigest func([32]byte)) ([32]byte, error) {
	var sum [32]byte

	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*"+tmpSuffix)
	if err != nil {
		return sum, fmt.Errorf("stage %s: %w", filepath.Base(filename), err)
	}
	renamed := false
	defer func() {
		if !renamed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	h := blake3.New()
	if _, err := io.Copy(io.MultiWriter(tmp, h), bytes.NewReader(data)); err != nil {
		return sum, fmt.Errorf("stage %s: %w", filepath.Base(filename), err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return sum, fmt.Errorf("stage %s: %w", filepath.Base(filename), err)
	}
	if err := tmp.Sync(); err != nil {
		return sum, fmt.Errorf("flush %s: %w", filepath.Base(filename), err)
	}
	if err := tmp.Close(); err != nil {
		return sum, fmt.Errorf("flush %s: %w", filepath.Base(filename), err)
	}
	copy(sum[:], h.Sum(nil))

	if onDigest != nil {
		onDigest(sum)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return sum, fmt.Errorf("replace %s: %w", filename, err)
	}
	renamed = true
	return sum, nil
}
