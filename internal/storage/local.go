package storage

import (
	"os"
	"path/filepath"
)

// writeLocal persists an object under root, creating category and owner
// directories as needed. Key segments are already sanitized by the uploader.
func writeLocal(root, key string, data []byte) error {
	path := filepath.Join(root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// removeLocal deletes an object from disk. A missing file is fine since the
// object may only exist in S3.
func removeLocal(root, key string) error {
	path := filepath.Join(root, filepath.FromSlash(key))

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
