package encoder

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
)

// WriteFile encodes img and writes it to path, creating parent directories.
// The file is written to a temporary sibling first and renamed into place,
// so a failed write never leaves a truncated image behind.
func WriteFile(path string, enc Encoder, img *image.RGBA) error {
	if img == nil {
		return fmt.Errorf("write %s: nil image", path)
	}
	data, err := enc.Encode(img)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".airshot-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("create temp file in %q: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
