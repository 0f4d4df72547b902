// Package archive compresses an exported file tree into a single zip bundle.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/graficador/pkg/export"
	"github.com/klauspost/compress/zip"
)

// Extension of every bundle produced by this package.
const Extension = ".zip"

// epoch is stamped on every entry so that equal file sets produce equal bytes.
var epoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// FileName returns the download name of the project bundle.
func FileName(project string) string {
	return project + Extension
}

// Build writes fs as a zip archive to w. Folders become directory entries; every
// entry is sorted by path and carries a fixed timestamp.
func Build(w io.Writer, fs *export.FileSet) error {
	zw := zip.NewWriter(w)

	for _, dir := range fs.Folders() {
		if _, err := zw.CreateHeader(&zip.FileHeader{
			Name:     dir + "/",
			Method:   zip.Store,
			Modified: epoch,
		}); err != nil {
			return fmt.Errorf("failed to add folder %s: %w", dir, err)
		}
	}

	for _, p := range fs.Paths() {
		content, _ := fs.File(p)
		hdr := &zip.FileHeader{
			Name:     p,
			Method:   zip.Deflate,
			Modified: epoch,
		}
		hdr.SetMode(0o644)
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("failed to add file %s: %w", p, err)
		}
		if _, err := fw.Write(content); err != nil {
			return fmt.Errorf("failed to write file %s: %w", p, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

// Write stores the bundle as <dir>/<project>.zip and returns its path.
// The archive is written to a temporary file first and renamed into place,
// so a failed export never leaves a partial bundle behind.
func Write(dir string, fs *export.FileSet) (string, error) {
	if err := export.ValidateProjectName(fs.Project); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to ensure output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".graficador-*"+Extension)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary archive: %w", err)
	}
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmp.Name())
	}()

	if err := Build(tmp, fs); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary archive: %w", err)
	}

	dest := filepath.Join(dir, FileName(fs.Project))
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("failed to move archive into place: %w", err)
	}
	return dest, nil
}
