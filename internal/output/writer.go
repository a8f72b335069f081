// Package output writes generated artifacts without ever leaving a
// partially written file behind.
package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/utafrali/perfume-seed/pkg/errors"
)

// Stdout is the path that selects standard output.
const Stdout = "-"

// Writer writes artifacts to the filesystem or to a stream.
type Writer struct {
	stdout io.Writer
	perm   os.FileMode
}

// NewWriter creates a Writer whose "-" target is stdout.
func NewWriter(stdout io.Writer) *Writer {
	return &Writer{stdout: stdout, perm: 0o644}
}

// Write renders src completely into memory, then writes it to path. For a
// file target the bytes go to a temporary file in the same directory which
// is synced and renamed over path, so readers see either the old artifact
// or the new one. It returns the number of bytes written.
func (w *Writer) Write(path string, src io.WriterTo) (int64, error) {
	var buf bytes.Buffer
	if _, err := src.WriteTo(&buf); err != nil {
		return 0, apperrors.Internal(fmt.Errorf("render artifact: %w", err))
	}

	if path == Stdout {
		n, err := buf.WriteTo(w.stdout)
		if err != nil {
			return n, apperrors.IO("write artifact to stdout", err)
		}
		return n, nil
	}

	size := int64(buf.Len())
	if err := w.writeFile(path, buf.Bytes()); err != nil {
		return 0, err
	}
	return size, nil
}

func (w *Writer) writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.IO(fmt.Sprintf("create directory %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return apperrors.IO(fmt.Sprintf("create temp file in %s", dir), err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return apperrors.IO(fmt.Sprintf("write %s", tmpName), err)
	}
	if err := tmp.Sync(); err != nil {
		return apperrors.IO(fmt.Sprintf("sync %s", tmpName), err)
	}
	if err := tmp.Chmod(w.perm); err != nil {
		return apperrors.IO(fmt.Sprintf("chmod %s", tmpName), err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.IO(fmt.Sprintf("close %s", tmpName), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return apperrors.IO(fmt.Sprintf("replace %s", path), err)
	}
	committed = true
	return nil
}
