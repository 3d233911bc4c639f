package export

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// SaveFile writes data to dir/fileName through a temporary file that is
// always removed, so a failed save never leaves a partial workbook behind.
func SaveFile(dir, fileName string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*.xlsx")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	target := filepath.Join(dir, filepath.Base(fileName))
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return target, nil
}

// ServeFile sends a workbook as a download attachment.
func ServeFile(w http.ResponseWriter, fileName string, data []byte) error {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filepath.Base(fileName)})

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(data)
	return err
}
