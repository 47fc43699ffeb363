package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rohmanhakim/conditions/pkg/failure"
)

// GetFileExtension extracts the lower-cased file extension from a path, or empty string if none
func GetFileExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ReadFile reads a regular file, classifying the failure.
func ReadFile(path string) ([]byte, failure.ClassifiedError) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCausePathError,
			Path:      path,
		}
	}
	if !info.Mode().IsRegular() {
		return nil, &FileError{
			Message:   "expected a regular file",
			Retryable: false,
			Cause:     ErrCauseNotRegular,
			Path:      path,
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: true,
			Cause:     ErrCauseReadFailure,
			Path:      path,
		}
	}
	return data, nil
}
