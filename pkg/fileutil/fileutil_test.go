package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rohmanhakim/conditions/pkg/failure"
	"github.com/rohmanhakim/conditions/pkg/fileutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFileExtension(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "json config", path: "condrun.json", expected: "json"},
		{name: "multiple dots", path: "units.scenario.yaml", expected: "yaml"},
		{name: "no extension", path: "README", expected: ""},
		{name: "dotfile", path: ".condrun", expected: "condrun"},
		{name: "directories", path: "/etc/condrun/config.toml", expected: "toml"},
		{name: "uppercase is folded", path: "CONFIG.YML", expected: "yml"},
		{name: "dot at end", path: "file.", expected: ""},
		{name: "empty", path: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fileutil.GetFileExtension(tt.path))
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "units.yaml")
	require.NoError(t, os.WriteFile(path, []byte("units: []\n"), 0o644))

	data, err := fileutil.ReadFile(path)
	require.Nil(t, err)
	assert.Equal(t, "units: []\n", string(data))
}

func TestReadFile_Missing(t *testing.T) {
	_, err := fileutil.ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NotNil(t, err)

	var fileErr *fileutil.FileError
	if assert.ErrorAs(t, err, &fileErr) {
		assert.Equal(t, fileutil.ErrCausePathError, fileErr.Cause)
		assert.Equal(t, failure.SeverityFatal, fileErr.Severity())
	}
}

func TestReadFile_Directory(t *testing.T) {
	_, err := fileutil.ReadFile(t.TempDir())
	require.NotNil(t, err)

	var fileErr *fileutil.FileError
	if assert.ErrorAs(t, err, &fileErr) {
		assert.Equal(t, fileutil.ErrCauseNotRegular, fileErr.Cause)
	}
}
