package converter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInput(t *testing.T) {
	dir := t.TempDir()

	ok := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(ok, []byte("content"), 0o644))
	assert.NoError(t, validateInput(ok))

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	assert.Error(t, validateInput(empty))

	assert.Error(t, validateInput(filepath.Join(dir, "missing.txt")))
	assert.Error(t, validateInput(dir))
}

func TestNewLibreOfficeDefaults(t *testing.T) {
	l := NewLibreOffice(0, 0)
	assert.Equal(t, 3*time.Minute, l.timeout)
	assert.Equal(t, 2, cap(l.semaphore))
}
