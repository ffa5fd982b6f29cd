package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.md")

	require.NoError(t, WriteArtifact(path, "first version"))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first version", string(content))

	// A rerun replaces the artifact, it never appends.
	require.NoError(t, WriteArtifact(path, "second"))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}

func TestPrintArtifact(t *testing.T) {
	var buf bytes.Buffer
	PrintArtifact(&buf, "recognized text")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Repeat("=", 60), lines[0])
	assert.Equal(t, "recognized text", lines[1])
	assert.Equal(t, strings.Repeat("=", 60), lines[2])
}
