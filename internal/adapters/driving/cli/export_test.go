package cli

import (
	"archive/zip"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

func TestExportCmd_WritesDocx(t *testing.T) {
	env := setupTestRuntime(t)
	france := env.writeFile(t, "france.txt", franceText)
	target := filepath.Join(env.dir, "out.docx")

	out, err := run(t, "", "export", "--out", target, france)

	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 chunks to "+target)

	zr, err := zip.OpenReader(target)
	require.NoError(t, err)
	defer zr.Close() //nolint:errcheck
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "word/document.xml")
}

func TestExportCmd_EmptyDocument(t *testing.T) {
	env := setupTestRuntime(t)
	empty := env.writeFile(t, "empty.txt", "")
	target := filepath.Join(env.dir, "out.docx")

	_, err := run(t, "", "export", "--out", target, empty)

	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.NoFileExists(t, target)
}

func TestExportCmd_ExactlyOneFile(t *testing.T) {
	setupTestRuntime(t)

	_, err := run(t, "", "export")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}
