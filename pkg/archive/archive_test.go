package archive_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/graficador/pkg/archive"
	"github.com/aretw0/graficador/pkg/export"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet(t *testing.T) *export.FileSet {
	t.Helper()
	fs := export.NewFileSet("demo")
	require.NoError(t, fs.AddFolder("src/assets"))
	require.NoError(t, fs.AddFile("src/main.ts", []byte("main")))
	require.NoError(t, fs.AddFile("README.md", []byte("# demo")))
	return fs
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := make(map[string]string)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(b)
	}
	assert.Equal(t, []string{"src/", "src/assets/", "README.md", "src/main.ts"}, names)
	return out
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "my-angular-project.zip", archive.FileName("my-angular-project"))
}

func TestBuild(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, archive.Build(&buf, sampleSet(t)))

	files := readZip(t, buf.Bytes())
	assert.Equal(t, "main", files["src/main.ts"])
	assert.Equal(t, "# demo", files["README.md"])
}

func TestBuild_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, archive.Build(&a, sampleSet(t)))
	require.NoError(t, archive.Build(&b, sampleSet(t)))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := archive.Write(dir, sampleSet(t))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "demo.zip"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	readZip(t, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestWrite_RejectsBadProject(t *testing.T) {
	dir := t.TempDir()
	_, err := archive.Write(dir, export.NewFileSet("../escape"))
	assert.ErrorIs(t, err, export.ErrScaffold)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
