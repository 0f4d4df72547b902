package export_test

import (
	"context"
	"testing"
	"testing/fstest"
	"text/template"

	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTarget(files fstest.MapFS) export.Target {
	return export.Target{
		Name:           "test",
		DefaultProject: "default-project",
		Folders:        []string{"out", "out/empty"},
		Files:          files,
		AssetRoot:      "out",
	}
}

var listTemplate = fstest.MapFS{
	"out/list.txt.tmpl": {Data: []byte(`{{.Project}}:{{range .Elements}} {{.ID}}@{{num .X}},{{num .Y}}{{end}}`)},
	"out/static.txt":    {Data: []byte(`{{not a template}}`)},
}

func TestPipeline_Export(t *testing.T) {
	p := export.New(testTarget(listTemplate))
	assert.Equal(t, "test", p.Name())
	assert.Equal(t, "default-project", p.DefaultProject())

	shapes := []domain.Shape{
		{ID: "a", Type: domain.ShapeRectangle, X: 1.5, Y: 2},
		{ID: "g", Type: domain.ShapeGroup, Children: []domain.Shape{
			{ID: "b-1", Type: domain.ShapeCircle, X: 10, Y: 20},
			{ID: "c", Type: domain.ShapeText, X: 30, Y: 40},
		}},
	}
	fs, err := p.Export(context.Background(), shapes, "")
	require.NoError(t, err)

	assert.Equal(t, "default-project", fs.Project)
	list, ok := fs.File("out/list.txt")
	require.True(t, ok)
	assert.Equal(t, "default-project: a@1.5,2 b1@10,20 c@30,40", string(list))

	static, ok := fs.File("out/static.txt")
	require.True(t, ok)
	assert.Equal(t, "{{not a template}}", string(static))

	assert.Contains(t, fs.Folders(), "out/empty")
}

func TestPipeline_DoesNotTouchInput(t *testing.T) {
	shapes := []domain.Shape{
		{ID: "g", Type: domain.ShapeGroup, Children: []domain.Shape{
			{ID: "a", Type: domain.ShapeRectangle},
			{ID: "b", Type: domain.ShapeRectangle},
		}},
	}
	before := []domain.Shape{
		{ID: "g", Type: domain.ShapeGroup, Children: []domain.Shape{
			{ID: "a", Type: domain.ShapeRectangle},
			{ID: "b", Type: domain.ShapeRectangle},
		}},
	}
	_, err := export.New(testTarget(listTemplate)).Export(context.Background(), shapes, "x")
	require.NoError(t, err)
	assert.Equal(t, before, shapes)
}

func TestPipeline_Deterministic(t *testing.T) {
	shapes := []domain.Shape{
		{ID: "a", Type: domain.ShapeRectangle, X: 1},
		{ID: "b", Type: domain.ShapeText, Text: "hi"},
	}
	p := export.New(testTarget(listTemplate))
	first, err := p.Export(context.Background(), shapes, "x")
	require.NoError(t, err)
	second, err := p.Export(context.Background(), shapes, "x")
	require.NoError(t, err)
	assert.Equal(t, first.Files(), second.Files())
}

func TestPipeline_Failures(t *testing.T) {
	good := []domain.Shape{{ID: "a", Type: domain.ShapeRectangle}}

	tests := []struct {
		name    string
		target  export.Target
		shapes  []domain.Shape
		project string
		want    error
	}{
		{
			name:    "Bad project name",
			target:  testTarget(listTemplate),
			shapes:  good,
			project: "../evil",
			want:    export.ErrScaffold,
		},
		{
			name: "Bad folder",
			target: export.Target{
				Name:    "test",
				Folders: []string{"/abs"},
			},
			shapes:  good,
			project: "x",
			want:    export.ErrScaffold,
		},
		{
			name: "File clashes with folder",
			target: export.Target{
				Name:    "test",
				Folders: []string{"out"},
				Files:   fstest.MapFS{"out.tmpl": {Data: []byte("x")}},
			},
			shapes:  good,
			project: "x",
			want:    export.ErrScaffold,
		},
		{
			name:    "Unknown shape type",
			target:  testTarget(listTemplate),
			shapes:  []domain.Shape{{ID: "h", Type: "hexagon"}},
			project: "x",
			want:    export.ErrExport,
		},
		{
			name:    "Template parse error",
			target:  testTarget(fstest.MapFS{"broken.tmpl": {Data: []byte("{{range}}")}}),
			shapes:  good,
			project: "x",
			want:    export.ErrExport,
		},
		{
			name:    "Template execution error",
			target:  testTarget(fstest.MapFS{"missing.tmpl": {Data: []byte("{{.Nope}}")}}),
			shapes:  good,
			project: "x",
			want:    export.ErrExport,
		},
		{
			name: "Panic in template func",
			target: export.Target{
				Name:  "test",
				Files: fstest.MapFS{"boom.tmpl": {Data: []byte("{{boom}}")}},
				Funcs: template.FuncMap{"boom": func() string { panic("kaboom") }},
			},
			shapes:  good,
			project: "x",
			want:    export.ErrExport,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := export.New(tt.target).Export(context.Background(), tt.shapes, tt.project)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, fs, "no partial output")
		})
	}
}

func TestPipeline_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fs, err := export.New(testTarget(listTemplate)).Export(ctx, []domain.Shape{{ID: "a", Type: domain.ShapeRectangle}}, "x")
	assert.Nil(t, fs)
	assert.ErrorIs(t, err, export.ErrExport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateProjectName(t *testing.T) {
	for _, ok := range []string{"my-angular-project", "my_flutter_project", "My App"} {
		assert.NoError(t, export.ValidateProjectName(ok), ok)
	}
	for _, bad := range []string{"", ".", "..", "a/b", `a\b`, "a:b", "tab\there"} {
		assert.ErrorIs(t, export.ValidateProjectName(bad), export.ErrScaffold, bad)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "10", export.FormatNumber(10))
	assert.Equal(t, "20.5", export.FormatNumber(20.5))
	assert.Equal(t, "-3.25", export.FormatNumber(-3.25))
	assert.Equal(t, "0", export.FormatNumber(0))
}
