// Package angular provides the Angular 16 export target.
package angular

import (
	"embed"
	"io/fs"
	"text/template"

	"github.com/aretw0/graficador/pkg/export"
)

// Name is the registry key of the target.
const Name = "angular"

// DefaultProject is used when no project name is given.
const DefaultProject = "my-angular-project"

//go:embed project
var project embed.FS

// Target returns the Angular template provider.
// The design is rendered as one absolutely positioned div per element inside
// src/app/components/design, and inline images are bundled under src/assets/images.
func Target() export.Target {
	files, err := fs.Sub(project, "project")
	if err != nil {
		panic(err)
	}
	return export.Target{
		Name:           Name,
		DefaultProject: DefaultProject,
		Folders: []string{
			"src/app",
			"src/app/components",
			"src/app/services",
			"src/assets",
			"src/environments",
			"src/app/components/design",
		},
		Files:     files,
		AssetRoot: "src",
		Funcs:     template.FuncMap{"selector": Selector},
	}
}

// Selector returns the stylesheet selector for a sanitized element id.
// An id that is empty or starts with a digit is not a valid #id selector and
// is matched through the attribute form instead.
func Selector(sid string) string {
	if sid == "" || ('0' <= sid[0] && sid[0] <= '9') {
		return `[id="` + sid + `"]`
	}
	return "#" + sid
}

// New returns an exporter for the Angular target.
func New(opts ...export.Option) *export.Pipeline {
	return export.New(Target(), opts...)
}
