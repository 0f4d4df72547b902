// Package flutter provides the Flutter (Dart 3) export target.
//
// Image elements are laid out like any other box but their bytes are not bundled;
// only the Angular target ships image assets.
package flutter

import (
	"embed"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"text/template"

	"github.com/aretw0/graficador/pkg/export"
	"github.com/lucasb-eyer/go-colorful"
)

// Name is the registry key of the target.
const Name = "flutter"

// DefaultProject is used when no project name is given.
const DefaultProject = "my_flutter_project"

//go:embed project
var project embed.FS

// Target returns the Flutter template provider. The design becomes a Stack of
// Positioned widgets whose decorations live in lib/design/design_styles.dart.
func Target() export.Target {
	files, err := fs.Sub(project, "project")
	if err != nil {
		panic(err)
	}
	return export.Target{
		Name:           Name,
		DefaultProject: DefaultProject,
		Folders: []string{
			"lib",
			"lib/design",
			"lib/environments",
			"assets",
			"test",
		},
		Files: files,
		Funcs: template.FuncMap{
			"dartColor":   Color,
			"dartString":  String,
			"dartIdent":   Ident,
			"dartPackage": Package,
			"radians":     radians,
			"half":        func(v float64) float64 { return v / 2 },
		},
	}
}

// New returns an exporter for the Flutter target.
func New(opts ...export.Option) *export.Pipeline {
	return export.New(Target(), opts...)
}

// Color converts a CSS hex color (#rgb or #rrggbb) into an opaque Dart Color
// literal. Colors that cannot be parsed use fallback instead.
func Color(css, fallback string) string {
	c, err := colorful.Hex(strings.TrimSpace(css))
	if err != nil {
		if c, err = colorful.Hex(fallback); err != nil {
			c = colorful.Color{}
		}
	}
	return fmt.Sprintf("Color(0xFF%s)", strings.ToUpper(c.Hex()[1:]))
}

// String returns a Dart string literal whose value is exactly s.
// A raw triple-quoted string keeps the text verbatim; text that cannot be
// expressed that way falls back to an escaped single-quoted literal.
// Dart drops the first line of a multi-line literal when it holds only
// whitespace, so such text is escaped as well.
func String(s string) string {
	if !strings.Contains(s, "'''") && !strings.HasSuffix(s, "'") && !blankFirstLine(s) {
		return "r'''" + s + "'''"
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `$`, `\$`, "\n", `\n`, "\r", `\r`)
	return "'" + r.Replace(s) + "'"
}

func blankFirstLine(s string) bool {
	i := strings.IndexAny(s, "\r\n")
	return i >= 0 && strings.Trim(s[:i], " \t\\") == ""
}

// Ident turns an element key into a Dart identifier. Keys hold only ASCII
// letters, digits and underscores, so distinct keys give distinct names.
func Ident(key string) string {
	return "shape_" + key
}

// Package turns a project name into a valid pub package name.
func Package(project string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(project) {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	name := strings.Trim(sb.String(), "_")
	switch {
	case name == "":
		return "app"
	case '0' <= name[0] && name[0] <= '9':
		return "app_" + name
	}
	return name
}

func radians(deg float64) string {
	return export.FormatNumber(math.Round(deg*math.Pi/180*1e6) / 1e6)
}
