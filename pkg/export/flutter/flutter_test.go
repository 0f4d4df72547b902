package flutter_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/export"
	"github.com/aretw0/graficador/pkg/export/flutter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	widgetPath = "lib/design/design_widget.dart"
	stylesPath = "lib/design/design_styles.dart"
)

func exportShapes(t *testing.T, shapes []domain.Shape, project string) *export.FileSet {
	t.Helper()
	fs, err := flutter.New().Export(context.Background(), shapes, project)
	require.NoError(t, err)
	return fs
}

func file(t *testing.T, fs *export.FileSet, path string) string {
	t.Helper()
	content, ok := fs.File(path)
	require.True(t, ok, "missing %s", path)
	return string(content)
}

func TestExport_Scaffold(t *testing.T) {
	fs := exportShapes(t, nil, "")
	assert.Equal(t, flutter.DefaultProject, fs.Project)
	assert.Equal(t, []string{
		"README.md",
		"analysis_options.yaml",
		"lib/app.dart",
		"lib/design/design_styles.dart",
		"lib/design/design_widget.dart",
		"lib/environments/environment.dart",
		"lib/environments/environment_prod.dart",
		"lib/main.dart",
		"pubspec.yaml",
		"test/widget_test.dart",
	}, fs.Paths())
	assert.Contains(t, fs.Folders(), "assets")

	assert.Contains(t, file(t, fs, "pubspec.yaml"), "name: my_flutter_project\n")
	assert.Contains(t, file(t, fs, "test/widget_test.dart"), "import 'package:my_flutter_project/app.dart';")
	assert.True(t, strings.HasPrefix(file(t, fs, widgetPath), "import 'package:flutter/material.dart';"))
}

func TestExport_PackageNameFromProject(t *testing.T) {
	fs := exportShapes(t, nil, "My Shop-App")
	assert.Contains(t, file(t, fs, "pubspec.yaml"), "name: my_shop_app\n")
	assert.Contains(t, file(t, fs, "lib/app.dart"), "title: r'''My Shop-App''',")
	assert.Contains(t, file(t, fs, "README.md"), "# My Shop-App")
}

func TestExport_RectangleRule(t *testing.T) {
	fs := exportShapes(t, []domain.Shape{{
		ID: "r1", Type: domain.ShapeRectangle,
		X: 10, Y: 20, Width: 100, Height: 50,
		Fill: "#ff0000", Stroke: "#000000", StrokeWidth: 2,
	}}, "")

	assert.Contains(t, file(t, fs, widgetPath), "          Positioned(\n"+
		"            key: const ValueKey('r1'),\n"+
		"            left: 10,\n"+
		"            top: 20,\n"+
		"            width: 100,\n"+
		"            height: 50,\n"+
		"            child: Container(decoration: DesignStyles.shape_r1),\n"+
		"          ),\n")

	assert.Contains(t, file(t, fs, stylesPath), "  static const shape_r1 = BoxDecoration(\n"+
		"    color: Color(0xFFFF0000),\n"+
		"    border: Border.fromBorderSide(\n"+
		"      BorderSide(color: Color(0xFF000000), width: 2),\n"+
		"    ),\n"+
		"  );\n")
}

func TestExport_CircleAndRotation(t *testing.T) {
	fs := exportShapes(t, []domain.Shape{{
		ID: "c1", Type: domain.ShapeCircle, Width: 80, Height: 40, Rotation: 90, Fill: "#abc",
	}}, "")

	widget := file(t, fs, widgetPath)
	assert.Contains(t, widget, "            child: Transform.rotate(\n"+
		"              angle: 1.570796,\n"+
		"              child: Container(decoration: DesignStyles.shape_c1),\n"+
		"            ),\n")

	styles := file(t, fs, stylesPath)
	assert.Contains(t, styles, "color: Color(0xFFAABBCC),")
	assert.Contains(t, styles, "borderRadius: BorderRadius.all(Radius.elliptical(40, 20)),")
	assert.NotContains(t, styles, "border: ", "zero stroke width draws no border")
}

func TestExport_TextIsVerbatim(t *testing.T) {
	fs := exportShapes(t, []domain.Shape{
		{ID: "t1", Type: domain.ShapeText, Text: "Hola"},
		{ID: "t2", Type: domain.ShapeText, Text: `<b>$price \n</b>`},
	}, "")

	widget := file(t, fs, widgetPath)
	assert.Contains(t, widget, "child: Text(r'''Hola'''),")
	assert.Contains(t, widget, `child: Text(r'''<b>$price \n</b>'''),`)
	assert.NotContains(t, file(t, fs, stylesPath), "shape_t1", "text has no decoration")
}

func TestExport_GroupIsFlattened(t *testing.T) {
	fs := exportShapes(t, []domain.Shape{{
		ID: "group1", Type: domain.ShapeGroup,
		Children: []domain.Shape{
			{ID: "a", Type: domain.ShapeRectangle, X: 10, Width: 20, Height: 20},
			{ID: "b", Type: domain.ShapeRectangle, X: 200, Width: 20, Height: 20},
		},
	}}, "")

	widget := file(t, fs, widgetPath)
	assert.Equal(t, 2, strings.Count(widget, "Positioned("))
	assert.NotContains(t, widget, "group")
}

func TestExport_PlainShapes(t *testing.T) {
	fs := exportShapes(t, []domain.Shape{
		{ID: "l1", Type: domain.ShapeLine, X: 1, Y: 2, X2: 50, Y2: 2},
		{ID: "i1", Type: domain.ShapeImage, Width: 10, Height: 10, Src: "https://example.com/a.png"},
	}, "")

	widget := file(t, fs, widgetPath)
	assert.Equal(t, 2, strings.Count(widget, "child: const SizedBox.expand(),"))
	for _, p := range fs.Paths() {
		assert.False(t, strings.HasPrefix(p, "assets/"), "images are not bundled: %s", p)
	}
}

func TestExport_CollidingIDsStayDistinct(t *testing.T) {
	fs := exportShapes(t, []domain.Shape{
		{ID: "a-1", Type: domain.ShapeRectangle, Width: 10, Height: 10},
		{ID: "a_1", Type: domain.ShapeRectangle, Width: 10, Height: 10},
		{ID: "b", Type: domain.ShapeCircle, Width: 10, Height: 10},
		{ID: "B", Type: domain.ShapeCircle, Width: 10, Height: 10},
	}, "")

	styles := file(t, fs, stylesPath)
	for _, ident := range []string{"shape_a1", "shape_a1_2", "shape_b", "shape_B"} {
		assert.Equal(t, 1, strings.Count(styles, "static const "+ident+" = "), ident)
	}

	widget := file(t, fs, widgetPath)
	for _, key := range []string{"a1", "a1_2", "b", "B"} {
		assert.Equal(t, 1, strings.Count(widget, "ValueKey('"+key+"')"), key)
	}
	assert.Contains(t, widget, "child: Container(decoration: DesignStyles.shape_a1_2),")
}

func TestExport_TextWithLeadingBlankLine(t *testing.T) {
	fs := exportShapes(t, []domain.Shape{{ID: "t1", Type: domain.ShapeText, Text: "\nHola"}}, "")
	assert.Contains(t, file(t, fs, widgetPath), `child: Text('\nHola'),`)
}

func TestColor(t *testing.T) {
	assert.Equal(t, "Color(0xFFFF0000)", flutter.Color("#ff0000", "#ffffff"))
	assert.Equal(t, "Color(0xFF333333)", flutter.Color("#333", "#ffffff"))
	assert.Equal(t, "Color(0xFFFFFFFF)", flutter.Color("tomato", "#ffffff"))
	assert.Equal(t, "Color(0xFF000000)", flutter.Color("", "#000000"))
}

func TestString(t *testing.T) {
	assert.Equal(t, "r'''plain'''", flutter.String("plain"))
	assert.Equal(t, `r'''it's'''`, flutter.String("it's"))
	assert.Equal(t, `'end\''`, flutter.String("end'"))
	assert.Equal(t, `'a\'\'\'b \$x'`, flutter.String("a'''b $x"))
	assert.Equal(t, "r'''a\nb'''", flutter.String("a\nb"))
	assert.Equal(t, "r''' '''", flutter.String(" "))

	// A whitespace-only first line would be dropped from a multi-line literal.
	assert.Equal(t, `'\nHola'`, flutter.String("\nHola"))
	assert.Equal(t, `'  \nx'`, flutter.String("  \nx"))
	assert.Equal(t, "'\t\\r\\ny'", flutter.String("\t\r\ny"))
	assert.Equal(t, `'\\\ny'`, flutter.String("\\\ny"))
}

func TestIdentAndPackage(t *testing.T) {
	assert.Equal(t, "shape_r1", flutter.Ident("r1"))
	assert.Equal(t, "shape_1abc", flutter.Ident("1abc"))
	assert.Equal(t, "shape_", flutter.Ident(""))
	assert.NotEqual(t, flutter.Ident("b"), flutter.Ident("B"))

	assert.Equal(t, "my_flutter_project", flutter.Package("my_flutter_project"))
	assert.Equal(t, "app_2048", flutter.Package("2048"))
	assert.Equal(t, "app", flutter.Package("!!!"))
}
