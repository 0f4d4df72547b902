// Package templates holds the prebuilt screens that can be inserted into a design.
package templates

import (
	_ "embed"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/aretw0/graficador/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var library []byte

// Calendar is the name of the generated month grid.
const Calendar = "calendar"

// Fixture is one shape of a template: its type plus the free-form properties
// handed to the editor's AddShape.
type Fixture struct {
	Type  domain.ShapeType
	Props map[string]any
}

var (
	loadOnce sync.Once
	loaded   map[string][]Fixture
	loadErr  error
)

func load() (map[string][]Fixture, error) {
	loadOnce.Do(func() {
		var raw map[string][]map[string]any
		if err := yaml.Unmarshal(library, &raw); err != nil {
			loadErr = fmt.Errorf("failed to parse template library: %w", err)
			return
		}
		loaded = make(map[string][]Fixture, len(raw)+1)
		for name, entries := range raw {
			fixtures := make([]Fixture, 0, len(entries))
			for i, entry := range entries {
				f, err := toFixture(entry)
				if err != nil {
					loadErr = fmt.Errorf("template %s entry %d: %w", name, i, err)
					return
				}
				fixtures = append(fixtures, f)
			}
			loaded[name] = fixtures
		}
		loaded[Calendar] = calendar()
	})
	return loaded, loadErr
}

func toFixture(entry map[string]any) (Fixture, error) {
	rawType, _ := entry[domain.KeyType].(string)
	t, err := domain.ParseShapeType(rawType)
	if err != nil {
		return Fixture{}, err
	}
	props := make(map[string]any, len(entry))
	for k, v := range entry {
		if k != domain.KeyType {
			props[k] = v
		}
	}
	return Fixture{Type: t, Props: props}, nil
}

// Names returns the available template names in alphabetical order.
func Names() []string {
	all, err := load()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns a copy of the fixtures of the named template.
func Get(name string) ([]Fixture, error) {
	all, err := load()
	if err != nil {
		return nil, err
	}
	fixtures, ok := all[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, name)
	}
	out := make([]Fixture, len(fixtures))
	for i, f := range fixtures {
		props := make(map[string]any, len(f.Props))
		for k, v := range f.Props {
			props[k] = v
		}
		out[i] = Fixture{Type: f.Type, Props: props}
	}
	return out, nil
}

// calendar builds a month view: header with navigation buttons, weekday labels
// and a 5x7 grid of day cells. Cells past day 31 keep an empty label.
func calendar() []Fixture {
	text := func(x, y int, label string, size int, fill string, w, h int) Fixture {
		return Fixture{Type: domain.ShapeText, Props: map[string]any{
			"x": x, "y": y, "text": label, "fontSize": size, "fill": fill,
			"fontFamily": "Arial", "width": w, "height": h,
		}}
	}
	rect := func(x, y, w, h int, fill string) Fixture {
		return Fixture{Type: domain.ShapeRectangle, Props: map[string]any{
			"x": x, "y": y, "width": w, "height": h, "fill": fill,
		}}
	}

	fixtures := []Fixture{
		rect(0, 0, 1200, 800, "#F3F6FD"),
		rect(0, 0, 1200, 90, "#1976D2"),
		text(540, 30, "May 2024", 32, "#FFFFFF", 200, 40),
		rect(60, 30, 40, 40, "#1565C0"),
		text(75, 38, "<", 28, "#FFFFFF", 30, 30),
		rect(1100, 30, 40, 40, "#1565C0"),
		text(1115, 38, ">", 28, "#FFFFFF", 30, 30),
	}
	for i, day := range []string{"M", "T", "W", "T", "F", "S", "S"} {
		fixtures = append(fixtures, text(100+i*120, 110, day, 22, "#1976D2", 30, 30))
	}
	for row := 0; row < 5; row++ {
		for col := 0; col < 7; col++ {
			cell := rect(100+col*120, 150+row*100, 100, 80, "#FFFFFF")
			cell.Props["stroke"] = "#B0B8C1"
			cell.Props["strokeWidth"] = 1

			label := ""
			if day := row*7 + col + 1; day <= 31 {
				label = strconv.Itoa(day)
			}
			fixtures = append(fixtures, cell, text(140+col*120, 170+row*100, label, 22, "#333333", 40, 30))
		}
	}
	return fixtures
}
