package domain

import "time"

// Design is the snapshot of one editing session.
// It owns its shape forest exclusively; the editor mutates it one operation at a time.
type Design struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Shapes is the root sibling list. Earlier entries render beneath later ones.
	Shapes []Shape `json:"shapes" yaml:"shapes"`

	// SelectedID is the active selection (empty when nothing is selected).
	SelectedID string `json:"selectedId,omitempty" yaml:"selectedId,omitempty"`

	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// NewDesign creates an empty design.
func NewDesign(id, name string) *Design {
	return &Design{
		ID:     id,
		Name:   name,
		Shapes: []Shape{},
	}
}
