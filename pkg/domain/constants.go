package domain

// Field constants for mapstructure and JSON standardization of shape properties.
const (
	// KeyID is the property key of a shape identifier. It is never accepted from callers.
	KeyID = "id"
	// KeyType is the property key of the shape type.
	KeyType = "type"
	// KeyChildren is the property key holding the nested shapes of a group.
	KeyChildren = "children"
)

// Style defaults applied when a shape leaves fill or stroke unset.
const (
	DefaultFill   = "#ffffff"
	DefaultStroke = "#000000"
)
