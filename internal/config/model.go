package config

// Model is the unified, format-agnostic set of user card definitions.
type Model struct {
	// Cards in the order they were read.
	Cards []*CardDefinition
}

// CardDefinition describes the layout of one keyword's data block. Exactly
// one of Lines and Layout is set.
type CardDefinition struct {
	Keyword     string
	Description string
	// Lines holds the layout in the card mini-language, one entry per
	// physical line.
	Lines []string
	// Layout holds the same information spelled out field by field.
	Layout [][]*FieldDefinition
	// Repeat marks the last line as repeating until the next keyword.
	Repeat bool
	// Source is the file the definition was read from.
	Source string
}

// FieldType is the declared type of a user-defined field.
type FieldType string

const (
	FieldInteger FieldType = "integer"
	FieldFloat   FieldType = "float"
	FieldText    FieldType = "text"
)

// FieldDefinition is one column-bound field of a structured layout.
type FieldDefinition struct {
	Name string
	Type FieldType
	// Width is the column count. Zero on a text field means the rest of
	// the line.
	Width    int
	Optional bool
}
