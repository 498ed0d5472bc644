package card

import (
	"strings"
)

// Field is one named value, in the order it was declared on its line.
type Field struct {
	Name  string
	Value Value
}

// Predicates maps field names to the values a card must hold to match.
// Names are matched case-insensitively.
type Predicates map[string]Value

// Card is one decoded record of a keyword block.
type Card struct {
	// Keyword is the uppercase keyword the card was read under.
	Keyword string
	// Line is the 1-based file line of the card's first data line.
	Line int

	names  []string
	fields map[string]Value
	rows   [][]Field
}

// Get returns the value of the named field.
func (c *Card) Get(name string) (Value, bool) {
	v, ok := c.fields[strings.ToUpper(name)]
	return v, ok
}

// Has reports whether the named field is present. Optional fields left blank
// in the input are absent.
func (c *Card) Has(name string) bool {
	_, ok := c.fields[strings.ToUpper(name)]
	return ok
}

// Int returns the named field if it holds an integer.
func (c *Card) Int(name string) (int64, bool) {
	v, ok := c.Get(name)
	if !ok {
		return 0, false
	}
	return v.AsInt()
}

// Float returns the named field if it holds a float.
func (c *Card) Float(name string) (float64, bool) {
	v, ok := c.Get(name)
	if !ok {
		return 0, false
	}
	return v.AsFloat()
}

// Text returns the named field if it holds text.
func (c *Card) Text(name string) (string, bool) {
	v, ok := c.Get(name)
	if !ok {
		return "", false
	}
	return v.AsText()
}

// List returns the elements of a sequence-valued field. A mandatory field
// of a repeated line has one element per line. An optional one has an
// element only for the lines where it was present, so its indexes do not
// line up with the mandatory sequences; use Rows for the per-line view.
func (c *Card) List(name string) ([]Value, bool) {
	v, ok := c.Get(name)
	if !ok {
		return nil, false
	}
	return v.AsList()
}

// Floats returns a sequence-valued float field as a float64 slice, as used
// for load curve abscissae and ordinates.
func (c *Card) Floats(name string) ([]float64, bool) {
	vs, ok := c.List(name)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		f, ok := v.AsFloat()
		if !ok {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}

// Names returns the present field names in declaration order.
func (c *Card) Names() []string {
	return append([]string{}, c.names...)
}

// Len returns the number of present fields.
func (c *Card) Len() int {
	return len(c.names)
}

// Rows returns the fields decoded from each repeated line of a
// variable-length block, in file order. Each row holds only the fields
// present on that line. It is empty for fixed cards.
func (c *Card) Rows() [][]Field {
	out := make([][]Field, len(c.rows))
	for i, r := range c.rows {
		out[i] = append([]Field{}, r...)
	}
	return out
}

// Matches reports whether the card holds every field=value pair in where.
// Empty predicates match every card.
func (c *Card) Matches(where Predicates) bool {
	for name, want := range where {
		got, ok := c.fields[strings.ToUpper(name)]
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

// String renders the card as *KEYWORD:{NAME: value, ...}.
func (c *Card) String() string {
	var sb strings.Builder
	sb.WriteByte('*')
	sb.WriteString(c.Keyword)
	sb.WriteString(":{")
	for i, name := range c.names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(c.fields[name].String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Builder assembles a Card. A Builder must not be used after Card is called.
type Builder struct {
	c *Card
}

// NewBuilder starts a card for keyword whose first data line is line.
func NewBuilder(keyword string, line int) *Builder {
	return &Builder{c: &Card{
		Keyword: strings.ToUpper(keyword),
		Line:    line,
		fields:  make(map[string]Value),
	}}
}

// Set stores a scalar field, replacing any earlier value.
func (b *Builder) Set(name string, v Value) {
	name = strings.ToUpper(name)
	if _, exists := b.c.fields[name]; !exists {
		b.c.names = append(b.c.names, name)
	}
	b.c.fields[name] = v
}

// Declare makes name a sequence-valued field, leaving it empty if nothing
// has been appended yet.
func (b *Builder) Declare(name string) {
	name = strings.ToUpper(name)
	if v, exists := b.c.fields[name]; exists && v.kind == KindList {
		return
	}
	b.Set(name, List())
}

// Append adds v to the end of the sequence-valued field name.
func (b *Builder) Append(name string, v Value) {
	b.Declare(name)
	name = strings.ToUpper(name)
	b.c.fields[name] = b.c.fields[name].appendElem(v)
}

// AddRow records the fields decoded from one repeated line.
func (b *Builder) AddRow(row []Field) {
	b.c.rows = append(b.c.rows, row)
}

// Card returns the assembled card.
func (b *Builder) Card() *Card {
	return b.c
}
