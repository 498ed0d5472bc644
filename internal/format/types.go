package format

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vk/keydeck/internal/card"
)

// DefaultFieldWidth is the column width of a field declared without a length.
const DefaultFieldWidth = 10

// Kind is the declared type of a field.
type Kind int

const (
	Integer Kind = iota + 1
	Float
	RawText
)

// String returns the mini-language type letter.
func (k Kind) String() string {
	switch k {
	case Integer:
		return "I"
	case Float:
		return "F"
	case RawText:
		return "A"
	default:
		return "?"
	}
}

// kindFromLetter maps a mini-language type letter to a Kind.
func kindFromLetter(letter byte) (Kind, bool) {
	switch letter {
	case 'I', 'i':
		return Integer, true
	case 'F', 'f':
		return Float, true
	case 'A', 'a':
		return RawText, true
	}
	return 0, false
}

// FieldSpec describes one column-bound datum.
type FieldSpec struct {
	Name     string
	Kind     Kind
	Width    int
	Rest     bool // RawText only: consume the rest of the line, Width is ignored.
	Optional bool
}

// String renders the field as a mini-language token, e.g. "(NID2-I8)".
func (f FieldSpec) String() string {
	var width string
	switch {
	case f.Rest:
		width = "*"
	case f.Width != DefaultFieldWidth:
		width = strconv.Itoa(f.Width)
	}
	tok := f.Name + "-" + f.Kind.String() + width
	if f.Optional {
		return "(" + tok + ")"
	}
	return tok
}

// Decode converts one column slice into a typed value. Numeric slices are
// trimmed before conversion; an empty or non-numeric slice is an error.
// Floats accept Fortran style D exponents.
func (f FieldSpec) Decode(raw string) (card.Value, error) {
	s := strings.TrimSpace(raw)
	switch f.Kind {
	case Integer:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return card.Value{}, fmt.Errorf("not an integer: %q", raw)
		}
		return card.Int(n), nil
	case Float:
		x, err := strconv.ParseFloat(fortranExponent(s), 64)
		if err != nil {
			return card.Value{}, fmt.Errorf("not a float: %q", raw)
		}
		return card.Float(x), nil
	case RawText:
		return card.Text(s), nil
	default:
		return card.Value{}, fmt.Errorf("field %s has no kind", f.Name)
	}
}

func fortranExponent(s string) string {
	if strings.ContainsAny(s, "dD") {
		return strings.NewReplacer("d", "e", "D", "E").Replace(s)
	}
	return s
}

// IsBlank reports whether a column slice carries no data.
func IsBlank(raw string) bool {
	return strings.TrimSpace(raw) == ""
}

// LineSpec is the ordered list of fields read from one physical line.
type LineSpec []FieldSpec

// Slice cuts line into one raw substring per field, advancing a column
// cursor by each field's width. Past the end of the line a slice is empty.
func (ls LineSpec) Slice(line string) []string {
	// Columns are characters; only non-ASCII lines need rune indexing.
	var cols []rune
	n := len(line)
	if utf8.RuneCountInString(line) != n {
		cols = []rune(line)
		n = len(cols)
	}
	out := make([]string, len(ls))
	cursor := 0
	cut := func(from, to int) string {
		if from >= n {
			return ""
		}
		if to > n {
			to = n
		}
		if cols != nil {
			return string(cols[from:to])
		}
		return line[from:to]
	}
	for i, f := range ls {
		if f.Rest {
			out[i] = cut(cursor, n)
			cursor = n
			continue
		}
		out[i] = cut(cursor, cursor+f.Width)
		cursor += f.Width
	}
	return out
}

// String renders the line as space-separated mini-language tokens.
func (ls LineSpec) String() string {
	toks := make([]string, len(ls))
	for i, f := range ls {
		toks[i] = f.String()
	}
	return strings.Join(toks, " ")
}

// Entry is the format of one keyword's data block.
type Entry struct {
	Keyword     string
	Description string
	Lines       []LineSpec
	// Variable marks a block whose last line repeats until the next keyword.
	Variable bool
}

// HeaderLines returns the lines read once per card. For fixed entries this
// is every line.
func (e *Entry) HeaderLines() []LineSpec {
	if e.Variable {
		return e.Lines[:len(e.Lines)-1]
	}
	return e.Lines
}

// RepeatLine returns the repeating line of a variable entry.
func (e *Entry) RepeatLine() (LineSpec, bool) {
	if !e.Variable {
		return nil, false
	}
	return e.Lines[len(e.Lines)-1], true
}

// Field finds a field by case-insensitive name on any line.
func (e *Entry) Field(name string) (FieldSpec, bool) {
	name = strings.ToUpper(name)
	for _, ls := range e.Lines {
		for _, f := range ls {
			if f.Name == name {
				return f, true
			}
		}
	}
	return FieldSpec{}, false
}

// String renders the entry in the mini-language.
func (e *Entry) String() string {
	lines := make([]string, 0, len(e.Lines)+1)
	for _, ls := range e.Lines {
		lines = append(lines, ls.String())
	}
	if e.Variable {
		lines = append(lines, variableMarker)
	}
	return strings.Join(lines, "\n")
}
