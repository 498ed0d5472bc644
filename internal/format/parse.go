package format

import (
	"fmt"
	"strconv"
	"strings"
)

// variableMarker is the final definition line of a variable-length entry.
const variableMarker = "..."

// FormatDefinitionError reports a card definition that cannot be parsed.
type FormatDefinitionError struct {
	Keyword string
	Line    int // 1-based line within the definition, 0 when not line specific.
	Token   string
	Reason  string
}

func (e *FormatDefinitionError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid format definition for keyword %q", e.Keyword)
	if e.Line > 0 {
		fmt.Fprintf(&sb, " at definition line %d", e.Line)
	}
	if e.Token != "" {
		fmt.Fprintf(&sb, ", token %q", e.Token)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	return sb.String()
}

// ParseEntry parses a card definition written in the format mini-language.
//
// Each definition line describes one physical card line as space-separated
// NAME-TYPE[LEN] tokens, where TYPE is I (integer), F (float) or A (text)
// and LEN defaults to DefaultFieldWidth. An A field with LEN "*" takes the
// rest of the line. A token wrapped in parentheses is optional. A final
// line "..." makes the last card line repeat until the next keyword.
func ParseEntry(keyword, definition string) (*Entry, error) {
	keyword = strings.ToUpper(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil, &FormatDefinitionError{Reason: "keyword is empty"}
	}

	type rawLine struct {
		n    int
		text string
	}
	var lines []rawLine
	for i, l := range strings.Split(definition, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, rawLine{n: i + 1, text: l})
		}
	}
	if len(lines) == 0 {
		return nil, &FormatDefinitionError{Keyword: keyword, Reason: "definition has no lines"}
	}

	entry := &Entry{Keyword: keyword}
	if last := lines[len(lines)-1]; last.text == variableMarker {
		entry.Variable = true
		lines = lines[:len(lines)-1]
		if len(lines) == 0 {
			return nil, &FormatDefinitionError{Keyword: keyword, Line: last.n, Reason: "variable-length marker needs a line to repeat"}
		}
	}

	seen := make(map[string]bool)
	for _, l := range lines {
		if strings.Contains(l.text, variableMarker) {
			return nil, &FormatDefinitionError{Keyword: keyword, Line: l.n, Token: variableMarker, Reason: "variable-length marker must be the last line on its own"}
		}
		var ls LineSpec
		toks := strings.Fields(l.text)
		for i, tok := range toks {
			f, reason := parseToken(tok)
			if reason != "" {
				return nil, &FormatDefinitionError{Keyword: keyword, Line: l.n, Token: tok, Reason: reason}
			}
			if f.Rest && i != len(toks)-1 {
				return nil, &FormatDefinitionError{Keyword: keyword, Line: l.n, Token: tok, Reason: "a rest-of-line field must be last on its line"}
			}
			if seen[f.Name] {
				return nil, &FormatDefinitionError{Keyword: keyword, Line: l.n, Token: tok, Reason: "duplicate field name " + f.Name}
			}
			seen[f.Name] = true
			ls = append(ls, f)
		}
		entry.Lines = append(entry.Lines, ls)
	}
	return entry, nil
}

// MustParseEntry is like ParseEntry but panics on error. It is meant for
// definitions compiled into the binary.
func MustParseEntry(keyword, definition string) *Entry {
	e, err := ParseEntry(keyword, definition)
	if err != nil {
		panic(err)
	}
	return e
}

// parseToken decodes one NAME-TYPE[LEN] token. A non-empty reason means the
// token is malformed.
func parseToken(tok string) (FieldSpec, string) {
	var f FieldSpec
	opens, closes := strings.HasPrefix(tok, "("), strings.HasSuffix(tok, ")")
	switch {
	case opens && closes:
		f.Optional = true
		tok = tok[1 : len(tok)-1]
	case opens || closes:
		return f, "unbalanced optional marker"
	}
	if strings.ContainsAny(tok, "()") {
		return f, "unbalanced optional marker"
	}

	sep := strings.LastIndexByte(tok, '-')
	if sep <= 0 || sep == len(tok)-1 {
		return f, "expected NAME-TYPE[LEN]"
	}
	f.Name = strings.ToUpper(tok[:sep])
	spec := tok[sep+1:]

	kind, ok := kindFromLetter(spec[0])
	if !ok {
		return f, fmt.Sprintf("unknown field type %q", spec[:1])
	}
	f.Kind = kind

	switch width := spec[1:]; width {
	case "":
		f.Width = DefaultFieldWidth
	case "*":
		if kind != RawText {
			return f, "only text fields can take the rest of the line"
		}
		f.Rest = true
	default:
		n, err := strconv.Atoi(width)
		if err != nil {
			return f, fmt.Sprintf("invalid field length %q", width)
		}
		if n <= 0 {
			return f, "field length must be positive"
		}
		f.Width = n
	}
	return f, ""
}
