package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/keydeck/internal/card"
	"github.com/vk/keydeck/internal/format"
)

// ErrEmpty is returned for a query with no keyword.
var ErrEmpty = errors.New("query has no keyword")

// Condition is one unresolved FIELD=VALUE pair.
type Condition struct {
	Field string
	Raw   string
}

func (c Condition) String() string {
	if strings.ContainsAny(c.Raw, " \t\"") || c.Raw == "" {
		return c.Field + "=" + strconv.Quote(c.Raw)
	}
	return c.Field + "=" + c.Raw
}

// Query is a keyword with the conditions a card must meet.
type Query struct {
	Keyword string
	Where   []Condition
}

func (q Query) String() string {
	parts := []string{q.Keyword}
	for _, c := range q.Where {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}

// Parse reads "KEYWORD FIELD=VALUE ...". Values containing spaces may be
// double quoted.
func Parse(s string) (Query, error) {
	words, err := Split(s)
	if err != nil {
		return Query{}, err
	}
	if len(words) == 0 {
		return Query{}, ErrEmpty
	}
	if strings.Contains(words[0], "=") {
		return Query{}, fmt.Errorf("query must start with a keyword, got %q", words[0])
	}
	q := Query{Keyword: strings.ToUpper(strings.TrimLeft(words[0], "*"))}
	for _, w := range words[1:] {
		c, err := ParseCondition(w)
		if err != nil {
			return Query{}, err
		}
		q.Where = append(q.Where, c)
	}
	return q, nil
}

// ParseCondition reads a single FIELD=VALUE pair. The field name is
// uppercased; the value is kept verbatim.
func ParseCondition(s string) (Condition, error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Condition{}, fmt.Errorf("condition %q is not of the form FIELD=VALUE", s)
	}
	return Condition{Field: strings.ToUpper(name), Raw: raw}, nil
}

// Predicates resolves the conditions against the keyword's format. Each
// value is decoded as its field's type; fields on a repeated line hold
// sequences and cannot be matched.
func (q Query) Predicates(table *format.Table) (card.Predicates, error) {
	entry, ok := table.Lookup(q.Keyword)
	if !ok {
		return nil, fmt.Errorf("no card format for keyword %s", q.Keyword)
	}
	repeated := make(map[string]bool)
	if line, ok := entry.RepeatLine(); ok {
		for _, f := range line {
			repeated[f.Name] = true
		}
	}

	preds := make(card.Predicates, len(q.Where))
	for _, c := range q.Where {
		spec, ok := entry.Field(c.Field)
		if !ok {
			return nil, fmt.Errorf("keyword %s has no field %s", entry.Keyword, c.Field)
		}
		if repeated[spec.Name] {
			return nil, fmt.Errorf("field %s of %s repeats per line and cannot be matched", spec.Name, entry.Keyword)
		}
		v, err := spec.Decode(c.Raw)
		if err != nil {
			return nil, fmt.Errorf("value for %s.%s: %w", entry.Keyword, spec.Name, err)
		}
		preds[spec.Name] = v
	}
	return preds, nil
}

// Split breaks s into whitespace separated words. A double quoted run is
// kept together and unquoted, so NAME="two words" is one word.
func Split(s string) ([]string, error) {
	var (
		words  []string
		cur    strings.Builder
		inWord bool
	)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '"':
			end := closingQuote(s, i)
			if end < 0 {
				return nil, fmt.Errorf("unterminated quote in %q", s)
			}
			unq, err := strconv.Unquote(s[i : end+1])
			if err != nil {
				return nil, fmt.Errorf("bad quoted value %s: %w", s[i:end+1], err)
			}
			cur.WriteString(unq)
			inWord = true
			i = end
		case ch == ' ' || ch == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteByte(ch)
			inWord = true
		}
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}

func closingQuote(s string, open int) int {
	for j := open + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"':
			return j
		}
	}
	return -1
}
