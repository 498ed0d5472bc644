package format

import (
	"fmt"
	"sort"
	"strings"
)

// Table maps keywords to their card formats. Keywords are matched
// case-insensitively. A Table is not safe for concurrent mutation; once
// handed to a parser it is only read.
type Table struct {
	entries map[string]*Entry
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*Entry)}
}

// Register adds an entry. It fails if the entry is invalid or its keyword
// is already present.
func (t *Table) Register(e *Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, exists := t.entries[e.Keyword]; exists {
		return fmt.Errorf("format for keyword %q already registered", e.Keyword)
	}
	t.entries[e.Keyword] = e
	return nil
}

// Replace adds or overwrites an entry and reports whether one was replaced.
func (t *Table) Replace(e *Entry) (bool, error) {
	if err := e.Validate(); err != nil {
		return false, err
	}
	_, exists := t.entries[e.Keyword]
	t.entries[e.Keyword] = e
	return exists, nil
}

// Merge adds user entries on top of the table. An entry may override a
// keyword already present; the overridden keywords are returned in input
// order. Two entries in one call may not share a keyword. On error the
// table is left unchanged.
func (t *Table) Merge(entries []*Entry) ([]string, error) {
	next := t.Clone()
	var overridden []string
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Keyword] {
			return nil, fmt.Errorf("format for keyword %q defined twice", e.Keyword)
		}
		seen[e.Keyword] = true
		replaced, err := next.Replace(e)
		if err != nil {
			return nil, err
		}
		if replaced {
			overridden = append(overridden, e.Keyword)
		}
	}
	t.entries = next.entries
	return overridden, nil
}

// Lookup returns the entry for keyword.
func (t *Table) Lookup(keyword string) (*Entry, bool) {
	e, ok := t.entries[strings.ToUpper(strings.TrimSpace(keyword))]
	return e, ok
}

// Keywords returns the registered keywords in sorted order.
func (t *Table) Keywords() []string {
	out := make([]string, 0, len(t.entries))
	for k := range t.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered keywords.
func (t *Table) Len() int {
	return len(t.entries)
}

// Clone returns a shallow copy; entries are shared since they are immutable.
func (t *Table) Clone() *Table {
	c := NewTable()
	for k, e := range t.entries {
		c.entries[k] = e
	}
	return c
}

// Validate checks the structural rules every entry must satisfy, whether it
// came from the mini-language or was assembled field by field.
func (e *Entry) Validate() error {
	fail := func(line int, tok, reason string) error {
		return &FormatDefinitionError{Keyword: e.Keyword, Line: line, Token: tok, Reason: reason}
	}
	if e.Keyword == "" || e.Keyword != strings.ToUpper(e.Keyword) {
		return fail(0, "", "keyword must be non-empty and uppercase")
	}
	if len(e.Lines) == 0 {
		return fail(0, "", "definition has no lines")
	}
	seen := make(map[string]bool)
	for i, ls := range e.Lines {
		if len(ls) == 0 {
			return fail(i+1, "", "line declares no fields")
		}
		for j, f := range ls {
			switch {
			case f.Name == "" || f.Name != strings.ToUpper(f.Name):
				return fail(i+1, f.Name, "field name must be non-empty and uppercase")
			case f.Kind != Integer && f.Kind != Float && f.Kind != RawText:
				return fail(i+1, f.Name, "field has no type")
			case f.Rest && f.Kind != RawText:
				return fail(i+1, f.String(), "only text fields can take the rest of the line")
			case f.Rest && j != len(ls)-1:
				return fail(i+1, f.String(), "a rest-of-line field must be last on its line")
			case !f.Rest && f.Width <= 0:
				return fail(i+1, f.String(), "field length must be positive")
			case seen[f.Name]:
				return fail(i+1, f.String(), "duplicate field name "+f.Name)
			}
			seen[f.Name] = true
		}
	}
	return nil
}
