package app

import (
	"fmt"
	"strings"

	"github.com/vk/keydeck/internal/config"
	"github.com/vk/keydeck/internal/format"
)

var fieldKinds = map[config.FieldType]format.Kind{
	config.FieldInteger: format.Integer,
	config.FieldFloat:   format.Float,
	config.FieldText:    format.RawText,
}

// entriesFromModel turns user card definitions into format table entries.
func entriesFromModel(model *config.Model) ([]*format.Entry, error) {
	entries := make([]*format.Entry, 0, len(model.Cards))
	for _, def := range model.Cards {
		e, err := entryFromDefinition(def)
		if err != nil {
			return nil, fmt.Errorf("card definition %s from %s: %w", def.Keyword, def.Source, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func entryFromDefinition(def *config.CardDefinition) (*format.Entry, error) {
	if len(def.Lines) > 0 {
		lines := append([]string{}, def.Lines...)
		if def.Repeat && strings.TrimSpace(lines[len(lines)-1]) != "..." {
			lines = append(lines, "...")
		}
		e, err := format.ParseEntry(def.Keyword, strings.Join(lines, "\n"))
		if err != nil {
			return nil, err
		}
		e.Description = def.Description
		return e, nil
	}

	e := &format.Entry{
		Keyword:     strings.ToUpper(def.Keyword),
		Description: def.Description,
		Variable:    def.Repeat,
	}
	for _, line := range def.Layout {
		var ls format.LineSpec
		for _, f := range line {
			kind, ok := fieldKinds[f.Type]
			if !ok {
				return nil, fmt.Errorf("field %s has unknown type %q", f.Name, f.Type)
			}
			ls = append(ls, format.FieldSpec{
				Name:     strings.ToUpper(f.Name),
				Kind:     kind,
				Width:    f.Width,
				Rest:     kind == format.RawText && f.Width == 0,
				Optional: f.Optional,
			})
		}
		e.Lines = append(e.Lines, ls)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}
