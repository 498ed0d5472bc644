package deck

import (
	"context"
	"fmt"

	"github.com/vk/keydeck/internal/card"
	"github.com/vk/keydeck/internal/ctxlog"
	"github.com/vk/keydeck/internal/format"
)

// Line is one physical line of a deck.
type Line struct {
	Number int // 1-based
	Text   string
}

// Block is the raw content of one keyword occurrence.
type Block struct {
	Keyword string
	Line    int // line of the keyword marker
	Lines   []Line
}

// BlockReader decodes keyword blocks according to a format table.
type BlockReader struct {
	table    *format.Table
	reporter Reporter
}

// NewBlockReader returns a reader for table. Diagnostics for skipped
// keywords go to reporter.
func NewBlockReader(table *format.Table, reporter Reporter) *BlockReader {
	if reporter == nil {
		reporter = Discard
	}
	return &BlockReader{table: table, reporter: reporter}
}

// Read turns a block into cards. A block without lines yields no cards. An
// unknown keyword with at least one line, blank or not, is reported and
// yields no cards. Shape and conversion failures are returned as
// *BlockShapeError and *FieldConversionError.
func (r *BlockReader) Read(ctx context.Context, b Block) ([]*card.Card, error) {
	lines := b.Lines
	if len(lines) == 0 {
		ctxlog.FromContext(ctx).Debug("Keyword block has no data lines.", "keyword", b.Keyword, "line", b.Line)
		return nil, nil
	}

	entry, ok := r.table.Lookup(b.Keyword)
	if !ok {
		r.reporter.Report(ctx, Diagnostic{
			Severity: SeverityWarning,
			Kind:     KindUnknownKeyword,
			Keyword:  b.Keyword,
			Line:     b.Line,
			Message:  fmt.Sprintf("skipping keyword %s", b.Keyword),
		})
		return nil, nil
	}

	if entry.Variable {
		c, err := r.readVariable(entry, b, lines)
		if err != nil {
			return nil, err
		}
		return []*card.Card{c}, nil
	}
	return r.readFixed(entry, b, lines)
}

func (r *BlockReader) readFixed(entry *format.Entry, b Block, lines []Line) ([]*card.Card, error) {
	n := len(entry.Lines)
	lines = trimTrailingBlank(lines, min(n, len(lines)))
	if len(lines)%n != 0 {
		return nil, &BlockShapeError{Keyword: entry.Keyword, Line: b.Line, GotLines: len(lines), ExpectedMultipleOf: n}
	}

	cards := make([]*card.Card, 0, len(lines)/n)
	for start := 0; start < len(lines); start += n {
		bld := card.NewBuilder(entry.Keyword, lines[start].Number)
		for i, ls := range entry.Lines {
			fields, err := decodeLine(entry.Keyword, ls, lines[start+i])
			if err != nil {
				return nil, err
			}
			for _, f := range fields {
				bld.Set(f.Name, f.Value)
			}
		}
		cards = append(cards, bld.Card())
	}
	return cards, nil
}

func (r *BlockReader) readVariable(entry *format.Entry, b Block, lines []Line) (*card.Card, error) {
	header := entry.HeaderLines()
	lines = trimTrailingBlank(lines, len(header))
	if len(lines) < len(header) {
		return nil, &BlockShapeError{Keyword: entry.Keyword, Line: b.Line, GotLines: len(lines), ExpectedMultipleOf: len(header), Variable: true}
	}

	bld := card.NewBuilder(entry.Keyword, lines[0].Number)
	for i, ls := range header {
		fields, err := decodeLine(entry.Keyword, ls, lines[i])
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			bld.Set(f.Name, f.Value)
		}
	}

	repeat, _ := entry.RepeatLine()
	for _, f := range repeat {
		if !f.Optional {
			bld.Declare(f.Name)
		}
	}
	for _, line := range lines[len(header):] {
		fields, err := decodeLine(entry.Keyword, repeat, line)
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			bld.Append(f.Name, f.Value)
		}
		bld.AddRow(fields)
	}
	return bld.Card(), nil
}

// decodeLine slices one physical line and converts each field. Optional
// fields with blank slices are left out of the result.
func decodeLine(keyword string, ls format.LineSpec, line Line) ([]card.Field, error) {
	raws := ls.Slice(line.Text)
	fields := make([]card.Field, 0, len(ls))
	for i, spec := range ls {
		raw := raws[i]
		if spec.Optional && format.IsBlank(raw) {
			continue
		}
		v, err := spec.Decode(raw)
		if err != nil {
			return nil, &FieldConversionError{Keyword: keyword, Field: spec.Name, Raw: raw, Line: line.Number, Err: err}
		}
		fields = append(fields, card.Field{Name: spec.Name, Value: v})
	}
	return fields, nil
}

// trimTrailingBlank drops blank lines at the end of a block, keeping at
// least keep lines. Blank lines inside a block are data, and so are the
// blank lines of a block that holds nothing else, up to one card's worth.
func trimTrailingBlank(lines []Line, keep int) []Line {
	end := len(lines)
	for end > keep && format.IsBlank(lines[end-1].Text) {
		end--
	}
	return lines[:end]
}
