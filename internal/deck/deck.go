package deck

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vk/keydeck/internal/card"
	"github.com/vk/keydeck/internal/ctxlog"
	"github.com/vk/keydeck/internal/format"
)

const (
	DefaultCommentMarker = "$"
	DefaultKeywordMarker = "*"
)

// Option configures Parse and Open.
type Option func(*options)

type options struct {
	commentMarker string
	keywordMarker string
	reporter      Reporter
}

// WithCommentMarker sets the prefix of ignored comment lines.
func WithCommentMarker(marker string) Option {
	return func(o *options) { o.commentMarker = marker }
}

// WithKeywordMarker sets the prefix of keyword lines.
func WithKeywordMarker(marker string) Option {
	return func(o *options) { o.keywordMarker = marker }
}

// WithReporter sets the sink for diagnostics. The default is LogReporter.
func WithReporter(r Reporter) Option {
	return func(o *options) { o.reporter = r }
}

func (o options) validate() error {
	switch {
	case o.commentMarker == "" || o.keywordMarker == "":
		return fmt.Errorf("%w: comment marker %q and keyword marker %q must not be empty", ErrInvalidMarkers, o.commentMarker, o.keywordMarker)
	case o.commentMarker == o.keywordMarker:
		return fmt.Errorf("%w: comment and keyword markers are both %q", ErrInvalidMarkers, o.commentMarker)
	}
	return nil
}

// Point is a node coordinate.
type Point struct {
	X, Y, Z float64
}

// Deck is a fully parsed keyword file. It is immutable and safe for
// concurrent readers.
type Deck struct {
	byKeyword map[string][]*card.Card
	keywords  []string // first-appearance order
	all       []*card.Card

	nodes         map[int64]Point
	nodeSets      map[int64][]int64
	extraNodeSets map[int64]int64
}

type scanState int

const (
	scanningForKeyword scanState = iota
	accumulatingBlock
)

// maxLine bounds a single physical line.
const maxLine = 16 * 1024 * 1024

// Parse scans r from start to end and builds a Deck. Any fatal error aborts
// the parse; no partial Deck is returned.
func Parse(ctx context.Context, r io.Reader, table *format.Table, opts ...Option) (*Deck, error) {
	o := options{
		commentMarker: DefaultCommentMarker,
		keywordMarker: DefaultKeywordMarker,
		reporter:      LogReporter{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if o.reporter == nil {
		o.reporter = Discard
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Deck scan started.", "keywords_known", table.Len())

	d := &Deck{byKeyword: make(map[string][]*card.Card)}
	reader := NewBlockReader(table, o.reporter)

	fail := func(err error) (*Deck, error) {
		o.reporter.Report(ctx, diagnosticFor(err))
		return nil, err
	}

	var (
		state   = scanningForKeyword
		pending Block
		lineNo  int
	)
	flush := func() error {
		cards, err := reader.Read(ctx, pending)
		if err != nil {
			return err
		}
		d.add(pending.Keyword, cards)
		logger.Debug("Keyword block flushed.", "keyword", pending.Keyword, "line", pending.Line, "cards", len(cards))
		return nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	for sc.Scan() {
		lineNo++
		text := strings.TrimSuffix(sc.Text(), "\r")

		switch {
		case strings.HasPrefix(text, o.commentMarker):
			continue
		case strings.HasPrefix(text, o.keywordMarker):
			if state == accumulatingBlock {
				if err := flush(); err != nil {
					return fail(err)
				}
			}
			pending = Block{Keyword: keywordName(text, o.keywordMarker), Line: lineNo}
			state = accumulatingBlock
		case state == accumulatingBlock:
			pending.Lines = append(pending.Lines, Line{Number: lineNo, Text: text})
		case !format.IsBlank(text):
			o.reporter.Report(ctx, Diagnostic{
				Severity: SeverityWarning,
				Kind:     KindOrphanData,
				Line:     lineNo,
				Message:  "ignoring data line outside any keyword block",
			})
		}
	}
	if err := sc.Err(); err != nil {
		return fail(fmt.Errorf("read deck at line %d: %w", lineNo+1, err))
	}
	if state == accumulatingBlock {
		if err := flush(); err != nil {
			return fail(err)
		}
	}
	d.buildCaches(ctx)
	logger.Debug("Deck scan finished.", "lines", lineNo, "cards", len(d.all), "keywords", len(d.keywords))
	return d, nil
}

// keywordName canonicalizes a keyword line: markers and surrounding space
// are removed and the name is uppercased.
func keywordName(text, marker string) string {
	for strings.HasPrefix(text, marker) {
		text = text[len(marker):]
	}
	return strings.ToUpper(strings.TrimSpace(text))
}

func (d *Deck) add(keyword string, cards []*card.Card) {
	if len(cards) == 0 {
		return
	}
	if _, seen := d.byKeyword[keyword]; !seen {
		d.keywords = append(d.keywords, keyword)
	}
	d.byKeyword[keyword] = append(d.byKeyword[keyword], cards...)
	d.all = append(d.all, cards...)
}

// Cards returns the cards read under keyword, in file order. It returns an
// empty slice when the keyword is absent.
func (d *Deck) Cards(keyword string) []*card.Card {
	cards := d.byKeyword[strings.ToUpper(strings.TrimSpace(keyword))]
	return append([]*card.Card{}, cards...)
}

// FirstMatching returns the first card under keyword, in file order, that
// holds every field=value pair in where.
func (d *Deck) FirstMatching(keyword string, where card.Predicates) (*card.Card, bool) {
	for _, c := range d.byKeyword[strings.ToUpper(strings.TrimSpace(keyword))] {
		if c.Matches(where) {
			return c, true
		}
	}
	return nil, false
}

// All returns every card in file order.
func (d *Deck) All() []*card.Card {
	return append([]*card.Card{}, d.all...)
}

// Len returns the total number of cards.
func (d *Deck) Len() int {
	return len(d.all)
}

// Keywords returns the keywords that produced cards, in order of first
// appearance.
func (d *Deck) Keywords() []string {
	return append([]string{}, d.keywords...)
}

// String renders all cards grouped by keyword in sorted keyword order.
func (d *Deck) String() string {
	keywords := d.Keywords()
	sort.Strings(keywords)
	var out []string
	for _, kw := range keywords {
		for _, c := range d.byKeyword[kw] {
			out = append(out, c.String())
		}
	}
	return strings.Join(out, "\n\n")
}
