package deck

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/keydeck/internal/card"
	"github.com/vk/keydeck/internal/format"
)

// parseDeck parses text with table and returns the deck together with the
// diagnostics collected along the way.
func parseDeck(t *testing.T, table *format.Table, text string, opts ...Option) (*Deck, []Diagnostic, error) {
	t.Helper()
	col := &Collector{}
	opts = append([]Option{WithReporter(col)}, opts...)
	d, err := Parse(context.Background(), strings.NewReader(text), table, opts...)
	return d, col.Diagnostics(), err
}

func tableOf(t *testing.T, defs map[string]string) *format.Table {
	t.Helper()
	tbl := format.NewTable()
	for kw, def := range defs {
		e, err := format.ParseEntry(kw, def)
		require.NoError(t, err)
		require.NoError(t, tbl.Register(e))
	}
	return tbl
}

func TestParse_NodeScenario(t *testing.T) {
	tbl := tableOf(t, map[string]string{"NODE": "NID-I10 X-F16 Y-F16 Z-F16"})
	text := "*NODE\n" + fmt.Sprintf("%10d%16s%16s%16s\n", 1, "0.0", "1.0", "2.0")

	d, diags, err := parseDeck(t, tbl, text)
	require.NoError(t, err)
	assert.Empty(t, diags)

	cards := d.Cards("NODE")
	require.Len(t, cards, 1)
	nid, _ := cards[0].Int("nid")
	x, _ := cards[0].Float("x")
	y, _ := cards[0].Float("y")
	z, _ := cards[0].Float("z")
	assert.Equal(t, int64(1), nid)
	assert.Equal(t, []float64{0, 1, 2}, []float64{x, y, z})

	p, ok := d.Node(1)
	require.True(t, ok)
	assert.Equal(t, Point{X: 0, Y: 1, Z: 2}, p)
}

func TestParse_CurveScenario(t *testing.T) {
	tbl := tableOf(t, map[string]string{"DEFINE_CURVE": "LCID-I\nA1-F20 O1-F20\n..."})
	text := strings.Join([]string{
		"*DEFINE_CURVE",
		"         5",
		fmt.Sprintf("%20s%20s", "0.0", "0.0"),
		fmt.Sprintf("%20s%20s", "1.0", "10.0"),
		fmt.Sprintf("%20s%20s", "2.0", "40.0"),
	}, "\n")

	d, _, err := parseDeck(t, tbl, text)
	require.NoError(t, err)

	cards := d.Cards("define_curve")
	require.Len(t, cards, 1)
	c := cards[0]

	lcid, ok := c.Int("LCID")
	require.True(t, ok)
	assert.Equal(t, int64(5), lcid)

	a1, ok := c.Floats("A1")
	require.True(t, ok)
	o1, ok := c.Floats("O1")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1, 2}, a1)
	assert.Equal(t, []float64{0, 10, 40}, o1)
	assert.Len(t, c.Rows(), 3)
	assert.Equal(t, 2, c.Line)
}

func TestParse_ConversionErrorScenario(t *testing.T) {
	tbl := tableOf(t, map[string]string{"NODE": "NID-I10 X-F16"})
	text := strings.Join([]string{
		"$ header comment",
		"*NODE",
		fmt.Sprintf("%10d%16s", 1, "0.0"),
		"$ another comment",
		fmt.Sprintf("%10s%16s", "abc", "0.0"),
	}, "\n")

	d, diags, err := parseDeck(t, tbl, text)
	require.Error(t, err)
	assert.Nil(t, d, "no partial deck on fatal failure")

	var convErr *FieldConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "NODE", convErr.Keyword)
	assert.Equal(t, "NID", convErr.Field)
	assert.Equal(t, 5, convErr.Line)
	assert.Equal(t, "       abc", convErr.Raw)

	require.Len(t, diags, 1)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, KindFieldConversion, diags[0].Kind)
	assert.Equal(t, 5, diags[0].Line)
	assert.Equal(t, "NID", diags[0].Field)
}

func TestParse_BlockShapeScenario(t *testing.T) {
	tbl := tableOf(t, map[string]string{"TRIPLE": "A-I\nB-I\nC-I"})
	lines := []string{"*TRIPLE"}
	for i := 0; i < 7; i++ {
		lines = append(lines, fmt.Sprintf("%10d", i))
	}

	_, diags, err := parseDeck(t, tbl, strings.Join(lines, "\n"))

	var shapeErr *BlockShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "TRIPLE", shapeErr.Keyword)
	assert.Equal(t, 1, shapeErr.Line)
	assert.Equal(t, 7, shapeErr.GotLines)
	assert.Equal(t, 3, shapeErr.ExpectedMultipleOf)
	assert.False(t, shapeErr.Variable)

	require.Len(t, diags, 1)
	assert.Equal(t, KindBlockShape, diags[0].Kind)
}

func TestParse_FixedCardCount(t *testing.T) {
	tbl := tableOf(t, map[string]string{"PAIR": "A-I\nB-F"})

	for _, cardsWanted := range []int{1, 2, 5} {
		t.Run(fmt.Sprint(cardsWanted), func(t *testing.T) {
			lines := []string{"*PAIR"}
			for i := 0; i < cardsWanted; i++ {
				lines = append(lines, fmt.Sprintf("%10d", i), fmt.Sprintf("%10.1f", float64(i)/2))
			}

			d, _, err := parseDeck(t, tbl, strings.Join(lines, "\n"))
			require.NoError(t, err)

			cards := d.Cards("PAIR")
			require.Len(t, cards, cardsWanted)
			for i, c := range cards {
				a, _ := c.Int("A")
				assert.Equal(t, int64(i), a)
				assert.Equal(t, 2+2*i, c.Line)
			}
		})
	}
}

func TestParse_VariableEntryCount(t *testing.T) {
	tbl := format.Builtin()

	for _, rows := range []int{0, 1, 4} {
		t.Run(fmt.Sprint(rows), func(t *testing.T) {
			lines := []string{"*DEFINE_CURVE", fmt.Sprintf("%10d", 9)}
			for i := 0; i < rows; i++ {
				lines = append(lines, fmt.Sprintf("%20g%20g", float64(i), float64(i*i)))
			}

			d, _, err := parseDeck(t, tbl, strings.Join(lines, "\n"))
			require.NoError(t, err)

			c, ok := d.FirstMatching("DEFINE_CURVE", card.Predicates{"LCID": card.Int(9)})
			require.True(t, ok)
			a1, ok := c.List("A1")
			require.True(t, ok)
			o1, ok := c.List("O1")
			require.True(t, ok)
			assert.Len(t, a1, rows)
			assert.Len(t, o1, rows)
		})
	}
}

func TestParse_VariableBlockShorterThanHeader(t *testing.T) {
	tbl := tableOf(t, map[string]string{"TABLE": "ID-I\nNAME-A\nV-F\n..."})

	_, _, err := parseDeck(t, tbl, "*TABLE\n         1\n")

	var shapeErr *BlockShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.True(t, shapeErr.Variable)
	assert.Equal(t, 2, shapeErr.ExpectedMultipleOf)
	assert.Equal(t, 1, shapeErr.GotLines)
}

func TestParse_OptionalFieldsOmitted(t *testing.T) {
	tbl := format.Builtin()
	text := strings.Join([]string{
		"*NODE",
		fmt.Sprintf("%8d%16s%16s%16s%8d%8d", 1, "0.0", "0.0", "0.0", 7, 3),
		fmt.Sprintf("%8d%16s%16s%16s", 2, "1.0", "0.0", "0.0"),
		fmt.Sprintf("%8d%16s%16s%16s%8s%8d", 3, "2.0", "0.0", "0.0", "", 5),
	}, "\n")

	d, _, err := parseDeck(t, tbl, text)
	require.NoError(t, err)
	cards := d.Cards("NODE")
	require.Len(t, cards, 3)

	assert.True(t, cards[0].Has("TC"))
	assert.True(t, cards[0].Has("RC"))
	assert.False(t, cards[1].Has("TC"))
	assert.False(t, cards[1].Has("RC"))
	assert.Equal(t, []string{"NID", "X", "Y", "Z"}, cards[1].Names())
	assert.False(t, cards[2].Has("TC"))
	rc, ok := cards[2].Int("RC")
	require.True(t, ok)
	assert.Equal(t, int64(5), rc)
}

func TestParse_Idempotent(t *testing.T) {
	tbl := format.Builtin()
	text := sampleDeck

	first, _, err := parseDeck(t, tbl, text)
	require.NoError(t, err)
	second, _, err := parseDeck(t, tbl, text)
	require.NoError(t, err)

	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, first.Nodes(), second.Nodes())
	assert.Equal(t, first.NodeSets(), second.NodeSets())
}

func TestParse_CaseInsensitiveKeywords(t *testing.T) {
	tbl := format.Builtin()
	text := "*part\nrod\n         1         2         3\n*Part\nbeam\n         4         5         6\n"

	d, _, err := parseDeck(t, tbl, text)
	require.NoError(t, err)

	upper := d.Cards("PART")
	require.Len(t, upper, 2)
	assert.Equal(t, upper, d.Cards("part"))
	assert.Equal(t, upper, d.Cards("Part"))
	assert.Equal(t, []string{"PART"}, d.Keywords())
}

func TestParse_UnknownKeywordIsRecoverable(t *testing.T) {
	tbl := format.Builtin()
	text := strings.Join([]string{
		"*KEYWORD",
		"*MYSTERY_CARD",
		"  some data that no format describes",
		"  and more",
		"*LOAD_BODY_Z",
		"        12",
	}, "\n")

	d, diags, err := parseDeck(t, tbl, text)
	require.NoError(t, err)

	assert.Empty(t, d.Cards("MYSTERY_CARD"))
	c, ok := d.FirstMatching("LOAD_BODY_Z", nil)
	require.True(t, ok)
	lcid, _ := c.Int("LCID")
	assert.Equal(t, int64(12), lcid)

	require.Len(t, diags, 1, "a keyword without data lines is not reported")
	assert.Equal(t, KindUnknownKeyword, diags[0].Kind)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Equal(t, "MYSTERY_CARD", diags[0].Keyword)
	assert.Equal(t, 2, diags[0].Line)
}

func TestParse_BlankLines(t *testing.T) {
	tbl := format.Builtin()

	t.Run("blank line is a data line inside a block", func(t *testing.T) {
		text := "*PART\n\n         1         2         3\n"
		d, _, err := parseDeck(t, tbl, text)
		require.NoError(t, err)

		parts := d.Cards("PART")
		require.Len(t, parts, 1)
		heading, ok := parts[0].Text("HEADING")
		require.True(t, ok)
		assert.Equal(t, "", heading)
	})

	t.Run("blank lines between blocks are ignored", func(t *testing.T) {
		text := "\n\n*LOAD_BODY_Z\n         3\n\n\n*LOAD_BODY_X\n         4\n"
		d, _, err := parseDeck(t, tbl, text)
		require.NoError(t, err)
		assert.Len(t, d.Cards("LOAD_BODY_Z"), 1)
		assert.Len(t, d.Cards("LOAD_BODY_X"), 1)
	})

	t.Run("trailing blank lines are not data", func(t *testing.T) {
		tbl := tableOf(t, map[string]string{"PAIR": "A-I\n(B-I)"})
		d, _, err := parseDeck(t, tbl, "*PAIR\n         1\n\n         2\n         3\n\n\n")
		require.NoError(t, err)

		cards := d.Cards("PAIR")
		require.Len(t, cards, 2)
		assert.False(t, cards[0].Has("B"))
		b, _ := cards[1].Int("B")
		assert.Equal(t, int64(3), b)
	})
}

func TestParse_BlankOnlyBlocks(t *testing.T) {
	// --- Arrange ---
	text := "*NOT_A_CARD\n\n*TITLE\n\n*END"

	// --- Act ---
	d, diags, err := parseDeck(t, format.Builtin(), text)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, diags, 1, "*END has no lines at all and is not reported")
	assert.Equal(t, KindUnknownKeyword, diags[0].Kind)
	assert.Equal(t, "NOT_A_CARD", diags[0].Keyword)
	assert.Equal(t, 1, diags[0].Line)

	titles := d.Cards("TITLE")
	require.Len(t, titles, 1)
	title, ok := titles[0].Text("TITLE")
	require.True(t, ok)
	assert.Equal(t, "", title)
	assert.Equal(t, 4, titles[0].Line)
}

func TestParse_InvalidMarkers(t *testing.T) {
	testCases := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{
			name:    "empty keyword marker",
			opts:    []Option{WithKeywordMarker("")},
			wantErr: "must not be empty",
		},
		{
			name:    "empty comment marker",
			opts:    []Option{WithCommentMarker("")},
			wantErr: "must not be empty",
		},
		{
			name:    "same marker twice",
			opts:    []Option{WithCommentMarker("#"), WithKeywordMarker("#")},
			wantErr: `both "#"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, diags, err := parseDeck(t, format.Builtin(), "*NODE\n", tc.opts...)

			require.ErrorIs(t, err, ErrInvalidMarkers)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.Nil(t, d)
			assert.Empty(t, diags)
		})
	}
}

func TestParse_NilReporter(t *testing.T) {
	d, err := Parse(context.Background(), strings.NewReader("*MYSTERY\n  1\n"), format.Builtin(), WithReporter(nil))

	require.NoError(t, err)
	assert.Zero(t, d.Len())
}

func TestParse_MissingMandatoryNumberIsFatal(t *testing.T) {
	tbl := format.Builtin()

	_, _, err := parseDeck(t, tbl, "*BOUNDARY_PRESCRIBED_MOTION_NODE\n         1         2\n")

	var convErr *FieldConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "VAD", convErr.Field)
	assert.Equal(t, "", convErr.Raw)
	assert.Equal(t, 2, convErr.Line)
}

func TestParse_CustomMarkersAndCRLF(t *testing.T) {
	tbl := format.Builtin()
	text := "# comment\r\n#LOAD_BODY_Z\r\n@load_body_z\r\n         8\r\n"

	d, _, err := parseDeck(t, tbl, text, WithCommentMarker("#"), WithKeywordMarker("@"))
	require.NoError(t, err)

	c, ok := d.FirstMatching("LOAD_BODY_Z", card.Predicates{"lcid": card.Int(8)})
	require.True(t, ok)
	assert.Equal(t, 4, c.Line)
}

func TestParse_OrphanDataIsReported(t *testing.T) {
	d, diags, err := parseDeck(t, format.Builtin(), "stray line\n*LOAD_BODY_Z\n         1\n")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())

	require.Len(t, diags, 1)
	assert.Equal(t, KindOrphanData, diags[0].Kind)
	assert.Equal(t, 1, diags[0].Line)
}

func TestParse_LongLine(t *testing.T) {
	tbl := tableOf(t, map[string]string{"NOTE": "TEXT-A*"})
	long := strings.Repeat("x", 200*1024)

	d, _, err := parseDeck(t, tbl, "*NOTE\n"+long+"\n")
	require.NoError(t, err)
	text, ok := d.Cards("NOTE")[0].Text("TEXT")
	require.True(t, ok)
	assert.Len(t, text, len(long))
}

func TestKeywordName(t *testing.T) {
	assert.Equal(t, "NODE", keywordName("*node", "*"))
	assert.Equal(t, "NODE", keywordName("**  Node  ", "*"))
	assert.Equal(t, "", keywordName("*", "*"))
}
