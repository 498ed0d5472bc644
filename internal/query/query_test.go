package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/keydeck/internal/card"
	"github.com/vk/keydeck/internal/format"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  Query
	}{
		{
			name:  "keyword only",
			input: "node",
			want:  Query{Keyword: "NODE"},
		},
		{
			name:  "keyword marker is dropped",
			input: "*PART pid=100",
			want:  Query{Keyword: "PART", Where: []Condition{{Field: "PID", Raw: "100"}}},
		},
		{
			name:  "quoted value with spaces",
			input: `part  heading="body two"   mid=2`,
			want: Query{Keyword: "PART", Where: []Condition{
				{Field: "HEADING", Raw: "body two"},
				{Field: "MID", Raw: "2"},
			}},
		},
		{
			name:  "empty value",
			input: `PART HEADING=`,
			want:  Query{Keyword: "PART", Where: []Condition{{Field: "HEADING", Raw: ""}}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "blank", input: "   ", wantErr: "query has no keyword"},
		{name: "condition first", input: "PID=1 PART", wantErr: "must start with a keyword"},
		{name: "bare word", input: "PART PID", wantErr: "not of the form FIELD=VALUE"},
		{name: "missing field name", input: "PART =3", wantErr: "not of the form FIELD=VALUE"},
		{name: "open quote", input: `PART HEADING="body`, wantErr: "unterminated quote"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
	_, err := Parse("")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestQuery_Predicates(t *testing.T) {
	table := format.Builtin()

	q, err := Parse(`PART PID=100 MID=" 2 " heading="body one"`)
	require.NoError(t, err)

	preds, err := q.Predicates(table)
	require.NoError(t, err)
	want := card.Predicates{
		"PID":     card.Int(100),
		"MID":     card.Text("2"),
		"HEADING": card.Text("body one"),
	}
	assert.Equal(t, want, preds)
}

func TestQuery_PredicatesErrors(t *testing.T) {
	table := format.Builtin()
	testCases := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "unknown keyword", input: "MYSTERY A=1", wantErr: "no card format for keyword MYSTERY"},
		{name: "unknown field", input: "PART COLOR=red", wantErr: "keyword PART has no field COLOR"},
		{name: "repeated field", input: "DEFINE_CURVE A1=0.0", wantErr: "repeats per line"},
		{name: "bad integer", input: "PART PID=abc", wantErr: "value for PART.PID"},
		{name: "float for an integer field", input: "LOAD_BODY_Z LCID=1.5", wantErr: "not an integer"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := Parse(tc.input)
			require.NoError(t, err)
			_, err = q.Predicates(table)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestQuery_String(t *testing.T) {
	q := Query{Keyword: "PART", Where: []Condition{
		{Field: "PID", Raw: "100"},
		{Field: "HEADING", Raw: "body one"},
		{Field: "MID", Raw: ""},
	}}
	assert.Equal(t, `PART PID=100 HEADING="body one" MID=""`, q.String())

	again, err := Parse(q.String())
	require.NoError(t, err)
	assert.Equal(t, q, again)
}

func TestSplit(t *testing.T) {
	words, err := Split(`a "b c"d  e\t` + "\tf" + ` "esc \"q\""`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b cd", `e\t`, "f", `esc "q"`}, words)
}
