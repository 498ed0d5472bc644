package deck

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/keydeck/internal/ctxlog"
)

func TestDiagnostic_String(t *testing.T) {
	testCases := []struct {
		name string
		diag Diagnostic
		want string
	}{
		{
			name: "orphan line",
			diag: Diagnostic{Severity: SeverityWarning, Kind: KindOrphanData, Line: 3, Message: "ignoring data line outside any keyword block"},
			want: "warning: line 3: ignoring data line outside any keyword block",
		},
		{
			name: "conversion failure",
			diag: Diagnostic{Severity: SeverityError, Kind: KindFieldConversion, Keyword: "NODE", Line: 5, Field: "X", Raw: " abc", Message: "bad"},
			want: `error: line 5, keyword NODE, field X (raw " abc"): bad`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.diag.String())
		})
	}
}

func TestDiagnosticFor(t *testing.T) {
	shape := &BlockShapeError{Keyword: "PAIR", Line: 4, GotLines: 7, ExpectedMultipleOf: 3}
	conv := &FieldConversionError{Keyword: "NODE", Field: "NID", Raw: "x", Line: 9, Err: errors.New("invalid syntax")}

	d := diagnosticFor(shape)
	assert.Equal(t, KindBlockShape, d.Kind)
	assert.Equal(t, SeverityError, d.Severity)
	assert.Equal(t, 4, d.Line)
	assert.Equal(t, "PAIR", d.Keyword)

	d = diagnosticFor(conv)
	assert.Equal(t, KindFieldConversion, d.Kind)
	assert.Equal(t, "NID", d.Field)
	assert.Equal(t, "x", d.Raw)
	assert.Equal(t, 9, d.Line)

	d = diagnosticFor(errors.New("disk on fire"))
	assert.Equal(t, KindRead, d.Kind)
	assert.Equal(t, "disk on fire", d.Message)
}

func TestLogReporter(t *testing.T) {
	// --- Arrange ---
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	// --- Act ---
	LogReporter{}.Report(ctx, Diagnostic{Severity: SeverityWarning, Kind: KindUnknownKeyword, Keyword: "MYSTERY", Line: 2, Message: "skipping keyword MYSTERY"})
	LogReporter{}.Report(ctx, Diagnostic{Severity: SeverityError, Kind: KindFieldConversion, Keyword: "NODE", Line: 5, Field: "X", Raw: "abc", Message: "conversion failed"})

	// --- Assert ---
	out := buf.String()
	assert.Contains(t, out, `level=WARN msg="skipping keyword MYSTERY" kind=unknown_keyword line=2 keyword=MYSTERY`)
	assert.Contains(t, out, `level=ERROR msg="conversion failed" kind=field_conversion line=5 keyword=NODE field=X raw=abc`)
}

func TestMulti(t *testing.T) {
	a, b := &Collector{}, &Collector{}
	r := Multi(a, b, Discard)

	r.Report(context.Background(), Diagnostic{Line: 1})
	r.Report(context.Background(), Diagnostic{Line: 2})

	assert.Len(t, a.Diagnostics(), 2)
	assert.Equal(t, a.Diagnostics(), b.Diagnostics())
	assert.Equal(t, 2, b.Diagnostics()[1].Line)
}
