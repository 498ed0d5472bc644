package deck

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vk/keydeck/internal/ctxlog"
)

// Severity grades a diagnostic.
type Severity int

const (
	// SeverityWarning marks a recoverable condition; the scan continues.
	SeverityWarning Severity = iota
	// SeverityError marks the fatal condition that aborted the parse.
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// DiagnosticKind classifies a diagnostic.
type DiagnosticKind string

const (
	KindUnknownKeyword  DiagnosticKind = "unknown_keyword"
	KindOrphanData      DiagnosticKind = "orphan_data"
	KindBlockShape      DiagnosticKind = "block_shape"
	KindFieldConversion DiagnosticKind = "field_conversion"
	KindRead            DiagnosticKind = "read"
)

// Diagnostic is one notice emitted while scanning a deck.
type Diagnostic struct {
	Severity Severity
	Kind     DiagnosticKind
	Keyword  string
	Line     int // 1-based file line
	Field    string
	Raw      string
	Message  string
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: line %d", d.Severity, d.Line)
	if d.Keyword != "" {
		fmt.Fprintf(&sb, ", keyword %s", d.Keyword)
	}
	if d.Field != "" {
		fmt.Fprintf(&sb, ", field %s (raw %q)", d.Field, d.Raw)
	}
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	return sb.String()
}

// Reporter receives diagnostics. Parsing calls it synchronously.
type Reporter interface {
	Report(ctx context.Context, d Diagnostic)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(ctx context.Context, d Diagnostic)

// Report calls f(ctx, d).
func (f ReporterFunc) Report(ctx context.Context, d Diagnostic) { f(ctx, d) }

// Discard drops every diagnostic.
var Discard Reporter = ReporterFunc(func(context.Context, Diagnostic) {})

// LogReporter writes diagnostics to the logger carried by the context.
type LogReporter struct{}

// Report logs warnings at warn level and fatal diagnostics at error level.
func (LogReporter) Report(ctx context.Context, d Diagnostic) {
	logger := ctxlog.FromContext(ctx)
	attrs := []any{"kind", string(d.Kind), "line", d.Line}
	if d.Keyword != "" {
		attrs = append(attrs, "keyword", d.Keyword)
	}
	if d.Field != "" {
		attrs = append(attrs, "field", d.Field, "raw", d.Raw)
	}
	if d.Severity == SeverityError {
		logger.Error(d.Message, attrs...)
		return
	}
	logger.Warn(d.Message, attrs...)
}

// Collector records diagnostics in memory.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Report records d.
func (c *Collector) Report(_ context.Context, d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

// Diagnostics returns the recorded diagnostics in report order.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic{}, c.diags...)
}

// Multi fans a diagnostic out to several reporters in order.
func Multi(reporters ...Reporter) Reporter {
	return ReporterFunc(func(ctx context.Context, d Diagnostic) {
		for _, r := range reporters {
			r.Report(ctx, d)
		}
	})
}
