// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/keydeck/internal/config"
	"github.com/vk/keydeck/internal/ctxlog"
	"github.com/vk/keydeck/internal/format"
)

// translateCard converts the HCL-specific card schema into the agnostic model.
func (l *Loader) translateCard(ctx context.Context, b *cardBlock, file string) (*config.CardDefinition, error) {
	keyword := strings.ToUpper(strings.TrimSpace(b.Keyword))
	logger := ctxlog.FromContext(ctx).With("card", keyword, "file", file)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL card to internal config model.")

	if keyword == "" {
		return nil, fmt.Errorf("%s: card block needs a non-empty keyword label", file)
	}
	switch {
	case len(b.Lines) > 0 && len(b.LineBlocks) > 0:
		return nil, fmt.Errorf("%s: card %q sets both `lines` and `line` blocks; use one", file, keyword)
	case len(b.Lines) == 0 && len(b.LineBlocks) == 0:
		return nil, fmt.Errorf("%s: card %q needs either `lines` or at least one `line` block", file, keyword)
	}

	def := &config.CardDefinition{
		Keyword:     keyword,
		Description: b.Description,
		Repeat:      b.Repeat,
		Source:      file,
	}
	if len(b.Lines) > 0 {
		def.Lines = append([]string{}, b.Lines...)
		return def, nil
	}

	for i, lb := range b.LineBlocks {
		if len(lb.Fields) == 0 {
			return nil, fmt.Errorf("%s: card %q line %d declares no fields", file, keyword, i+1)
		}
		var line []*config.FieldDefinition
		for _, fb := range lb.Fields {
			fd, err := translateField(ctx, fb)
			if err != nil {
				return nil, fmt.Errorf("%s: card %q line %d: %w", file, keyword, i+1, err)
			}
			line = append(line, fd)
		}
		def.Layout = append(def.Layout, line)
	}
	return def, nil
}

// translateField converts one `field` block, applying the default width.
func translateField(ctx context.Context, fb *fieldBlock) (*config.FieldDefinition, error) {
	name := strings.ToUpper(strings.TrimSpace(fb.Name))
	ft, err := fieldTypeFromExpr(ctx, fb.Type)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}

	width := format.DefaultFieldWidth
	if isExprDefined(ctx, fb.Width, "width") {
		if diags := gohcl.DecodeExpression(fb.Width, nil, &width); diags.HasErrors() {
			return nil, fmt.Errorf("field %q: invalid width: %w", name, diags)
		}
	}
	switch {
	case width < 0:
		return nil, fmt.Errorf("field %q: width must not be negative, got %d", name, width)
	case width == 0 && ft != config.FieldText:
		return nil, fmt.Errorf("field %q: only text fields may use width 0 (rest of line)", name)
	}

	return &config.FieldDefinition{
		Name:     name,
		Type:     ft,
		Width:    width,
		Optional: fb.Optional,
	}, nil
}
