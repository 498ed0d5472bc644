// This file contains the logic for parsing HCL field type expressions
// (e.g. `integer`, `float`, `text`) into config.FieldType values.

package hcl_adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/keydeck/internal/config"
	"github.com/vk/keydeck/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

var fieldTypes = map[string]config.FieldType{
	"integer": config.FieldInteger,
	"int":     config.FieldInteger,
	"float":   config.FieldFloat,
	"number":  config.FieldFloat,
	"text":    config.FieldText,
	"string":  config.FieldText,
}

// fieldTypeFromExpr reads a field type written as a bare keyword
// (type = integer) or, for convenience, a quoted string (type = "integer").
func fieldTypeFromExpr(ctx context.Context, expr hcl.Expression) (config.FieldType, error) {
	logger := ctxlog.FromContext(ctx)

	name := hcl.ExprAsKeyword(expr)
	if name == "" {
		val, diags := expr.Value(nil)
		if diags.HasErrors() || val.IsNull() || !val.Type().Equals(cty.String) {
			return "", fmt.Errorf("%s: type must be one of integer, float or text", expr.Range())
		}
		name = val.AsString()
		logger.Debug("Field type given as string literal.", "type", name)
	}

	ft, ok := fieldTypes[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%s: unknown field type %q, expected integer, float or text", expr.Range(), name)
	}
	return ft, nil
}
