package compiler

import (
	"strings"

	"github.com/pbinitiative/zencmmn/pkg/cmmn/model/extensions"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
)

// buildFieldDeclaration normalizes the four field syntaxes. Attributes win over
// nested elements, the string form wins over the expression form. Nested text
// is kept as written.
func buildFieldDeclaration(field extensions.TField) (runtime.FieldDeclaration, error) {
	name := strings.TrimSpace(field.Name)
	if name == "" {
		return runtime.FieldDeclaration{}, ErrMissingFieldName
	}
	declaration := runtime.FieldDeclaration{Name: name}
	switch {
	case field.StringValue != nil:
		declaration.Value = runtime.ConstantValueProvider{Value: *field.StringValue}
	case field.ExpressionAttr != nil:
		declaration.Value = runtime.ExpressionValueProvider{Expression: *field.ExpressionAttr}
	case field.String != nil:
		declaration.Value = runtime.ConstantValueProvider{Value: *field.String}
	case field.Expression != nil:
		declaration.Value = runtime.ExpressionValueProvider{Expression: *field.Expression}
	default:
		return runtime.FieldDeclaration{}, ErrMissingFieldValue
	}
	return declaration, nil
}

func buildFieldDeclarations(elementId string, fields []extensions.TField) ([]runtime.FieldDeclaration, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	declarations := make([]runtime.FieldDeclaration, 0, len(fields))
	for _, field := range fields {
		declaration, err := buildFieldDeclaration(field)
		if err != nil {
			return nil, newCompileErrorf(elementId, err, "field %q", field.Name)
		}
		declarations = append(declarations, declaration)
	}
	return declarations, nil
}
