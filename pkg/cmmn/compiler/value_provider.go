package compiler

import (
	"strings"

	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
)

// IsExpression reports whether text uses the ${...} or #{...} expression syntax.
func IsExpression(text string) bool {
	text = strings.TrimSpace(text)
	if len(text) < 3 || !strings.HasSuffix(text, "}") {
		return false
	}
	return strings.HasPrefix(text, "${") || strings.HasPrefix(text, "#{")
}

// NewValueProvider returns nil for empty text, an expression provider for
// expression syntax and a constant provider otherwise.
func NewValueProvider(text string) runtime.ValueProvider {
	if text == "" {
		return nil
	}
	if IsExpression(text) {
		return runtime.ExpressionValueProvider{Expression: text}
	}
	return runtime.ConstantValueProvider{Value: text}
}
