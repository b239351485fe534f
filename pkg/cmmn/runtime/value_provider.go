package runtime

// ValueProvider supplies a value that is either fixed at compile time or
// evaluated by the runtime. It is implemented by ConstantValueProvider and
// ExpressionValueProvider only.
type ValueProvider interface {
	// RawText returns the text the provider was built from.
	RawText() string
	IsExpression() bool
	valueProvider()
}

type ConstantValueProvider struct {
	Value string `json:"value"`
}

func (c ConstantValueProvider) RawText() string    { return c.Value }
func (c ConstantValueProvider) IsExpression() bool { return false }
func (c ConstantValueProvider) valueProvider()     {}

// ExpressionValueProvider holds expression text, it is never evaluated during compilation.
type ExpressionValueProvider struct {
	Expression string `json:"expression"`
}

func (e ExpressionValueProvider) RawText() string    { return e.Expression }
func (e ExpressionValueProvider) IsExpression() bool { return true }
func (e ExpressionValueProvider) valueProvider()     {}

type FieldDeclaration struct {
	Name  string        `json:"name"`
	Value ValueProvider `json:"value"`
}
