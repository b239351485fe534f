package compiler

import (
	"strings"

	"github.com/pbinitiative/zencmmn/pkg/cmmn/model/cmmn11"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/model/extensions"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
)

func parseBinding(binding string) (runtime.Binding, bool) {
	switch runtime.Binding(strings.TrimSpace(binding)) {
	case "", runtime.BindingLatest:
		return runtime.BindingLatest, true
	case runtime.BindingDeployment:
		return runtime.BindingDeployment, true
	case runtime.BindingVersion:
		return runtime.BindingVersion, true
	}
	return "", false
}

// buildCallableElement builds the invocation descriptor of a case, process or decision task.
func buildCallableElement(task cmmn11.CallableTask) (*runtime.CallableElement, error) {
	binding, ok := parseBinding(task.GetBinding())
	if !ok {
		return nil, newCompileErrorf(task.GetId(), ErrInvalidBinding, "unknown binding %q", task.GetBinding())
	}
	callable := &runtime.CallableElement{
		DefinitionKey: NewValueProvider(strings.TrimSpace(task.GetDefinitionKey())),
		Binding:       binding,
		Version:       NewValueProvider(strings.TrimSpace(task.GetVersion())),
		TenantId:      NewValueProvider(strings.TrimSpace(task.GetTenantId())),
		Inputs:        []runtime.ParameterMapping{},
		Outputs:       []runtime.ParameterMapping{},
	}
	if callable.DefinitionKey == nil {
		return nil, newCompileErrorf(task.GetId(), ErrMissingDefinition, "no %s reference", task.GetType())
	}
	if binding == runtime.BindingVersion && callable.Version == nil {
		return nil, newCompileErrorf(task.GetId(), ErrInvalidBinding, "binding %q requires a version", binding)
	}

	ext := task.GetExtensionElements()
	for _, in := range ext.In {
		// the last businessKey mapping wins
		if in.IsBusinessKey() {
			callable.BusinessKey = NewValueProvider(in.BusinessKey)
			continue
		}
		mapping, err := buildParameterMapping(task.GetId(), in)
		if err != nil {
			return nil, err
		}
		callable.Inputs = append(callable.Inputs, mapping)
	}
	for _, out := range ext.Out {
		mapping, err := buildParameterMapping(task.GetId(), out)
		if err != nil {
			return nil, err
		}
		callable.Outputs = append(callable.Outputs, mapping)
	}
	return callable, nil
}

// buildParameterMapping treats source as a variable name and sourceExpression
// as an expression, regardless of their syntax.
func buildParameterMapping(elementId string, parameter extensions.TParameter) (runtime.ParameterMapping, error) {
	mapping := runtime.ParameterMapping{Local: parameter.Local}
	if parameter.IsAllVariables() {
		mapping.AllVariables = true
		return mapping, nil
	}
	target := strings.TrimSpace(parameter.Target)
	switch {
	case parameter.Source != "":
		mapping.Source = runtime.ConstantValueProvider{Value: parameter.Source}
		if target == "" {
			target = parameter.Source
		}
	case parameter.SourceExpression != "":
		mapping.Source = runtime.ExpressionValueProvider{Expression: parameter.SourceExpression}
		if target == "" {
			return mapping, newCompileErrorf(elementId, ErrInvalidParameterMapping, "source expression %q has no target", parameter.SourceExpression)
		}
	default:
		return mapping, newCompileErrorf(elementId, ErrInvalidParameterMapping, "mapping has neither source nor source expression")
	}
	mapping.Target = target
	return mapping, nil
}
