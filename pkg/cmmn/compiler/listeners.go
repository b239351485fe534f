package compiler

import (
	"slices"
	"strings"

	"github.com/dop251/goja"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/model/cmmn11"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/model/extensions"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
)

const DefaultScriptLanguage = "juel"

var javascriptLanguages = []string{"javascript", "js", "ecmascript"}

// buildListenerTable compiles listener specifications into a table keyed by
// event. A listener without event is registered for every event in applicable.
func (c *Compiler) buildListenerTable(elementId string, listeners []extensions.TListener, applicable []string) (runtime.ListenerTable, error) {
	table := runtime.ListenerTable{}
	for _, listener := range listeners {
		delegate, err := c.buildDelegate(elementId, listener)
		if err != nil {
			return nil, err
		}
		events := []string{strings.TrimSpace(listener.Event)}
		if listener.IsWildcard() {
			events = applicable
		}
		for _, event := range events {
			table.Add(runtime.ListenerDeclaration{
				Event:    event,
				Delegate: copyDelegate(delegate),
			})
		}
	}
	return table, nil
}

func (c *Compiler) buildCaseExecutionListeners(elementId string, ext cmmn11.TExtensionElements, applicable []string) (runtime.ListenerTable, error) {
	listeners := make([]extensions.TListener, 0, len(ext.CaseExecutionListeners))
	for _, l := range ext.CaseExecutionListeners {
		listeners = append(listeners, l.TListener)
	}
	return c.buildListenerTable(elementId, listeners, applicable)
}

func (c *Compiler) buildVariableListeners(elementId string, ext cmmn11.TExtensionElements) (runtime.ListenerTable, error) {
	listeners := make([]extensions.TListener, 0, len(ext.VariableListeners))
	for _, l := range ext.VariableListeners {
		listeners = append(listeners, l.TListener)
	}
	return c.buildListenerTable(elementId, listeners, runtime.VariableEvents)
}

func (c *Compiler) buildTaskListeners(elementId string, ext cmmn11.TExtensionElements) (runtime.ListenerTable, error) {
	listeners := make([]extensions.TListener, 0, len(ext.TaskListeners))
	for _, l := range ext.TaskListeners {
		listeners = append(listeners, l.TListener)
	}
	return c.buildListenerTable(elementId, listeners, runtime.TaskEvents)
}

// buildDelegate picks the delegate in the order class, expression, delegate
// expression, script.
func (c *Compiler) buildDelegate(elementId string, listener extensions.TListener) (runtime.DelegateSpec, error) {
	switch {
	case listener.Class != "":
		fields, err := buildFieldDeclarations(elementId, listener.Fields)
		if err != nil {
			return nil, err
		}
		return runtime.ClassDelegate{ClassName: listener.Class, Fields: fields}, nil
	case listener.Expression != "":
		return runtime.ExpressionDelegate{Expression: listener.Expression}, nil
	case listener.DelegateExpression != "":
		fields, err := buildFieldDeclarations(elementId, listener.Fields)
		if err != nil {
			return nil, err
		}
		return runtime.DelegateExpression{Expression: listener.DelegateExpression, Fields: fields}, nil
	case listener.Script != nil:
		return c.buildScript(elementId, *listener.Script)
	}
	return nil, newCompileErrorf(elementId, ErrMissingDelegate, "listener for event %q", listener.Event)
}

func (c *Compiler) buildScript(elementId string, script extensions.TScript) (runtime.DelegateSpec, error) {
	language := strings.TrimSpace(script.ScriptFormat)
	if language == "" {
		language = DefaultScriptLanguage
	}
	delegate := runtime.ScriptDelegate{
		Language: language,
		Source:   script.GetSource(),
		Resource: strings.TrimSpace(script.Resource),
	}
	if delegate.Source == "" && delegate.Resource == "" {
		return nil, newCompileErrorf(elementId, ErrInvalidScript, "script has neither source nor resource")
	}
	if c.precompileScripts && delegate.Source != "" && slices.Contains(javascriptLanguages, strings.ToLower(language)) {
		program, err := goja.Compile(elementId, delegate.Source, true)
		if err != nil {
			return nil, newCompileErrorf(elementId, ErrInvalidScript, "%s", err)
		}
		delegate.Program = program
	}
	return delegate, nil
}

// copyDelegate gives every table entry its own delegate value.
func copyDelegate(delegate runtime.DelegateSpec) runtime.DelegateSpec {
	switch d := delegate.(type) {
	case runtime.ClassDelegate:
		d.Fields = slices.Clone(d.Fields)
		return d
	case runtime.DelegateExpression:
		d.Fields = slices.Clone(d.Fields)
		return d
	}
	return delegate
}
