package extensions

const AllVariables = "all"

// TParameter is a camunda:in or camunda:out element of a call task.
type TParameter struct {
	Variables        string `xml:"variables,attr"`
	Source           string `xml:"source,attr"`
	SourceExpression string `xml:"sourceExpression,attr"`
	Target           string `xml:"target,attr"`
	BusinessKey      string `xml:"businessKey,attr"`
	Local            bool   `xml:"local,attr"`
}

func (p TParameter) IsAllVariables() bool {
	return p.Variables == AllVariables
}

func (p TParameter) IsBusinessKey() bool {
	return p.BusinessKey != ""
}

type TVariableOnPart struct {
	VariableName  string `xml:"variableName,attr"`
	VariableEvent string `xml:"variableEvent"`
}
