package cmmn11

import (
	"strings"

	"github.com/pbinitiative/zencmmn/pkg/cmmn/model/extensions"
)

type ElementType string

const (
	ElementTypeTask               ElementType = "task"
	ElementTypeHumanTask          ElementType = "humanTask"
	ElementTypeCaseTask           ElementType = "caseTask"
	ElementTypeProcessTask        ElementType = "processTask"
	ElementTypeDecisionTask       ElementType = "decisionTask"
	ElementTypeStage              ElementType = "stage"
	ElementTypeTimerEventListener ElementType = "timerEventListener"
	ElementTypeMilestone          ElementType = "milestone"
	ElementTypeCasePlanModel      ElementType = "casePlanModel"
)

// All CMMN elements may carry one or more documentation texts.
type TDocumentation struct {
	Text       string `xml:",chardata"`
	TextFormat string `xml:"textFormat,attr"`
}

func (doc TDocumentation) GetText() string {
	return strings.TrimSpace(doc.Text)
}

// TExtensionElements holds the camunda extension elements an element may carry.
// Which of them are honored depends on the element.
type TExtensionElements struct {
	CaseExecutionListeners []extensions.TCaseExecutionListener `xml:"caseExecutionListener"`
	VariableListeners      []extensions.TVariableListener      `xml:"variableListener"`
	TaskListeners          []extensions.TTaskListener          `xml:"taskListener"`
	In                     []extensions.TParameter             `xml:"in"`
	Out                    []extensions.TParameter             `xml:"out"`
	VariableOnParts        []extensions.TVariableOnPart        `xml:"variableOnPart"`
	RepeatOnStandardEvent  string                              `xml:"repeatOnStandardEvent"`
}

type TBaseElement struct {
	Id                string              `xml:"id,attr"`
	Description       string              `xml:"description,attr"`
	Documentation     []TDocumentation    `xml:"documentation"`
	ExtensionElements *TExtensionElements `xml:"extensionElements"`
}

func (t TBaseElement) GetId() string {
	return t.Id
}

func (t TBaseElement) GetDescription() string {
	return t.Description
}

func (t TBaseElement) GetDocumentation() []TDocumentation {
	return t.Documentation
}

func (t TBaseElement) GetExtensionElements() TExtensionElements {
	if t.ExtensionElements == nil {
		return TExtensionElements{}
	}
	return *t.ExtensionElements
}

type BaseElement interface {
	GetId() string
	GetDescription() string
	GetDocumentation() []TDocumentation
	GetExtensionElements() TExtensionElements
}

// TExpression is a condition or reference expression given as element text.
type TExpression struct {
	Language string `xml:"language,attr"`
	Body     string `xml:"body"`
	Text     string `xml:",chardata"`
}

// GetText returns the expression text, preferring a nested body element.
func (e TExpression) GetText() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return strings.TrimSpace(e.Text)
}

type TRole struct {
	Id   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type TCaseRoles struct {
	Id    string  `xml:"id,attr"`
	Roles []TRole `xml:"role"`
}

type TCase struct {
	TBaseElement
	Name          string     `xml:"name,attr"`
	CaseRoles     TCaseRoles `xml:"caseRoles"`
	CasePlanModel *TStage    `xml:"casePlanModel"`

	definitions map[string]PlanItemDefinition
	roles       map[string]*TRole
}

type TDefinitions struct {
	TBaseElement
	Name               string  `xml:"name,attr"`
	TargetNamespace    string  `xml:"targetNamespace,attr"`
	ExpressionLanguage string  `xml:"expressionLanguage,attr"`
	Exporter           string  `xml:"exporter,attr"`
	ExporterVersion    string  `xml:"exporterVersion,attr"`
	Cases              []TCase `xml:"case"`
}

func (d *TDefinitions) GetCaseById(id string) *TCase {
	for i := range d.Cases {
		if d.Cases[i].Id == id {
			return &d.Cases[i]
		}
	}
	return nil
}
