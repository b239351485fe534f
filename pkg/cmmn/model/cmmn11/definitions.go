package cmmn11

import (
	"strings"

	"github.com/pbinitiative/zencmmn/pkg/ptr"
)

type PlanItemDefinition interface {
	BaseElement
	GetName() string
	GetType() ElementType
	GetDefaultControl() *TPlanItemControl
}

type TPlanItemDefinition struct {
	TBaseElement
	Name           string            `xml:"name,attr"`
	DefaultControl *TPlanItemControl `xml:"defaultControl"`
}

func (d TPlanItemDefinition) GetName() string                      { return d.Name }
func (d TPlanItemDefinition) GetDefaultControl() *TPlanItemControl { return d.DefaultControl }

type TTask struct {
	TPlanItemDefinition
	IsBlockingAttr *bool `xml:"isBlocking,attr"`
}

// IsBlocking defaults to true when the attribute is not present.
func (t TTask) IsBlocking() bool {
	return ptr.Deref(t.IsBlockingAttr, true)
}

func (t TTask) GetType() ElementType { return ElementTypeTask }

type THumanTask struct {
	TTask
	PerformerRef string `xml:"performerRef,attr"`

	// camunda extension attributes
	Assignee        string `xml:"assignee,attr"`
	CandidateUsers  string `xml:"candidateUsers,attr"`
	CandidateGroups string `xml:"candidateGroups,attr"`
	DueDate         string `xml:"dueDate,attr"`
	FollowUpDate    string `xml:"followUpDate,attr"`
	Priority        string `xml:"priority,attr"`
	FormKey         string `xml:"formKey,attr"`

	performer *TRole
}

func (t THumanTask) GetType() ElementType { return ElementTypeHumanTask }

// GetPerformer returns the case role referenced by performerRef, nil if none.
func (t THumanTask) GetPerformer() *TRole {
	return t.performer
}

func (t THumanTask) GetCandidateUsers() []string {
	return SplitCommaSeparated(t.CandidateUsers)
}

func (t THumanTask) GetCandidateGroups() []string {
	return SplitCommaSeparated(t.CandidateGroups)
}

// CallableTask is implemented by tasks invoking another deployed definition.
type CallableTask interface {
	PlanItemDefinition
	GetDefinitionKey() string
	GetBinding() string
	GetVersion() string
	GetTenantId() string
}

type TCaseTask struct {
	TTask
	CaseRef           string       `xml:"caseRef,attr"`
	CaseRefExpression *TExpression `xml:"caseRefExpression"`
	CaseBinding       string       `xml:"caseBinding,attr"`
	CaseVersion       string       `xml:"caseVersion,attr"`
	CaseTenantId      string       `xml:"caseTenantId,attr"`
}

func (t TCaseTask) GetType() ElementType { return ElementTypeCaseTask }

// GetDefinitionKey prefers the caseRefExpression element over the caseRef attribute.
func (t TCaseTask) GetDefinitionKey() string {
	return refOrExpression(t.CaseRef, t.CaseRefExpression)
}
func (t TCaseTask) GetBinding() string  { return t.CaseBinding }
func (t TCaseTask) GetVersion() string  { return t.CaseVersion }
func (t TCaseTask) GetTenantId() string { return t.CaseTenantId }

type TProcessTask struct {
	TTask
	ProcessRef           string       `xml:"processRef,attr"`
	ProcessRefExpression *TExpression `xml:"processRefExpression"`
	ProcessBinding       string       `xml:"processBinding,attr"`
	ProcessVersion       string       `xml:"processVersion,attr"`
	ProcessTenantId      string       `xml:"processTenantId,attr"`
}

func (t TProcessTask) GetType() ElementType { return ElementTypeProcessTask }

func (t TProcessTask) GetDefinitionKey() string {
	return refOrExpression(t.ProcessRef, t.ProcessRefExpression)
}
func (t TProcessTask) GetBinding() string  { return t.ProcessBinding }
func (t TProcessTask) GetVersion() string  { return t.ProcessVersion }
func (t TProcessTask) GetTenantId() string { return t.ProcessTenantId }

const MapDecisionResultSingleResult = "singleResult"

type TDecisionTask struct {
	TTask
	DecisionRef           string       `xml:"decisionRef,attr"`
	DecisionRefExpression *TExpression `xml:"decisionRefExpression"`
	DecisionBinding       string       `xml:"decisionBinding,attr"`
	DecisionVersion       string       `xml:"decisionVersion,attr"`
	DecisionTenantId      string       `xml:"decisionTenantId,attr"`
	ResultVariable        string       `xml:"resultVariable,attr"`
	MapDecisionResult     string       `xml:"mapDecisionResult,attr"`
}

func (t TDecisionTask) GetType() ElementType { return ElementTypeDecisionTask }

func (t TDecisionTask) GetDefinitionKey() string {
	return refOrExpression(t.DecisionRef, t.DecisionRefExpression)
}
func (t TDecisionTask) GetBinding() string  { return t.DecisionBinding }
func (t TDecisionTask) GetVersion() string  { return t.DecisionVersion }
func (t TDecisionTask) GetTenantId() string { return t.DecisionTenantId }

type TTimerEventListener struct {
	TPlanItemDefinition
	TimerExpression *TExpression `xml:"timerExpression"`
}

func (t TTimerEventListener) GetType() ElementType { return ElementTypeTimerEventListener }

func (t TTimerEventListener) GetTimerExpressionText() string {
	if t.TimerExpression == nil {
		return ""
	}
	return t.TimerExpression.GetText()
}

type TMilestone struct {
	TPlanItemDefinition
}

func (m TMilestone) GetType() ElementType { return ElementTypeMilestone }

// TStage is used for stages as well as for the case plan model.
type TStage struct {
	TPlanItemDefinition
	AutoComplete  bool            `xml:"autoComplete,attr"`
	PlanItems     []TPlanItem     `xml:"planItem"`
	Sentries      []TSentry       `xml:"sentry"`
	PlanningTable *TPlanningTable `xml:"planningTable"`
	// exit criteria are only valid on the case plan model
	ExitCriteria []TCriterion `xml:"exitCriterion"`

	Tasks               []TTask               `xml:"task"`
	HumanTasks          []THumanTask          `xml:"humanTask"`
	CaseTasks           []TCaseTask           `xml:"caseTask"`
	ProcessTasks        []TProcessTask        `xml:"processTask"`
	DecisionTasks       []TDecisionTask       `xml:"decisionTask"`
	Stages              []TStage              `xml:"stage"`
	TimerEventListeners []TTimerEventListener `xml:"timerEventListener"`
	Milestones          []TMilestone          `xml:"milestone"`
}

func (s TStage) GetType() ElementType { return ElementTypeStage }

func refOrExpression(ref string, expression *TExpression) string {
	if expression != nil {
		if text := expression.GetText(); text != "" {
			return text
		}
	}
	return ref
}

// SplitCommaSeparated splits a comma separated list, keeping commas inside
// ${...} and #{...} expressions. Items are trimmed and empty items dropped.
func SplitCommaSeparated(text string) []string {
	var result []string
	depth := 0
	start := 0
	flush := func(end int) {
		item := strings.TrimSpace(text[start:end])
		if item != "" {
			result = append(result, item)
		}
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if depth > 0 || (i > 0 && (text[i-1] == '$' || text[i-1] == '#')) {
				depth++
			}
		case '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(text))
	return result
}
