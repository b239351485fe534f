package cmmn11

type TCriterion struct {
	Id        string `xml:"id,attr"`
	Name      string `xml:"name,attr"`
	SentryRef string `xml:"sentryRef,attr"`
}

type TRule struct {
	TBaseElement
	Name      string       `xml:"name,attr"`
	Condition *TExpression `xml:"condition"`
}

// GetConditionText returns the rule condition, empty when the rule applies unconditionally.
func (r *TRule) GetConditionText() string {
	if r == nil || r.Condition == nil {
		return ""
	}
	return r.Condition.GetText()
}

type TRepetitionRule struct {
	TRule
}

// GetRepeatOnStandardEvent returns the camunda override of the events that trigger a repetition.
func (r *TRepetitionRule) GetRepeatOnStandardEvent() string {
	if r == nil {
		return ""
	}
	return r.GetExtensionElements().RepeatOnStandardEvent
}

type TPlanItemControl struct {
	TBaseElement
	RequiredRule         *TRule           `xml:"requiredRule"`
	ManualActivationRule *TRule           `xml:"manualActivationRule"`
	RepetitionRule       *TRepetitionRule `xml:"repetitionRule"`
}

// Item is a plan item or a discretionary item referencing a plan item definition.
type Item interface {
	GetId() string
	GetName() string
	GetDescription() string
	GetDocumentation() []TDocumentation
	GetDefinitionRef() string
	GetDefinition() PlanItemDefinition
	GetItemControl() *TPlanItemControl
	GetEntryCriteria() []TCriterion
	GetExitCriteria() []TCriterion
	IsDiscretionary() bool
}

type TPlanItem struct {
	TBaseElement
	Name          string            `xml:"name,attr"`
	DefinitionRef string            `xml:"definitionRef,attr"`
	ItemControl   *TPlanItemControl `xml:"itemControl"`
	EntryCriteria []TCriterion      `xml:"entryCriterion"`
	ExitCriteria  []TCriterion      `xml:"exitCriterion"`

	definition PlanItemDefinition
}

func (p *TPlanItem) GetName() string                   { return p.Name }
func (p *TPlanItem) GetDefinitionRef() string          { return p.DefinitionRef }
func (p *TPlanItem) GetDefinition() PlanItemDefinition { return p.definition }
func (p *TPlanItem) GetItemControl() *TPlanItemControl { return p.ItemControl }
func (p *TPlanItem) GetEntryCriteria() []TCriterion    { return p.EntryCriteria }
func (p *TPlanItem) GetExitCriteria() []TCriterion     { return p.ExitCriteria }
func (p *TPlanItem) IsDiscretionary() bool             { return false }

type TDiscretionaryItem struct {
	TBaseElement
	Name          string            `xml:"name,attr"`
	DefinitionRef string            `xml:"definitionRef,attr"`
	ItemControl   *TPlanItemControl `xml:"itemControl"`
	EntryCriteria []TCriterion      `xml:"entryCriterion"`
	ExitCriteria  []TCriterion      `xml:"exitCriterion"`

	definition PlanItemDefinition
}

func (d *TDiscretionaryItem) GetName() string                   { return d.Name }
func (d *TDiscretionaryItem) GetDefinitionRef() string          { return d.DefinitionRef }
func (d *TDiscretionaryItem) GetDefinition() PlanItemDefinition { return d.definition }
func (d *TDiscretionaryItem) GetItemControl() *TPlanItemControl { return d.ItemControl }
func (d *TDiscretionaryItem) GetEntryCriteria() []TCriterion    { return d.EntryCriteria }
func (d *TDiscretionaryItem) GetExitCriteria() []TCriterion     { return d.ExitCriteria }
func (d *TDiscretionaryItem) IsDiscretionary() bool             { return true }

type TPlanningTable struct {
	TBaseElement
	DiscretionaryItems []TDiscretionaryItem `xml:"discretionaryItem"`
	PlanningTables     []TPlanningTable     `xml:"planningTable"`
}

type TPlanItemOnPart struct {
	TBaseElement
	SourceRef     string `xml:"sourceRef,attr"`
	SentryRef     string `xml:"sentryRef,attr"`
	StandardEvent string `xml:"standardEvent"`
}

type TIfPart struct {
	TBaseElement
	Conditions []TExpression `xml:"condition"`
}

type TSentry struct {
	TBaseElement
	Name    string            `xml:"name,attr"`
	OnParts []TPlanItemOnPart `xml:"planItemOnPart"`
	IfPart  *TIfPart          `xml:"ifPart"`
}
