package runtime

// Keys of the activity property bag.
const (
	PropertyActivityType           = "activityType"
	PropertyDescription            = "description"
	PropertyIsBlocking             = "isBlocking"
	PropertyDiscretionary          = "discretionary"
	PropertyAutoComplete           = "autoComplete"
	PropertyRequiredRule           = "requiredRule"
	PropertyManualActivationRule   = "manualActivationRule"
	PropertyRepetitionRule         = "repetitionRule"
	PropertyRepeatOnStandardEvents = "repeatOnStandardEvents"
	PropertyTimerJobDeclaration    = "timerJobDeclaration"
)

// DefaultRepeatOnStandardEvents are the events re-triggering a repeatable item
// when no override is declared.
var DefaultRepeatOnStandardEvents = []string{EventComplete, EventTerminate}

// CaseControlRule is a resolved required, manual activation or repetition rule.
// An empty Condition means the rule always applies.
type CaseControlRule struct {
	Condition string `json:"condition,omitempty"`
}

// Activity is one compiled node of the case definition tree.
type Activity struct {
	Id         string         `json:"id"`
	Name       string         `json:"name,omitempty"`
	Parent     *Activity      `json:"-"`
	Activities []*Activity    `json:"activities,omitempty"`
	Properties map[string]any `json:"properties"`
	Behavior   Behavior       `json:"behavior"`

	EntryCriteria []*SentryDeclaration `json:"-"`
	ExitCriteria  []*SentryDeclaration `json:"-"`
	// Sentries declared by this stage
	Sentries []*SentryDeclaration `json:"-"`

	Listeners         ListenerTable `json:"listeners"`
	VariableListeners ListenerTable `json:"variableListeners"`
}

func NewActivity(id string) *Activity {
	return &Activity{
		Id:                id,
		Properties:        map[string]any{},
		Listeners:         ListenerTable{},
		VariableListeners: ListenerTable{},
	}
}

func (a *Activity) SetProperty(key string, value any) {
	a.Properties[key] = value
}

func (a *Activity) GetProperty(key string) any {
	return a.Properties[key]
}

func (a *Activity) GetActivityType() string {
	t, _ := a.Properties[PropertyActivityType].(string)
	return t
}

func (a *Activity) GetDescription() string {
	d, _ := a.Properties[PropertyDescription].(string)
	return d
}

func (a *Activity) IsDiscretionary() bool {
	d, _ := a.Properties[PropertyDiscretionary].(bool)
	return d
}

func (a *Activity) GetRequiredRule() *CaseControlRule {
	return a.rule(PropertyRequiredRule)
}

func (a *Activity) GetManualActivationRule() *CaseControlRule {
	return a.rule(PropertyManualActivationRule)
}

func (a *Activity) GetRepetitionRule() *CaseControlRule {
	return a.rule(PropertyRepetitionRule)
}

func (a *Activity) GetRepeatOnStandardEvents() []string {
	events, _ := a.Properties[PropertyRepeatOnStandardEvents].([]string)
	return events
}

func (a *Activity) rule(key string) *CaseControlRule {
	r, _ := a.Properties[key].(*CaseControlRule)
	return r
}

// AddActivity attaches the child to this activity.
func (a *Activity) AddActivity(child *Activity) {
	child.Parent = a
	a.Activities = append(a.Activities, child)
}

// FindActivity searches the subtree rooted at this activity.
func (a *Activity) FindActivity(id string) *Activity {
	if a.Id == id {
		return a
	}
	for _, child := range a.Activities {
		if found := child.FindActivity(id); found != nil {
			return found
		}
	}
	return nil
}
