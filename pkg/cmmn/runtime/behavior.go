package runtime

// Behavior distinguishes the kinds of compiled activities.
type Behavior interface {
	BehaviorType() string
	behavior()
}

type PlainTaskBehavior struct{}

type HumanTaskBehavior struct {
	Task *TaskDescriptor `json:"task"`
}

type StageBehavior struct {
	AutoComplete bool `json:"autoComplete"`
}

type CaseTaskBehavior struct {
	CallableElement *CallableElement `json:"callableElement"`
}

type ProcessTaskBehavior struct {
	CallableElement *CallableElement `json:"callableElement"`
}

type DecisionTaskBehavior struct {
	CallableElement *CallableElement `json:"callableElement"`
	ResultMapping   ResultMapping    `json:"resultMapping"`
	ResultVariable  string           `json:"resultVariable,omitempty"`
}

type TimerListenerBehavior struct {
	Timer *TimerJobDescriptor `json:"timer"`
}

type MilestoneBehavior struct{}

func (PlainTaskBehavior) BehaviorType() string     { return "task" }
func (HumanTaskBehavior) BehaviorType() string     { return "humanTask" }
func (StageBehavior) BehaviorType() string         { return "stage" }
func (CaseTaskBehavior) BehaviorType() string      { return "caseTask" }
func (ProcessTaskBehavior) BehaviorType() string   { return "processTask" }
func (DecisionTaskBehavior) BehaviorType() string  { return "decisionTask" }
func (TimerListenerBehavior) BehaviorType() string { return "timerEventListener" }
func (MilestoneBehavior) BehaviorType() string     { return "milestone" }

func (PlainTaskBehavior) behavior()     {}
func (HumanTaskBehavior) behavior()     {}
func (StageBehavior) behavior()         {}
func (CaseTaskBehavior) behavior()      {}
func (ProcessTaskBehavior) behavior()   {}
func (DecisionTaskBehavior) behavior()  {}
func (TimerListenerBehavior) behavior() {}
func (MilestoneBehavior) behavior()     {}

// TaskDescriptor carries the human task metadata handed to the task service.
type TaskDescriptor struct {
	Key             string          `json:"key"`
	Name            ValueProvider   `json:"name,omitempty"`
	Description     ValueProvider   `json:"description,omitempty"`
	DueDate         ValueProvider   `json:"dueDate,omitempty"`
	FollowUpDate    ValueProvider   `json:"followUpDate,omitempty"`
	Priority        ValueProvider   `json:"priority,omitempty"`
	Assignee        ValueProvider   `json:"assignee,omitempty"`
	CandidateUsers  []ValueProvider `json:"candidateUsers,omitempty"`
	CandidateGroups []ValueProvider `json:"candidateGroups,omitempty"`
	FormKey         ValueProvider   `json:"formKey,omitempty"`
	TaskListeners   ListenerTable   `json:"taskListeners"`
}
