package runtime

import "github.com/dop251/goja"

// Case execution events of tasks and stages.
const (
	EventCreate        = "create"
	EventEnable        = "enable"
	EventDisable       = "disable"
	EventReEnable      = "re_enable"
	EventStart         = "start"
	EventManualStart   = "manual_start"
	EventComplete      = "complete"
	EventTerminate     = "terminate"
	EventExit          = "exit"
	EventSuspend       = "suspend"
	EventParentSuspend = "parent_suspend"
	EventResume        = "resume"
	EventParentResume  = "parent_resume"
	// case plan model only
	EventClose      = "close"
	EventReActivate = "re_activate"
	// milestones and event listeners
	EventOccur           = "occur"
	EventParentTerminate = "parent_terminate"
)

// Variable listener events.
const (
	VariableEventCreate = "create"
	VariableEventUpdate = "update"
	VariableEventDelete = "delete"
)

// Task listener events, kept apart from case execution events.
const (
	TaskEventCreate     = "create"
	TaskEventAssignment = "assignment"
	TaskEventComplete   = "complete"
	TaskEventDelete     = "delete"
)

var (
	TaskOrStageEvents = []string{
		EventCreate, EventEnable, EventDisable, EventReEnable, EventStart, EventManualStart,
		EventComplete, EventTerminate, EventExit, EventSuspend, EventParentSuspend, EventResume, EventParentResume,
	}
	CasePlanModelEvents = []string{
		EventCreate, EventClose, EventComplete, EventReActivate, EventSuspend, EventTerminate,
	}
	EventListenerOrMilestoneEvents = []string{
		EventCreate, EventSuspend, EventResume, EventTerminate, EventParentTerminate, EventOccur,
	}
	VariableEvents = []string{VariableEventCreate, VariableEventUpdate, VariableEventDelete}
	TaskEvents     = []string{TaskEventCreate, TaskEventAssignment, TaskEventComplete, TaskEventDelete}
)

// DelegateSpec describes the callback a listener invokes. The compiler never
// instantiates or evaluates it.
type DelegateSpec interface {
	DelegateKind() string
	delegateSpec()
}

type ClassDelegate struct {
	ClassName string             `json:"className"`
	Fields    []FieldDeclaration `json:"fields,omitempty"`
}

type DelegateExpression struct {
	Expression string             `json:"delegateExpression"`
	Fields     []FieldDeclaration `json:"fields,omitempty"`
}

type ExpressionDelegate struct {
	Expression string `json:"expression"`
}

type ScriptDelegate struct {
	Language string `json:"language"`
	Source   string `json:"source,omitempty"`
	Resource string `json:"resource,omitempty"`
	// Program is set when javascript sources are precompiled
	Program *goja.Program `json:"-"`
}

func (ClassDelegate) DelegateKind() string      { return "class" }
func (DelegateExpression) DelegateKind() string { return "delegateExpression" }
func (ExpressionDelegate) DelegateKind() string { return "expression" }
func (ScriptDelegate) DelegateKind() string     { return "script" }

func (ClassDelegate) delegateSpec()      {}
func (DelegateExpression) delegateSpec() {}
func (ExpressionDelegate) delegateSpec() {}
func (ScriptDelegate) delegateSpec()     {}

type ListenerDeclaration struct {
	Event    string       `json:"event"`
	Delegate DelegateSpec `json:"delegate"`
}

// ListenerTable maps an event name to its listeners in declaration order.
type ListenerTable map[string][]ListenerDeclaration

func (t ListenerTable) Add(listener ListenerDeclaration) {
	t[listener.Event] = append(t[listener.Event], listener)
}

func (t ListenerTable) Get(event string) []ListenerDeclaration {
	return t[event]
}

// Count returns the number of declarations over all events.
func (t ListenerTable) Count() int {
	count := 0
	for _, listeners := range t {
		count += len(listeners)
	}
	return count
}
