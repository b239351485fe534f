package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_activity_tree(t *testing.T) {
	// given
	root := NewActivity("Plan")
	stage := NewActivity("Stage")
	task := NewActivity("Task")

	// when
	root.AddActivity(stage)
	stage.AddActivity(task)

	// then
	assert.Same(t, root, stage.Parent)
	assert.Same(t, stage, task.Parent)
	assert.Same(t, task, root.FindActivity("Task"))
	assert.Same(t, root, root.FindActivity("Plan"))
	assert.Nil(t, stage.FindActivity("Plan"))
}

func Test_activity_properties(t *testing.T) {
	// given
	activity := NewActivity("Task")

	// when
	activity.SetProperty(PropertyActivityType, "humanTask")
	activity.SetProperty(PropertyDescription, "Review the claim")
	activity.SetProperty(PropertyDiscretionary, true)
	activity.SetProperty(PropertyRequiredRule, &CaseControlRule{Condition: "${required}"})
	activity.SetProperty(PropertyRepeatOnStandardEvents, []string{EventComplete})

	// then
	assert.Equal(t, "humanTask", activity.GetActivityType())
	assert.Equal(t, "Review the claim", activity.GetDescription())
	assert.True(t, activity.IsDiscretionary())
	assert.Equal(t, "${required}", activity.GetRequiredRule().Condition)
	assert.Nil(t, activity.GetManualActivationRule())
	assert.Nil(t, activity.GetRepetitionRule())
	assert.Equal(t, []string{EventComplete}, activity.GetRepeatOnStandardEvents())
}

func Test_activity_without_properties(t *testing.T) {
	activity := NewActivity("Task")

	assert.Empty(t, activity.GetActivityType())
	assert.Empty(t, activity.GetDescription())
	assert.False(t, activity.IsDiscretionary())
	assert.Nil(t, activity.GetProperty(PropertyTimerJobDeclaration))
}

func Test_listener_table(t *testing.T) {
	// given
	table := ListenerTable{}

	// when
	table.Add(ListenerDeclaration{Event: EventStart, Delegate: ClassDelegate{ClassName: "First"}})
	table.Add(ListenerDeclaration{Event: EventComplete, Delegate: ExpressionDelegate{Expression: "${done}"}})
	table.Add(ListenerDeclaration{Event: EventStart, Delegate: DelegateExpression{Expression: "${second}"}})

	// then
	assert.Equal(t, 3, table.Count())
	start := table.Get(EventStart)
	require.Len(t, start, 2)
	assert.Equal(t, "class", start[0].Delegate.DelegateKind())
	assert.Equal(t, "delegateExpression", start[1].Delegate.DelegateKind())
	assert.Empty(t, table.Get(EventExit))
}

func Test_listener_event_sets(t *testing.T) {
	assert.Len(t, TaskOrStageEvents, 13)
	assert.Len(t, CasePlanModelEvents, 6)
	assert.Len(t, EventListenerOrMilestoneEvents, 6)
	assert.Len(t, VariableEvents, 3)
	assert.Len(t, TaskEvents, 4)
}

func Test_case_definition_lookup(t *testing.T) {
	// given
	definition := NewCaseDefinition("Case_1", "Case")
	activity := NewActivity("PI_1")
	sentry := &SentryDeclaration{Id: "Sentry_1"}

	// when
	definition.Activities[activity.Id] = activity
	definition.Sentries[sentry.Id] = sentry

	// then
	assert.Same(t, activity, definition.GetActivity("PI_1"))
	assert.Same(t, sentry, definition.GetSentry("Sentry_1"))
	assert.Nil(t, definition.GetActivity("PI_2"))
	assert.Nil(t, definition.GetSentry("Sentry_2"))
}
