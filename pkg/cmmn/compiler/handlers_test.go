package compiler

import (
	"testing"

	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_plan_item_name_wins_over_definition_name(t *testing.T) {
	// given
	body := `
      <planItem id="PI_Named" name="Plan item name" definitionRef="Task_1"/>
      <planItem id="PI_Unnamed" definitionRef="Task_1"/>
      <task id="Task_1" name="Definition name"/>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	assert.Equal(t, "Plan item name", definition.GetActivity("PI_Named").Name)
	assert.Equal(t, "Definition name", definition.GetActivity("PI_Unnamed").Name)
}

func Test_description_resolution(t *testing.T) {
	// given
	body := `
      <planItem id="PI_ItemDescription" description="item" definitionRef="Task_Described"/>
      <planItem id="PI_DefinitionDescription" definitionRef="Task_Described"/>
      <planItem id="PI_Documented" definitionRef="Task_Documented">
        <documentation>  first  </documentation>
        <documentation></documentation>
        <documentation>second</documentation>
      </planItem>
      <planItem id="PI_DefinitionDocumented" definitionRef="Task_Documented"/>
      <planItem id="PI_Undocumented" definitionRef="Task_Plain"/>
      <task id="Task_Described" description="definition"/>
      <task id="Task_Documented">
        <documentation>definition doc</documentation>
        <documentation> </documentation>
      </task>
      <task id="Task_Plain"/>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	assert.Equal(t, "item", definition.GetActivity("PI_ItemDescription").GetDescription())
	assert.Equal(t, "definition", definition.GetActivity("PI_DefinitionDescription").GetDescription())
	assert.Equal(t, "first\n\nsecond", definition.GetActivity("PI_Documented").GetDescription())
	assert.Equal(t, "definition doc", definition.GetActivity("PI_DefinitionDocumented").GetDescription())
	assert.NotContains(t, definition.GetActivity("PI_Undocumented").Properties, runtime.PropertyDescription)
}

func Test_activity_type_and_behavior_per_element(t *testing.T) {
	// given
	body := `
      <planItem id="PI_Task" definitionRef="Task_1"/>
      <planItem id="PI_HumanTask" definitionRef="HumanTask_1"/>
      <planItem id="PI_CaseTask" definitionRef="CaseTask_1"/>
      <planItem id="PI_ProcessTask" definitionRef="ProcessTask_1"/>
      <planItem id="PI_DecisionTask" definitionRef="DecisionTask_1"/>
      <planItem id="PI_Stage" definitionRef="Stage_1"/>
      <planItem id="PI_Timer" definitionRef="Timer_1"/>
      <planItem id="PI_Milestone" definitionRef="Milestone_1"/>
      <task id="Task_1"/>
      <humanTask id="HumanTask_1"/>
      <caseTask id="CaseTask_1" caseRef="aCase"/>
      <processTask id="ProcessTask_1" processRef="aProcess"/>
      <decisionTask id="DecisionTask_1" decisionRef="aDecision"/>
      <stage id="Stage_1"/>
      <timerEventListener id="Timer_1"><timerExpression>PT1H</timerExpression></timerEventListener>
      <milestone id="Milestone_1"/>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	expected := map[string]string{
		"PI_Task":         "task",
		"PI_HumanTask":    "humanTask",
		"PI_CaseTask":     "caseTask",
		"PI_ProcessTask":  "processTask",
		"PI_DecisionTask": "decisionTask",
		"PI_Stage":        "stage",
		"PI_Timer":        "timerEventListener",
		"PI_Milestone":    "milestone",
	}
	for id, activityType := range expected {
		activity := definition.GetActivity(id)
		require.NotNil(t, activity, id)
		assert.Equal(t, activityType, activity.GetActivityType(), id)
		assert.Equal(t, activityType, activity.Behavior.BehaviorType(), id)
	}
	assert.Equal(t, true, definition.GetActivity("PI_Task").GetProperty(runtime.PropertyIsBlocking))
	assert.Equal(t, false, definition.GetActivity("PI_Stage").GetProperty(runtime.PropertyAutoComplete))
}

func Test_non_blocking_human_task_produces_no_activity(t *testing.T) {
	// given
	body := `
      <planItem id="PI_HumanTask" definitionRef="HumanTask_1"/>
      <planItem id="PI_Task" definitionRef="Task_1"/>
      <humanTask id="HumanTask_1" isBlocking="false"/>
      <task id="Task_1" isBlocking="false"/>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	assert.Nil(t, definition.GetActivity("PI_HumanTask"))
	require.Len(t, definition.Root.Activities, 1)
	task := definition.Root.Activities[0]
	assert.Equal(t, "PI_Task", task.Id)
	assert.Equal(t, false, task.GetProperty(runtime.PropertyIsBlocking))
}

func Test_human_task_descriptor(t *testing.T) {
	// given
	body := `
      <planItem id="PI_HumanTask" name="${subject}" description="Check it" definitionRef="HumanTask_1"/>
      <humanTask id="HumanTask_1" camunda:assignee="${owner}" camunda:candidateUsers="mary,john,mary"
                 camunda:candidateGroups="management, ${department}" camunda:dueDate="${dueDate}"
                 camunda:followUpDate="2026-01-01T00:00:00Z" camunda:priority="10" camunda:formKey="forms/review"/>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	behavior, ok := definition.GetActivity("PI_HumanTask").Behavior.(runtime.HumanTaskBehavior)
	require.True(t, ok)
	task := behavior.Task
	assert.Equal(t, "HumanTask_1", task.Key)
	assert.Equal(t, runtime.ExpressionValueProvider{Expression: "${subject}"}, task.Name)
	assert.Equal(t, runtime.ConstantValueProvider{Value: "Check it"}, task.Description)
	assert.Equal(t, runtime.ExpressionValueProvider{Expression: "${owner}"}, task.Assignee)
	assert.Equal(t, []runtime.ValueProvider{
		runtime.ConstantValueProvider{Value: "mary"},
		runtime.ConstantValueProvider{Value: "john"},
	}, task.CandidateUsers)
	assert.Equal(t, []runtime.ValueProvider{
		runtime.ConstantValueProvider{Value: "management"},
		runtime.ExpressionValueProvider{Expression: "${department}"},
	}, task.CandidateGroups)
	assert.Equal(t, runtime.ExpressionValueProvider{Expression: "${dueDate}"}, task.DueDate)
	assert.Equal(t, runtime.ConstantValueProvider{Value: "2026-01-01T00:00:00Z"}, task.FollowUpDate)
	assert.Equal(t, runtime.ConstantValueProvider{Value: "10"}, task.Priority)
	assert.Equal(t, runtime.ConstantValueProvider{Value: "forms/review"}, task.FormKey)
	assert.Empty(t, task.TaskListeners)
}

func Test_human_task_performer_becomes_assignee(t *testing.T) {
	// given
	body := `
      <planItem id="PI_Performer" definitionRef="HumanTask_Performer"/>
      <planItem id="PI_Assignee" definitionRef="HumanTask_Assignee"/>
      <humanTask id="HumanTask_Performer" performerRef="Role_Manager"/>
      <humanTask id="HumanTask_Assignee" performerRef="Role_Manager" camunda:assignee="gonzo"/>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	performer := definition.GetActivity("PI_Performer").Behavior.(runtime.HumanTaskBehavior)
	assert.Equal(t, runtime.ConstantValueProvider{Value: "manager"}, performer.Task.Assignee)
	assignee := definition.GetActivity("PI_Assignee").Behavior.(runtime.HumanTaskBehavior)
	assert.Equal(t, runtime.ConstantValueProvider{Value: "gonzo"}, assignee.Task.Assignee)
}

func Test_human_task_with_unknown_performer_fails(t *testing.T) {
	// given
	body := `
      <planItem id="PI_HumanTask" definitionRef="HumanTask_1"/>
      <humanTask id="HumanTask_1" performerRef="Role_Unknown"/>`

	// when
	_, err := compilePlanModel(t, body)

	// then
	assert.ErrorIs(t, err, ErrMissingDefinition)
}

func Test_human_task_listeners_are_kept_apart(t *testing.T) {
	// given
	body := `
      <planItem id="PI_HumanTask" definitionRef="HumanTask_1"/>
      <humanTask id="HumanTask_1">
        <extensionElements>
          <camunda:taskListener event="create" class="org.example.OnCreate"/>
          <camunda:taskListener expression="${audit.log(task)}"/>
          <camunda:caseExecutionListener class="org.example.Everything"/>
        </extensionElements>
      </humanTask>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	activity := definition.GetActivity("PI_HumanTask")
	assert.Equal(t, 13, activity.Listeners.Count())
	taskListeners := activity.Behavior.(runtime.HumanTaskBehavior).Task.TaskListeners
	assert.Equal(t, 5, taskListeners.Count())
	require.Len(t, taskListeners.Get(runtime.TaskEventCreate), 2)
	assert.Equal(t, runtime.ClassDelegate{ClassName: "org.example.OnCreate"}, taskListeners.Get(runtime.TaskEventCreate)[0].Delegate)
	assert.Equal(t, runtime.ExpressionDelegate{Expression: "${audit.log(task)}"}, taskListeners.Get(runtime.TaskEventCreate)[1].Delegate)
	assert.Len(t, taskListeners.Get(runtime.TaskEventAssignment), 1)
	assert.Empty(t, activity.Listeners.Get(runtime.TaskEventAssignment))
}

func Test_stage_children_are_compiled_recursively(t *testing.T) {
	// given
	body := `
      <planItem id="PI_Outer" definitionRef="Stage_Outer"/>
      <stage id="Stage_Outer" autoComplete="true">
        <planItem id="PI_Inner" definitionRef="Stage_Inner"/>
        <stage id="Stage_Inner">
          <planItem id="PI_Leaf" definitionRef="Task_Leaf"/>
          <task id="Task_Leaf"/>
        </stage>
      </stage>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	outer := definition.GetActivity("PI_Outer")
	inner := definition.GetActivity("PI_Inner")
	leaf := definition.GetActivity("PI_Leaf")
	require.NotNil(t, leaf)
	assert.Same(t, definition.Root, outer.Parent)
	assert.Same(t, outer, inner.Parent)
	assert.Same(t, inner, leaf.Parent)
	assert.Equal(t, runtime.StageBehavior{AutoComplete: true}, outer.Behavior)
	assert.Equal(t, true, outer.GetProperty(runtime.PropertyAutoComplete))
	assert.Same(t, leaf, definition.Root.FindActivity("PI_Leaf"))
}

func Test_discretionary_items_of_nested_planning_tables(t *testing.T) {
	// given
	body := `
      <planItem id="PI_Stage" definitionRef="Stage_1"/>
      <planningTable id="PlanningTable_1">
        <discretionaryItem id="DI_Top" name="Top" definitionRef="Task_1"/>
        <planningTable id="PlanningTable_2">
          <discretionaryItem id="DI_Nested" definitionRef="Task_1"/>
        </planningTable>
      </planningTable>
      <stage id="Stage_1">
        <planningTable id="PlanningTable_3">
          <discretionaryItem id="DI_InStage" definitionRef="HumanTask_1"/>
        </planningTable>
      </stage>
      <task id="Task_1" name="Optional"/>
      <humanTask id="HumanTask_1"/>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	for _, id := range []string{"DI_Top", "DI_Nested", "DI_InStage"} {
		activity := definition.GetActivity(id)
		require.NotNil(t, activity, id)
		assert.True(t, activity.IsDiscretionary(), id)
	}
	assert.Equal(t, "Top", definition.GetActivity("DI_Top").Name)
	assert.Equal(t, "Optional", definition.GetActivity("DI_Nested").Name)
	assert.Same(t, definition.GetActivity("PI_Stage"), definition.GetActivity("DI_InStage").Parent)
	assert.False(t, definition.GetActivity("PI_Stage").IsDiscretionary())
}

func Test_timer_event_listener_declaration(t *testing.T) {
	// given
	body := `
      <planItem id="PI_Timer" definitionRef="Timer_1"/>
      <timerEventListener id="Timer_1"><timerExpression>R/PT5M</timerExpression></timerEventListener>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	activity := definition.GetActivity("PI_Timer")
	timer := activity.Behavior.(runtime.TimerListenerBehavior).Timer
	assert.Equal(t, runtime.TimerTypeCycle, timer.Type)
	assert.Equal(t, -1, timer.Repetitions)
	assert.Same(t, timer, activity.GetProperty(runtime.PropertyTimerJobDeclaration))
}

func Test_milestone_uses_milestone_events(t *testing.T) {
	// given
	body := `
      <planItem id="PI_Milestone" definitionRef="Milestone_1"/>
      <milestone id="Milestone_1">
        <extensionElements>
          <camunda:caseExecutionListener class="org.example.Reached"/>
        </extensionElements>
      </milestone>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	listeners := definition.GetActivity("PI_Milestone").Listeners
	assert.Equal(t, 6, listeners.Count())
	assert.Len(t, listeners.Get(runtime.EventOccur), 1)
	assert.Empty(t, listeners.Get(runtime.EventStart))
}

func Test_missing_definition_fails(t *testing.T) {
	// given
	body := `<planItem id="PI_Dangling" definitionRef="Task_Unknown"/>`

	// when
	_, err := compilePlanModel(t, body)

	// then
	assert.ErrorIs(t, err, ErrMissingDefinition)
	assert.ErrorContains(t, err, "PI_Dangling")
}
