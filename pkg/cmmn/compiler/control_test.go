package compiler

import (
	"testing"

	"github.com/pbinitiative/zencmmn/pkg/cmmn/model/cmmn11"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
	"github.com/stretchr/testify/assert"
)

func Test_item_control_wins_over_default_control(t *testing.T) {
	// given
	body := `
      <planItem id="PI_Task" definitionRef="Task_1">
        <itemControl>
          <requiredRule><condition>${fromItem}</condition></requiredRule>
        </itemControl>
      </planItem>
      <task id="Task_1">
        <defaultControl>
          <requiredRule><condition>${fromDefault}</condition></requiredRule>
          <manualActivationRule><condition>${manual}</condition></manualActivationRule>
        </defaultControl>
      </task>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	activity := definition.GetActivity("PI_Task")
	assert.Equal(t, &runtime.CaseControlRule{Condition: "${fromItem}"}, activity.GetRequiredRule())
	assert.Equal(t, &runtime.CaseControlRule{Condition: "${manual}"}, activity.GetManualActivationRule())
	assert.Nil(t, activity.GetRepetitionRule())
	assert.Nil(t, activity.GetRepeatOnStandardEvents())
}

func Test_rule_without_condition_always_applies(t *testing.T) {
	// given
	body := `
      <planItem id="PI_Task" definitionRef="Task_1">
        <itemControl>
          <requiredRule/>
          <manualActivationRule/>
        </itemControl>
      </planItem>
      <task id="Task_1"/>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	activity := definition.GetActivity("PI_Task")
	assert.Equal(t, &runtime.CaseControlRule{}, activity.GetRequiredRule())
	assert.Equal(t, &runtime.CaseControlRule{}, activity.GetManualActivationRule())
}

func Test_repetition_rule_default_events(t *testing.T) {
	// given
	body := `
      <planItem id="PI_Task" definitionRef="Task_1">
        <itemControl>
          <repetitionRule><condition>${again}</condition></repetitionRule>
        </itemControl>
      </planItem>
      <task id="Task_1"/>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	activity := definition.GetActivity("PI_Task")
	assert.Equal(t, &runtime.CaseControlRule{Condition: "${again}"}, activity.GetRepetitionRule())
	assert.Equal(t, []string{runtime.EventComplete, runtime.EventTerminate}, activity.GetRepeatOnStandardEvents())
}

func Test_repetition_rule_standard_event_override(t *testing.T) {
	// given
	body := `
      <planItem id="PI_Task" definitionRef="Task_1"/>
      <task id="Task_1">
        <defaultControl>
          <repetitionRule>
            <extensionElements>
              <camunda:repeatOnStandardEvent>disable</camunda:repeatOnStandardEvent>
            </extensionElements>
          </repetitionRule>
        </defaultControl>
      </task>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	activity := definition.GetActivity("PI_Task")
	assert.Equal(t, &runtime.CaseControlRule{}, activity.GetRepetitionRule())
	assert.Equal(t, []string{runtime.EventDisable}, activity.GetRepeatOnStandardEvents())
}

func Test_resolve_control_rules_without_controls(t *testing.T) {
	// when
	rules := ResolveControlRules(nil, nil)

	// then
	assert.Equal(t, ControlRules{}, rules)
}

func Test_resolve_control_rules_per_rule_kind(t *testing.T) {
	// given
	item := &cmmn11.TPlanItemControl{
		ManualActivationRule: &cmmn11.TRule{Condition: &cmmn11.TExpression{Body: "${item}"}},
	}
	defaults := &cmmn11.TPlanItemControl{
		RequiredRule:         &cmmn11.TRule{Condition: &cmmn11.TExpression{Text: " ${default} "}},
		ManualActivationRule: &cmmn11.TRule{Condition: &cmmn11.TExpression{Body: "${ignored}"}},
	}

	// when
	rules := ResolveControlRules(item, defaults)

	// then
	assert.Equal(t, &runtime.CaseControlRule{Condition: "${default}"}, rules.Required)
	assert.Equal(t, &runtime.CaseControlRule{Condition: "${item}"}, rules.ManualActivation)
	assert.Nil(t, rules.Repetition)
}

func Test_default_repeat_events_are_not_shared(t *testing.T) {
	// given
	control := &cmmn11.TPlanItemControl{RepetitionRule: &cmmn11.TRepetitionRule{}}

	// when
	rules := ResolveControlRules(control, nil)
	rules.RepeatOnStandardEvents[0] = "changed"

	// then
	assert.Equal(t, runtime.EventComplete, runtime.DefaultRepeatOnStandardEvents[0])
}
