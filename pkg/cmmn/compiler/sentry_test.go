package compiler

import (
	"testing"

	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_on_part_may_reference_a_later_plan_item(t *testing.T) {
	// given
	body := `
      <planItem id="PI_A" definitionRef="Task_A">
        <entryCriterion id="EC_A" sentryRef="Sentry_1"/>
      </planItem>
      <planItem id="PI_B" definitionRef="Task_B"/>
      <sentry id="Sentry_1">
        <planItemOnPart id="OnPart_1" sourceRef="PI_B">
          <standardEvent>complete</standardEvent>
        </planItemOnPart>
      </sentry>
      <task id="Task_A"/>
      <task id="Task_B"/>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	sentry := definition.GetSentry("Sentry_1")
	require.NotNil(t, sentry)
	a := definition.GetActivity("PI_A")
	require.Len(t, a.EntryCriteria, 1)
	assert.Same(t, sentry, a.EntryCriteria[0])
	assert.Equal(t, []*runtime.OnPartDeclaration{
		{Id: "OnPart_1", SourceActivityId: "PI_B", StandardEvent: runtime.EventComplete},
	}, sentry.OnParts)
	assert.Equal(t, []*runtime.SentryDeclaration{sentry}, definition.Root.Sentries)
}

func Test_multiple_exit_criteria_keep_order(t *testing.T) {
	// given
	body := `
      <planItem id="PI_A" definitionRef="Task_A">
        <exitCriterion id="EC_1" sentryRef="Sentry_2"/>
        <exitCriterion id="EC_2" sentryRef="Sentry_1"/>
      </planItem>
      <sentry id="Sentry_1"><ifPart><condition>${one}</condition></ifPart></sentry>
      <sentry id="Sentry_2"><ifPart><condition>${two}</condition></ifPart></sentry>
      <task id="Task_A"/>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	exitCriteria := definition.GetActivity("PI_A").ExitCriteria
	require.Len(t, exitCriteria, 2)
	assert.Equal(t, "Sentry_2", exitCriteria[0].Id)
	assert.Equal(t, "Sentry_1", exitCriteria[1].Id)
	assert.Empty(t, definition.GetActivity("PI_A").EntryCriteria)
}

func Test_only_first_if_part_condition_is_used(t *testing.T) {
	// given
	body := `
      <sentry id="Sentry_1">
        <ifPart>
          <condition><![CDATA[${amount > 100}]]></condition>
          <condition>${ignored}</condition>
        </ifPart>
      </sentry>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	assert.Equal(t, "${amount > 100}", definition.GetSentry("Sentry_1").Condition)
}

func Test_variable_on_part(t *testing.T) {
	// given
	body := `
      <sentry id="Sentry_1">
        <extensionElements>
          <camunda:variableOnPart variableName="approved">
            <camunda:variableEvent>update</camunda:variableEvent>
          </camunda:variableOnPart>
        </extensionElements>
      </sentry>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	assert.Equal(t, []runtime.VariableOnPartDeclaration{
		{VariableName: "approved", Event: runtime.VariableEventUpdate},
	}, definition.GetSentry("Sentry_1").VariableOnParts)
}

func Test_variable_on_part_without_event_fails(t *testing.T) {
	// given
	body := `
      <sentry id="Sentry_1">
        <extensionElements>
          <camunda:variableOnPart variableName="approved"/>
        </extensionElements>
      </sentry>`

	// when
	_, err := compilePlanModel(t, body)

	// then
	assert.ErrorIs(t, err, ErrInvalidOnPart)
}

func Test_chained_sentry_defaults_to_exit(t *testing.T) {
	// given
	body := `
      <planItem id="PI_A" definitionRef="Task_A">
        <exitCriterion id="EC_A" sentryRef="Sentry_Exit"/>
      </planItem>
      <sentry id="Sentry_Exit"><ifPart><condition>${stop}</condition></ifPart></sentry>
      <sentry id="Sentry_Chained">
        <planItemOnPart id="OnPart_1" sentryRef="Sentry_Exit"/>
      </sentry>
      <task id="Task_A"/>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	onParts := definition.GetSentry("Sentry_Chained").OnParts
	require.Len(t, onParts, 1)
	assert.Equal(t, "Sentry_Exit", onParts[0].ChainedSentryId)
	assert.Equal(t, runtime.EventExit, onParts[0].StandardEvent)
	assert.Empty(t, onParts[0].SourceActivityId)
}

func Test_invalid_on_parts(t *testing.T) {
	testCases := map[string]struct {
		onPart string
		err    error
	}{
		"dangling source": {
			onPart: `<planItemOnPart id="OnPart_1" sourceRef="PI_Missing"><standardEvent>complete</standardEvent></planItemOnPart>`,
			err:    ErrDanglingSourceRef,
		},
		"dangling sentry": {
			onPart: `<planItemOnPart id="OnPart_1" sentryRef="Sentry_Missing"/>`,
			err:    ErrDanglingSentryRef,
		},
		"both references": {
			onPart: `<planItemOnPart id="OnPart_1" sourceRef="PI_A" sentryRef="Sentry_1"><standardEvent>complete</standardEvent></planItemOnPart>`,
			err:    ErrInvalidOnPart,
		},
		"no reference": {
			onPart: `<planItemOnPart id="OnPart_1"><standardEvent>complete</standardEvent></planItemOnPart>`,
			err:    ErrInvalidOnPart,
		},
		"missing event": {
			onPart: `<planItemOnPart id="OnPart_1" sourceRef="PI_A"/>`,
			err:    ErrInvalidOnPart,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			// given
			body := `
      <planItem id="PI_A" definitionRef="Task_A"/>
      <sentry id="Sentry_1">` + tc.onPart + `</sentry>
      <task id="Task_A"/>`

			// when
			_, err := compilePlanModel(t, body)

			// then
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func Test_dangling_criterion_fails(t *testing.T) {
	// given
	body := `
      <planItem id="PI_A" definitionRef="Task_A">
        <entryCriterion id="EC_A" sentryRef="Sentry_Missing"/>
      </planItem>
      <task id="Task_A"/>`

	// when
	_, err := compilePlanModel(t, body)

	// then
	assert.ErrorIs(t, err, ErrDanglingSentryRef)
}

func Test_duplicate_sentry_id_fails(t *testing.T) {
	// given
	body := `
      <sentry id="Sentry_1"/>
      <planItem id="PI_Stage" definitionRef="Stage_1"/>
      <stage id="Stage_1">
        <sentry id="Sentry_1"/>
      </stage>`

	// when
	_, err := compilePlanModel(t, body)

	// then
	assert.ErrorIs(t, err, ErrInvalidSentry)
}

func Test_on_part_pointing_at_skipped_human_task_fails(t *testing.T) {
	// given
	body := `
      <planItem id="PI_Async" definitionRef="HumanTask_1"/>
      <sentry id="Sentry_1">
        <planItemOnPart id="OnPart_1" sourceRef="PI_Async"><standardEvent>complete</standardEvent></planItemOnPart>
      </sentry>
      <humanTask id="HumanTask_1" isBlocking="false"/>`

	// when
	_, err := compilePlanModel(t, body)

	// then
	assert.ErrorIs(t, err, ErrDanglingSourceRef)
}

func Test_case_plan_model_exit_criteria(t *testing.T) {
	// given
	body := `
      <exitCriterion id="EC_Plan" sentryRef="Sentry_Stop"/>
      <sentry id="Sentry_Stop">
        <planItemOnPart id="OnPart_1" sourceRef="PI_Stage"><standardEvent>complete</standardEvent></planItemOnPart>
      </sentry>
      <planItem id="PI_Stage" definitionRef="Stage_1"/>
      <stage id="Stage_1">
        <sentry id="Sentry_Inner"/>
      </stage>`

	// when
	definition := mustCompilePlanModel(t, body)

	// then
	require.Len(t, definition.Root.ExitCriteria, 1)
	assert.Same(t, definition.GetSentry("Sentry_Stop"), definition.Root.ExitCriteria[0])
	stage := definition.GetActivity("PI_Stage")
	require.Len(t, stage.Sentries, 1)
	assert.Equal(t, "Sentry_Inner", stage.Sentries[0].Id)
	assert.Len(t, definition.Sentries, 2)
}
