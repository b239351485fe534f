package compiler

import (
	"fmt"
	"strings"

	"github.com/pbinitiative/zencmmn/pkg/cmmn/model/cmmn11"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
)

type handlerFunc func(cc *compileContext, item cmmn11.Item, definition cmmn11.PlanItemDefinition, parent *runtime.Activity) (*runtime.Activity, error)

var handlers map[cmmn11.ElementType]handlerFunc

func init() {
	handlers = map[cmmn11.ElementType]handlerFunc{
		cmmn11.ElementTypeTask:               handleTask,
		cmmn11.ElementTypeHumanTask:          handleHumanTask,
		cmmn11.ElementTypeCaseTask:           handleCaseTask,
		cmmn11.ElementTypeProcessTask:        handleProcessTask,
		cmmn11.ElementTypeDecisionTask:       handleDecisionTask,
		cmmn11.ElementTypeStage:              handleStage,
		cmmn11.ElementTypeTimerEventListener: handleTimerEventListener,
		cmmn11.ElementTypeMilestone:          handleMilestone,
	}
}

// newActivity runs the steps shared by all handlers: name, description,
// activity type, entry and exit criteria and control rules.
func (cc *compileContext) newActivity(item cmmn11.Item, definition cmmn11.PlanItemDefinition) (*runtime.Activity, error) {
	activity := runtime.NewActivity(item.GetId())
	activity.Name = resolveName(item, definition)
	if description := resolveDescription(item, definition); description != "" {
		activity.SetProperty(runtime.PropertyDescription, description)
	}
	activity.SetProperty(runtime.PropertyActivityType, string(definition.GetType()))
	if item.IsDiscretionary() {
		activity.SetProperty(runtime.PropertyDiscretionary, true)
	}

	var err error
	activity.EntryCriteria, err = cc.lookupCriteria(item.GetId(), item.GetEntryCriteria())
	if err != nil {
		return nil, err
	}
	activity.ExitCriteria, err = cc.lookupCriteria(item.GetId(), item.GetExitCriteria())
	if err != nil {
		return nil, err
	}

	ResolveControlRules(item.GetItemControl(), definition.GetDefaultControl()).apply(activity)
	return activity, nil
}

// applyListeners builds the case execution and variable listener tables from
// the extension elements of the definition.
func (cc *compileContext) applyListeners(activity *runtime.Activity, definition cmmn11.BaseElement, applicable []string) error {
	ext := definition.GetExtensionElements()
	listeners, err := cc.buildCaseExecutionListeners(activity.Id, ext, applicable)
	if err != nil {
		return err
	}
	variableListeners, err := cc.buildVariableListeners(activity.Id, ext)
	if err != nil {
		return err
	}
	activity.Listeners = listeners
	activity.VariableListeners = variableListeners
	return nil
}

func resolveName(item cmmn11.Item, definition cmmn11.PlanItemDefinition) string {
	if item.GetName() != "" {
		return item.GetName()
	}
	return definition.GetName()
}

// resolveDescription falls back from the item to the definition, then to the
// item's documentation and last to the definition's documentation.
func resolveDescription(item cmmn11.Item, definition cmmn11.PlanItemDefinition) string {
	if item.GetDescription() != "" {
		return item.GetDescription()
	}
	if definition.GetDescription() != "" {
		return definition.GetDescription()
	}
	if documentation := joinDocumentation(item.GetDocumentation()); documentation != "" {
		return documentation
	}
	return joinDocumentation(definition.GetDocumentation())
}

func joinDocumentation(docs []cmmn11.TDocumentation) string {
	var texts []string
	for _, doc := range docs {
		if text := doc.GetText(); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n\n")
}

func handleTask(cc *compileContext, item cmmn11.Item, definition cmmn11.PlanItemDefinition, parent *runtime.Activity) (*runtime.Activity, error) {
	task := definition.(*cmmn11.TTask)
	activity, err := cc.newActivity(item, definition)
	if err != nil {
		return nil, err
	}
	activity.SetProperty(runtime.PropertyIsBlocking, task.IsBlocking())
	activity.Behavior = runtime.PlainTaskBehavior{}
	if err := cc.applyListeners(activity, definition, runtime.TaskOrStageEvents); err != nil {
		return nil, err
	}
	cc.attach(activity, parent)
	return activity, nil
}

// handleHumanTask produces no activity for a non blocking human task.
func handleHumanTask(cc *compileContext, item cmmn11.Item, definition cmmn11.PlanItemDefinition, parent *runtime.Activity) (*runtime.Activity, error) {
	task := definition.(*cmmn11.THumanTask)
	if !task.IsBlocking() {
		cc.logger.Debug(fmt.Sprintf("skipping non blocking human task %s", item.GetId()))
		return nil, nil
	}
	activity, err := cc.newActivity(item, definition)
	if err != nil {
		return nil, err
	}
	activity.SetProperty(runtime.PropertyIsBlocking, true)
	descriptor, err := cc.buildTaskDescriptor(activity, task)
	if err != nil {
		return nil, err
	}
	activity.Behavior = runtime.HumanTaskBehavior{Task: descriptor}
	if err := cc.applyListeners(activity, definition, runtime.TaskOrStageEvents); err != nil {
		return nil, err
	}
	cc.attach(activity, parent)
	return activity, nil
}

func (cc *compileContext) buildTaskDescriptor(activity *runtime.Activity, task *cmmn11.THumanTask) (*runtime.TaskDescriptor, error) {
	descriptor := &runtime.TaskDescriptor{
		Key:          task.GetId(),
		Name:         NewValueProvider(activity.Name),
		Description:  NewValueProvider(activity.GetDescription()),
		DueDate:      NewValueProvider(strings.TrimSpace(task.DueDate)),
		FollowUpDate: NewValueProvider(strings.TrimSpace(task.FollowUpDate)),
		Priority:     NewValueProvider(strings.TrimSpace(task.Priority)),
		Assignee:     NewValueProvider(strings.TrimSpace(task.Assignee)),
		FormKey:      NewValueProvider(strings.TrimSpace(task.FormKey)),
	}
	if task.PerformerRef != "" {
		performer := task.GetPerformer()
		if performer == nil {
			return nil, newCompileErrorf(activity.Id, ErrMissingDefinition, "performerRef %q", task.PerformerRef)
		}
		// an explicit assignee wins over the performer role
		if descriptor.Assignee == nil {
			descriptor.Assignee = NewValueProvider(performer.Name)
		}
	}
	descriptor.CandidateUsers = distinctProviders(task.GetCandidateUsers())
	descriptor.CandidateGroups = distinctProviders(task.GetCandidateGroups())

	taskListeners, err := cc.buildTaskListeners(activity.Id, task.GetExtensionElements())
	if err != nil {
		return nil, err
	}
	descriptor.TaskListeners = taskListeners
	return descriptor, nil
}

// distinctProviders keeps the first occurrence of every value.
func distinctProviders(values []string) []runtime.ValueProvider {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	providers := make([]runtime.ValueProvider, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		providers = append(providers, NewValueProvider(value))
	}
	return providers
}

func handleCaseTask(cc *compileContext, item cmmn11.Item, definition cmmn11.PlanItemDefinition, parent *runtime.Activity) (*runtime.Activity, error) {
	task := definition.(*cmmn11.TCaseTask)
	return cc.compileCallTask(item, task, task.IsBlocking(), parent, func(callable *runtime.CallableElement) runtime.Behavior {
		return runtime.CaseTaskBehavior{CallableElement: callable}
	})
}

func handleProcessTask(cc *compileContext, item cmmn11.Item, definition cmmn11.PlanItemDefinition, parent *runtime.Activity) (*runtime.Activity, error) {
	task := definition.(*cmmn11.TProcessTask)
	return cc.compileCallTask(item, task, task.IsBlocking(), parent, func(callable *runtime.CallableElement) runtime.Behavior {
		return runtime.ProcessTaskBehavior{CallableElement: callable}
	})
}

func handleDecisionTask(cc *compileContext, item cmmn11.Item, definition cmmn11.PlanItemDefinition, parent *runtime.Activity) (*runtime.Activity, error) {
	task := definition.(*cmmn11.TDecisionTask)
	return cc.compileCallTask(item, task, task.IsBlocking(), parent, func(callable *runtime.CallableElement) runtime.Behavior {
		mapping := runtime.ResultMappingList
		if strings.TrimSpace(task.MapDecisionResult) == cmmn11.MapDecisionResultSingleResult {
			mapping = runtime.ResultMappingSingle
		}
		return runtime.DecisionTaskBehavior{
			CallableElement: callable,
			ResultMapping:   mapping,
			ResultVariable:  strings.TrimSpace(task.ResultVariable),
		}
	})
}

func (cc *compileContext) compileCallTask(item cmmn11.Item, task cmmn11.CallableTask, blocking bool, parent *runtime.Activity, behavior func(*runtime.CallableElement) runtime.Behavior) (*runtime.Activity, error) {
	activity, err := cc.newActivity(item, task)
	if err != nil {
		return nil, err
	}
	activity.SetProperty(runtime.PropertyIsBlocking, blocking)
	callable, err := buildCallableElement(task)
	if err != nil {
		return nil, err
	}
	activity.Behavior = behavior(callable)
	if err := cc.applyListeners(activity, task, runtime.TaskOrStageEvents); err != nil {
		return nil, err
	}
	cc.attach(activity, parent)
	return activity, nil
}

func handleStage(cc *compileContext, item cmmn11.Item, definition cmmn11.PlanItemDefinition, parent *runtime.Activity) (*runtime.Activity, error) {
	stage := definition.(*cmmn11.TStage)
	activity, err := cc.newActivity(item, definition)
	if err != nil {
		return nil, err
	}
	activity.SetProperty(runtime.PropertyAutoComplete, stage.AutoComplete)
	activity.Behavior = runtime.StageBehavior{AutoComplete: stage.AutoComplete}
	if err := cc.applyListeners(activity, definition, runtime.TaskOrStageEvents); err != nil {
		return nil, err
	}
	cc.attach(activity, parent)
	if err := cc.compileStage(activity, stage); err != nil {
		return nil, err
	}
	return activity, nil
}

func handleTimerEventListener(cc *compileContext, item cmmn11.Item, definition cmmn11.PlanItemDefinition, parent *runtime.Activity) (*runtime.Activity, error) {
	listener := definition.(*cmmn11.TTimerEventListener)
	activity, err := cc.newActivity(item, definition)
	if err != nil {
		return nil, err
	}
	timer, err := buildTimerJobDescriptor(activity.Id, listener.GetTimerExpressionText())
	if err != nil {
		return nil, err
	}
	activity.SetProperty(runtime.PropertyTimerJobDeclaration, timer)
	activity.Behavior = runtime.TimerListenerBehavior{Timer: timer}
	if err := cc.applyListeners(activity, definition, runtime.TaskOrStageEvents); err != nil {
		return nil, err
	}
	cc.attach(activity, parent)
	return activity, nil
}

func handleMilestone(cc *compileContext, item cmmn11.Item, definition cmmn11.PlanItemDefinition, parent *runtime.Activity) (*runtime.Activity, error) {
	activity, err := cc.newActivity(item, definition)
	if err != nil {
		return nil, err
	}
	activity.Behavior = runtime.MilestoneBehavior{}
	if err := cc.applyListeners(activity, definition, runtime.EventListenerOrMilestoneEvents); err != nil {
		return nil, err
	}
	cc.attach(activity, parent)
	return activity, nil
}

// handleCasePlanModel compiles the root of the case. The case plan model is
// its own definition and has no item control.
func handleCasePlanModel(cc *compileContext, plan *cmmn11.TStage) (*runtime.Activity, error) {
	activity := runtime.NewActivity(plan.Id)
	activity.Name = plan.Name
	description := plan.GetDescription()
	if description == "" {
		description = joinDocumentation(plan.GetDocumentation())
	}
	if description != "" {
		activity.SetProperty(runtime.PropertyDescription, description)
	}
	activity.SetProperty(runtime.PropertyActivityType, string(cmmn11.ElementTypeCasePlanModel))
	activity.SetProperty(runtime.PropertyAutoComplete, plan.AutoComplete)
	activity.Behavior = runtime.StageBehavior{AutoComplete: plan.AutoComplete}
	if err := cc.applyListeners(activity, plan, runtime.CasePlanModelEvents); err != nil {
		return nil, err
	}
	cc.attach(activity, nil)
	if err := cc.compileStage(activity, plan); err != nil {
		return nil, err
	}
	// exit criteria of the plan model reference its own sentries
	exitCriteria, err := cc.lookupCriteria(plan.Id, plan.ExitCriteria)
	if err != nil {
		return nil, err
	}
	activity.ExitCriteria = exitCriteria
	return activity, nil
}
