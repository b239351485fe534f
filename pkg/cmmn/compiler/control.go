package compiler

import (
	"strings"

	"github.com/pbinitiative/zencmmn/pkg/cmmn/model/cmmn11"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
)

// ControlRules are the resolved activation controls of one item. A nil rule is absent.
type ControlRules struct {
	Required               *runtime.CaseControlRule
	ManualActivation       *runtime.CaseControlRule
	Repetition             *runtime.CaseControlRule
	RepeatOnStandardEvents []string
}

// ResolveControlRules merges the item control with the default control of the
// definition. Each rule kind is resolved on its own: the item rule wins, then
// the default rule.
func ResolveControlRules(itemControl *cmmn11.TPlanItemControl, defaultControl *cmmn11.TPlanItemControl) ControlRules {
	var rules ControlRules

	required := pickRule(itemControl, defaultControl, func(c *cmmn11.TPlanItemControl) *cmmn11.TRule { return c.RequiredRule })
	rules.Required = toCaseControlRule(required)

	manual := pickRule(itemControl, defaultControl, func(c *cmmn11.TPlanItemControl) *cmmn11.TRule { return c.ManualActivationRule })
	rules.ManualActivation = toCaseControlRule(manual)

	var repetition *cmmn11.TRepetitionRule
	for _, control := range []*cmmn11.TPlanItemControl{itemControl, defaultControl} {
		if control != nil && control.RepetitionRule != nil {
			repetition = control.RepetitionRule
			break
		}
	}
	if repetition != nil {
		rules.Repetition = toCaseControlRule(&repetition.TRule)
		if event := strings.TrimSpace(repetition.GetRepeatOnStandardEvent()); event != "" {
			rules.RepeatOnStandardEvents = []string{event}
		} else {
			rules.RepeatOnStandardEvents = append([]string(nil), runtime.DefaultRepeatOnStandardEvents...)
		}
	}
	return rules
}

func pickRule(itemControl, defaultControl *cmmn11.TPlanItemControl, get func(*cmmn11.TPlanItemControl) *cmmn11.TRule) *cmmn11.TRule {
	if itemControl != nil {
		if rule := get(itemControl); rule != nil {
			return rule
		}
	}
	if defaultControl != nil {
		return get(defaultControl)
	}
	return nil
}

func toCaseControlRule(rule *cmmn11.TRule) *runtime.CaseControlRule {
	if rule == nil {
		return nil
	}
	return &runtime.CaseControlRule{Condition: rule.GetConditionText()}
}

func (r ControlRules) apply(activity *runtime.Activity) {
	if r.Required != nil {
		activity.SetProperty(runtime.PropertyRequiredRule, r.Required)
	}
	if r.ManualActivation != nil {
		activity.SetProperty(runtime.PropertyManualActivationRule, r.ManualActivation)
	}
	if r.Repetition != nil {
		activity.SetProperty(runtime.PropertyRepetitionRule, r.Repetition)
		activity.SetProperty(runtime.PropertyRepeatOnStandardEvents, r.RepeatOnStandardEvents)
	}
}
