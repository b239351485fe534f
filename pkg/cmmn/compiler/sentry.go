package compiler

import (
	"strings"

	"github.com/pbinitiative/zencmmn/pkg/cmmn/model/cmmn11"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
)

type pendingOnPart struct {
	sentry *runtime.SentryDeclaration
	onPart cmmn11.TPlanItemOnPart
}

// compileSentry registers the sentry with its condition. Plan item on parts
// are queued and resolved by resolveOnParts once the whole tree exists.
func (cc *compileContext) compileSentry(stage *runtime.Activity, sentry *cmmn11.TSentry) error {
	if sentry.Id == "" {
		return newCompileErrorf(stage.Id, ErrInvalidSentry, "sentry without id")
	}
	if _, ok := cc.definition.Sentries[sentry.Id]; ok {
		return newCompileErrorf(sentry.Id, ErrInvalidSentry, "duplicate sentry id")
	}
	declaration := &runtime.SentryDeclaration{
		Id:      sentry.Id,
		OnParts: []*runtime.OnPartDeclaration{},
	}
	// only the first condition of the if part is honored
	if sentry.IfPart != nil && len(sentry.IfPart.Conditions) > 0 {
		declaration.Condition = sentry.IfPart.Conditions[0].GetText()
	}
	for _, variableOnPart := range sentry.GetExtensionElements().VariableOnParts {
		name := strings.TrimSpace(variableOnPart.VariableName)
		event := strings.TrimSpace(variableOnPart.VariableEvent)
		if name == "" || event == "" {
			return newCompileErrorf(sentry.Id, ErrInvalidOnPart, "variable on part needs a variable name and an event")
		}
		declaration.VariableOnParts = append(declaration.VariableOnParts, runtime.VariableOnPartDeclaration{
			VariableName: name,
			Event:        event,
		})
	}

	cc.definition.Sentries[declaration.Id] = declaration
	stage.Sentries = append(stage.Sentries, declaration)
	for _, onPart := range sentry.OnParts {
		cc.pendingOnParts = append(cc.pendingOnParts, pendingOnPart{sentry: declaration, onPart: onPart})
	}
	return nil
}

// resolveOnParts resolves every queued on part against the activity registry
// and the sentry table. An on part references either a plan item or a sentry.
func (cc *compileContext) resolveOnParts() error {
	for _, pending := range cc.pendingOnParts {
		onPart := pending.onPart
		sourceRef := strings.TrimSpace(onPart.SourceRef)
		sentryRef := strings.TrimSpace(onPart.SentryRef)
		event := strings.TrimSpace(onPart.StandardEvent)

		declaration := &runtime.OnPartDeclaration{
			Id:            onPart.Id,
			StandardEvent: event,
		}
		switch {
		case sourceRef != "" && sentryRef != "":
			return newCompileErrorf(pending.sentry.Id, ErrInvalidOnPart, "on part %q references both a plan item and a sentry", onPart.Id)
		case sourceRef != "":
			if event == "" {
				return newCompileErrorf(pending.sentry.Id, ErrInvalidOnPart, "on part %q has no standard event", onPart.Id)
			}
			if cc.definition.GetActivity(sourceRef) == nil {
				return newCompileErrorf(pending.sentry.Id, ErrDanglingSourceRef, "sourceRef %q", sourceRef)
			}
			declaration.SourceActivityId = sourceRef
		case sentryRef != "":
			if cc.definition.GetSentry(sentryRef) == nil {
				return newCompileErrorf(pending.sentry.Id, ErrDanglingSentryRef, "sentryRef %q", sentryRef)
			}
			// a chained sentry fires when the item it guards exits
			if declaration.StandardEvent == "" {
				declaration.StandardEvent = runtime.EventExit
			}
			declaration.ChainedSentryId = sentryRef
		default:
			return newCompileErrorf(pending.sentry.Id, ErrInvalidOnPart, "on part %q references neither a plan item nor a sentry", onPart.Id)
		}
		pending.sentry.OnParts = append(pending.sentry.OnParts, declaration)
	}
	return nil
}

// lookupCriteria resolves entry or exit criteria against sentries compiled so far.
func (cc *compileContext) lookupCriteria(elementId string, criteria []cmmn11.TCriterion) ([]*runtime.SentryDeclaration, error) {
	if len(criteria) == 0 {
		return nil, nil
	}
	sentries := make([]*runtime.SentryDeclaration, 0, len(criteria))
	for _, criterion := range criteria {
		sentry := cc.definition.GetSentry(strings.TrimSpace(criterion.SentryRef))
		if sentry == nil {
			return nil, newCompileErrorf(elementId, ErrDanglingSentryRef, "sentryRef %q", criterion.SentryRef)
		}
		sentries = append(sentries, sentry)
	}
	return sentries, nil
}
