// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package compiler

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/model/cmmn11"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
	otelPkg "github.com/pbinitiative/zencmmn/pkg/otel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Compiler turns parsed CMMN cases into executable case definitions.
// A Compiler keeps no state between compilations and may be shared.
type Compiler struct {
	logger            hclog.Logger
	tracer            trace.Tracer
	precompileScripts bool
}

type Option = func(*Compiler)

func New(options ...Option) *Compiler {
	c := &Compiler{
		logger: hclog.Default().Named("cmmn-compiler"),
		tracer: otel.GetTracerProvider().Tracer("cmmn-compiler"),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func WithLogger(logger hclog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Compiler) {
		c.tracer = tracer
	}
}

// WithScriptPrecompilation compiles javascript listener scripts with goja so
// syntax errors fail the compilation.
func WithScriptPrecompilation(enabled bool) Option {
	return func(c *Compiler) {
		c.precompileScripts = enabled
	}
}

// Compile compiles every case of the definitions document. The first error aborts.
func (c *Compiler) Compile(ctx context.Context, definitions *cmmn11.TDefinitions) ([]*runtime.CaseDefinition, error) {
	result := make([]*runtime.CaseDefinition, 0, len(definitions.Cases))
	for i := range definitions.Cases {
		caseDefinition, err := c.CompileCase(ctx, &definitions.Cases[i])
		if err != nil {
			return nil, fmt.Errorf("failed to compile case %s: %w", definitions.Cases[i].Id, err)
		}
		result = append(result, caseDefinition)
	}
	return result, nil
}

// CompileCase compiles a single case whose references were resolved by the model.
func (c *Compiler) CompileCase(ctx context.Context, caseElement *cmmn11.TCase) (result *runtime.CaseDefinition, retErr error) {
	_, span := c.tracer.Start(ctx, fmt.Sprintf("compile:%s", caseElement.Id), trace.WithAttributes(
		attribute.String(otelPkg.AttributeCaseId, caseElement.Id),
	))
	defer func() {
		if retErr != nil {
			span.RecordError(retErr)
			span.SetStatus(codes.Error, retErr.Error())
		}
		span.End()
	}()

	if caseElement.CasePlanModel == nil {
		return nil, newCompileErrorf(caseElement.Id, ErrMissingCasePlanModel, "")
	}
	cc := &compileContext{
		Compiler:    c,
		caseElement: caseElement,
		definition:  runtime.NewCaseDefinition(caseElement.Id, caseElement.Name),
	}
	root, err := handleCasePlanModel(cc, caseElement.CasePlanModel)
	if err != nil {
		return nil, err
	}
	cc.definition.Root = root

	// on parts may point at anything in the tree, so they are resolved last
	if err := cc.resolveOnParts(); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int(otelPkg.AttributeActivityCount, len(cc.definition.Activities)),
		attribute.Int(otelPkg.AttributeSentryCount, len(cc.definition.Sentries)),
	)
	c.logger.Debug(fmt.Sprintf("compiled case %s with %d activities and %d sentries", caseElement.Id, len(cc.definition.Activities), len(cc.definition.Sentries)))
	return cc.definition, nil
}

// compileContext holds the state of one case compilation.
type compileContext struct {
	*Compiler
	caseElement    *cmmn11.TCase
	definition     *runtime.CaseDefinition
	pendingOnParts []pendingOnPart
}

// compileStage compiles the content of a stage or the case plan model into
// the given activity: sentries first, then plan items, then discretionary items.
func (cc *compileContext) compileStage(activity *runtime.Activity, stage *cmmn11.TStage) error {
	for i := range stage.Sentries {
		if err := cc.compileSentry(activity, &stage.Sentries[i]); err != nil {
			return err
		}
	}
	for i := range stage.PlanItems {
		if _, err := cc.compileItem(&stage.PlanItems[i], activity); err != nil {
			return err
		}
	}
	if stage.PlanningTable != nil {
		return cc.compilePlanningTable(activity, stage.PlanningTable)
	}
	return nil
}

func (cc *compileContext) compilePlanningTable(activity *runtime.Activity, table *cmmn11.TPlanningTable) error {
	for i := range table.DiscretionaryItems {
		if _, err := cc.compileItem(&table.DiscretionaryItems[i], activity); err != nil {
			return err
		}
	}
	for i := range table.PlanningTables {
		if err := cc.compilePlanningTable(activity, &table.PlanningTables[i]); err != nil {
			return err
		}
	}
	return nil
}

// compileItem dispatches to the handler of the item's definition. The returned
// activity is nil when the handler produced no node.
func (cc *compileContext) compileItem(item cmmn11.Item, parent *runtime.Activity) (*runtime.Activity, error) {
	definition := item.GetDefinition()
	if definition == nil {
		return nil, newCompileErrorf(item.GetId(), ErrMissingDefinition, "definitionRef %q", item.GetDefinitionRef())
	}
	handler, ok := handlers[definition.GetType()]
	if !ok {
		return nil, newCompileErrorf(item.GetId(), ErrUnsupportedElement, "%s", definition.GetType())
	}
	return handler(cc, item, definition, parent)
}

func (cc *compileContext) attach(activity *runtime.Activity, parent *runtime.Activity) {
	if parent != nil {
		parent.AddActivity(activity)
	}
	cc.definition.Activities[activity.Id] = activity
	cc.logger.Debug(fmt.Sprintf("compiled %s %s", activity.GetActivityType(), activity.Id))
}
