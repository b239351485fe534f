// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package cmmn

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/compiler"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/exporter"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
	otelPkg "github.com/pbinitiative/zencmmn/pkg/otel"
	"github.com/pbinitiative/zencmmn/pkg/storage"
	"github.com/pbinitiative/zencmmn/pkg/storage/inmemory"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultCacheSize = 256
	DefaultCacheTTL  = time.Hour
)

// Engine deploys CMMN documents: it compiles them, versions every case by its
// id and keeps the compiled definitions in storage and in a cache.
type Engine struct {
	name        string
	snowflake   *snowflake.Node
	persistence storage.Storage
	compiler    *compiler.Compiler
	exporters   []exporter.EventExporter
	logger      hclog.Logger
	tracer      trace.Tracer
	meter       metric.Meter
	metrics     *otelPkg.EngineMetrics
	cacheSize   int
	cacheTTL    time.Duration
	cache       *expirable.LRU[int64, *runtime.CaseDefinition]
	// deployMu serializes version assignment
	deployMu sync.Mutex
}

type EngineOption = func(*Engine)

// New creates a new instance of the CMMN deployment engine
func New(options ...EngineOption) (*Engine, error) {
	name := fmt.Sprintf("Cmmn-Engine-%d", getGlobalSnowflakeIdGenerator().Generate().Int64())
	engine := Engine{
		name:      name,
		snowflake: getGlobalSnowflakeIdGenerator(),
		exporters: []exporter.EventExporter{},
		logger:    hclog.Default().Named("cmmn-engine"),
		tracer:    otel.GetTracerProvider().Tracer("cmmn-engine"),
		meter:     otel.GetMeterProvider().Meter("cmmn-engine"),
		cacheSize: DefaultCacheSize,
		cacheTTL:  DefaultCacheTTL,
	}

	for _, option := range options {
		option(&engine)
	}

	if engine.persistence == nil {
		engine.persistence = inmemory.NewStorage()
	}
	if engine.compiler == nil {
		engine.compiler = compiler.New(compiler.WithLogger(engine.logger.Named("compiler")), compiler.WithTracer(engine.tracer))
	}
	metrics, err := otelPkg.NewMetrics(engine.meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine metrics: %w", err)
	}
	engine.metrics = metrics
	engine.cache = expirable.NewLRU[int64, *runtime.CaseDefinition](engine.cacheSize, nil, engine.cacheTTL)
	return &engine, nil
}

func WithName(name string) EngineOption {
	return func(engine *Engine) {
		engine.name = name
	}
}

func WithStorage(persistence storage.Storage) EngineOption {
	return func(engine *Engine) {
		engine.persistence = persistence
	}
}

func WithCompiler(c *compiler.Compiler) EngineOption {
	return func(engine *Engine) {
		engine.compiler = c
	}
}

func WithExporter(exporter exporter.EventExporter) EngineOption {
	return func(engine *Engine) { engine.AddEventExporter(exporter) }
}

func WithLogger(logger hclog.Logger) EngineOption {
	return func(engine *Engine) {
		engine.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) EngineOption {
	return func(engine *Engine) {
		engine.tracer = tracer
	}
}

func WithMeter(meter metric.Meter) EngineOption {
	return func(engine *Engine) {
		engine.meter = meter
	}
}

// WithCache sizes the cache of compiled definitions. A non positive ttl keeps entries until evicted.
func WithCache(size int, ttl time.Duration) EngineOption {
	return func(engine *Engine) {
		engine.cacheSize = size
		engine.cacheTTL = ttl
	}
}

func (engine *Engine) Name() string {
	return engine.name
}

// FindCaseDefinitionByKey returns the deployed case definition with the given key.
// Returns storage.ErrNotFound when no such definition was deployed.
func (engine *Engine) FindCaseDefinitionByKey(ctx context.Context, key int64) (runtime.DeployedCaseDefinition, error) {
	deployed, err := engine.persistence.FindCaseDefinitionByKey(ctx, key)
	if err != nil {
		return deployed, fmt.Errorf("failed to find case definition by key %d: %w", key, err)
	}
	return engine.withDefinition(ctx, deployed)
}

// FindCaseDefinitionsById returns all versions of the case, ordered from version 1 to the latest.
func (engine *Engine) FindCaseDefinitionsById(ctx context.Context, caseId string) ([]runtime.DeployedCaseDefinition, error) {
	deployed, err := engine.persistence.FindCaseDefinitionsById(ctx, caseId)
	if err != nil {
		return nil, fmt.Errorf("failed to find case definitions by id %s: %w", caseId, err)
	}
	return engine.withDefinitions(ctx, deployed)
}

func (engine *Engine) FindLatestCaseDefinitionById(ctx context.Context, caseId string) (runtime.DeployedCaseDefinition, error) {
	deployed, err := engine.persistence.FindLatestCaseDefinitionById(ctx, caseId)
	if err != nil {
		return deployed, fmt.Errorf("failed to find latest case definition by id %s: %w", caseId, err)
	}
	return engine.withDefinition(ctx, deployed)
}

func (engine *Engine) FindAllCaseDefinitions(ctx context.Context) ([]runtime.DeployedCaseDefinition, error) {
	deployed, err := engine.persistence.FindAllCaseDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find case definitions: %w", err)
	}
	return engine.withDefinitions(ctx, deployed)
}

// FindCaseDefinitionSource returns the CMMN document the case definition with the given key was deployed from.
func (engine *Engine) FindCaseDefinitionSource(ctx context.Context, key int64) ([]byte, error) {
	deployed, err := engine.persistence.FindCaseDefinitionByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to find case definition by key %d: %w", key, err)
	}
	return decodeAndDecompress(deployed.Data)
}

func (engine *Engine) withDefinitions(ctx context.Context, deployed []runtime.DeployedCaseDefinition) ([]runtime.DeployedCaseDefinition, error) {
	for i := range deployed {
		var err error
		deployed[i], err = engine.withDefinition(ctx, deployed[i])
		if err != nil {
			return nil, err
		}
	}
	return deployed, nil
}

// withDefinition attaches the compiled graph to a stored definition. The graph
// comes from the cache, from storage or is rebuilt from the retained source.
func (engine *Engine) withDefinition(ctx context.Context, deployed runtime.DeployedCaseDefinition) (runtime.DeployedCaseDefinition, error) {
	if definition, ok := engine.cache.Get(deployed.Key); ok {
		deployed.Definition = definition
		return deployed, nil
	}
	if deployed.Definition == nil {
		xmlData, err := decodeAndDecompress(deployed.Data)
		if err != nil {
			return deployed, fmt.Errorf("failed to restore case definition %d: %w", deployed.Key, err)
		}
		cases, err := engine.compile(ctx, xmlData)
		if err != nil {
			return deployed, err
		}
		i := slices.IndexFunc(cases, func(c *runtime.CaseDefinition) bool { return c.Id == deployed.CaseId })
		if i < 0 {
			return deployed, newEngineErrorf("case %s not found in source of case definition %d", deployed.CaseId, deployed.Key)
		}
		deployed.Definition = cases[i]
		engine.logger.Debug(fmt.Sprintf("rebuilt case definition %d from its source", deployed.Key))
	}
	engine.cache.Add(deployed.Key, deployed.Definition)
	return deployed, nil
}
