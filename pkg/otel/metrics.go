package otel

import (
	"errors"

	"go.opentelemetry.io/otel/metric"
)

type EngineMetrics struct {
	DefinitionsDeployed  metric.Int64Counter
	DefinitionsUnchanged metric.Int64Counter
	CompileFailures      metric.Int64Counter
	CompileDuration      metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*EngineMetrics, error) {
	var errJoin error

	definitionsDeployed, err := meter.Int64Counter("case_definitions_deployed", metric.WithDescription("Number of case definitions deployed"))
	errJoin = errors.Join(errJoin, err)

	definitionsUnchanged, err := meter.Int64Counter("case_definitions_unchanged", metric.WithDescription("Number of deployments skipped because the definition did not change"))
	errJoin = errors.Join(errJoin, err)

	compileFailures, err := meter.Int64Counter("case_definitions_failed", metric.WithDescription("Number of case definition documents that failed to compile"))
	errJoin = errors.Join(errJoin, err)

	compileDuration, err := meter.Float64Histogram("case_definition_compile_duration", metric.WithUnit("ms"), metric.WithDescription("Time spent compiling a case definition document, milliseconds"))
	errJoin = errors.Join(errJoin, err)

	metrics := EngineMetrics{
		DefinitionsDeployed:  definitionsDeployed,
		DefinitionsUnchanged: definitionsUnchanged,
		CompileFailures:      compileFailures,
		CompileDuration:      compileDuration,
	}
	return &metrics, errJoin
}
