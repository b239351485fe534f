package cmmn

import (
	"github.com/pbinitiative/zencmmn/pkg/cmmn/exporter"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
)

// AddEventExporter registers an EventExporter instance
func (engine *Engine) AddEventExporter(exporter exporter.EventExporter) {
	engine.exporters = append(engine.exporters, exporter)
}

func (engine *Engine) exportCaseDefinitionEvent(definition runtime.DeployedCaseDefinition, xmlData []byte, checksum string, intent exporter.Intent) {
	event := exporter.CaseDefinitionEvent{
		CaseId:       definition.CaseId,
		Key:          definition.Key,
		Version:      definition.Version,
		XmlData:      xmlData,
		ResourceName: definition.ResourceName,
		Checksum:     checksum,
		Intent:       intent,
	}
	for _, exp := range engine.exporters {
		exp.NewCaseDefinitionEvent(&event)
	}
}
