package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pbinitiative/zencmmn/internal/log"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/exporter"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
)

type fileLoader interface {
	LoadFromFile(ctx context.Context, filename string) ([]runtime.DeployedCaseDefinition, error)
}

// deployDirectory deploys every *.cmmn file of dir in lexical order. A failing
// file does not stop the remaining ones, all failures are returned joined.
func deployDirectory(ctx context.Context, loader fileLoader, dir string) ([]runtime.DeployedCaseDefinition, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.cmmn"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var deployed []runtime.DeployedCaseDefinition
	var errJoin error
	for _, file := range files {
		definitions, err := loader.LoadFromFile(ctx, file)
		if err != nil {
			errJoin = errors.Join(errJoin, fmt.Errorf("%s: %w", filepath.Base(file), err))
			continue
		}
		deployed = append(deployed, definitions...)
	}
	return deployed, errJoin
}

// logExporter reports deployments to the application log.
type logExporter struct{}

func (logExporter) NewCaseDefinitionEvent(event *exporter.CaseDefinitionEvent) {
	log.Info("case %s version %d %s from %s (key %d, checksum %s)", event.CaseId, event.Version, event.Intent, event.ResourceName, event.Key, event.Checksum)
}
