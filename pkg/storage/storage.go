// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package storage

import (
	"context"
	"errors"

	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
)

var ErrNotFound = errors.New("not found")

// Storage keeps deployed case definitions.
//
// Methods that are expected to return exactly one match MUST return ErrNotFound when the result does not exist
type Storage interface {
	CaseDefinitionStorageReader
	CaseDefinitionStorageWriter

	GenerateId() int64
}

type CaseDefinitionStorageReader interface {
	FindLatestCaseDefinitionById(ctx context.Context, caseId string) (runtime.DeployedCaseDefinition, error)

	FindCaseDefinitionByKey(ctx context.Context, caseDefinitionKey int64) (runtime.DeployedCaseDefinition, error)

	// FindCaseDefinitionsById return zero or many deployed cases with given ID
	// result array is ordered by version number, from 1 (first) and largest version (last)
	FindCaseDefinitionsById(ctx context.Context, caseId string) ([]runtime.DeployedCaseDefinition, error)

	// FindAllCaseDefinitions returns every deployed case ordered by case ID and version
	FindAllCaseDefinitions(ctx context.Context) ([]runtime.DeployedCaseDefinition, error)
}

type CaseDefinitionStorageWriter interface {
	// SaveCaseDefinition persists a DeployedCaseDefinition
	// and potentially overwrites prior data stored with the given key
	SaveCaseDefinition(ctx context.Context, definition runtime.DeployedCaseDefinition) error
}
