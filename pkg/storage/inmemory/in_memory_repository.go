package inmemory

import (
	"cmp"
	"context"
	"math/rand"
	"slices"
	"sync"

	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
	"github.com/pbinitiative/zencmmn/pkg/storage"
)

// Storage keeps case definitions in memory,
// please use NewStorage to create a new object of this type.
type Storage struct {
	mu              sync.RWMutex
	CaseDefinitions map[int64]runtime.DeployedCaseDefinition
}

func (mem *Storage) GenerateId() int64 {
	return rand.Int63()
}

func NewStorage() *Storage {
	return &Storage{
		CaseDefinitions: make(map[int64]runtime.DeployedCaseDefinition),
	}
}

var _ storage.Storage = &Storage{}

var _ storage.CaseDefinitionStorageReader = &Storage{}

func (mem *Storage) FindLatestCaseDefinitionById(ctx context.Context, caseId string) (runtime.DeployedCaseDefinition, error) {
	mem.mu.RLock()
	defer mem.mu.RUnlock()

	var res runtime.DeployedCaseDefinition
	found := false
	for _, def := range mem.CaseDefinitions {
		if def.CaseId != caseId {
			continue
		}
		if found && def.Version < res.Version {
			continue
		}
		found = true
		res = def
	}
	if !found {
		return res, storage.ErrNotFound
	}
	return res, nil
}

func (mem *Storage) FindCaseDefinitionByKey(ctx context.Context, caseDefinitionKey int64) (runtime.DeployedCaseDefinition, error) {
	mem.mu.RLock()
	defer mem.mu.RUnlock()

	res, ok := mem.CaseDefinitions[caseDefinitionKey]
	if !ok {
		return res, storage.ErrNotFound
	}
	return res, nil
}

func (mem *Storage) FindCaseDefinitionsById(ctx context.Context, caseId string) ([]runtime.DeployedCaseDefinition, error) {
	mem.mu.RLock()
	defer mem.mu.RUnlock()

	res := make([]runtime.DeployedCaseDefinition, 0)
	for _, def := range mem.CaseDefinitions {
		if def.CaseId != caseId {
			continue
		}
		res = append(res, def)
	}
	slices.SortFunc(res, func(a, b runtime.DeployedCaseDefinition) int {
		return cmp.Compare(a.Version, b.Version)
	})
	return res, nil
}

func (mem *Storage) FindAllCaseDefinitions(ctx context.Context) ([]runtime.DeployedCaseDefinition, error) {
	mem.mu.RLock()
	defer mem.mu.RUnlock()

	res := make([]runtime.DeployedCaseDefinition, 0, len(mem.CaseDefinitions))
	for _, def := range mem.CaseDefinitions {
		res = append(res, def)
	}
	slices.SortFunc(res, func(a, b runtime.DeployedCaseDefinition) int {
		return cmp.Or(cmp.Compare(a.CaseId, b.CaseId), cmp.Compare(a.Version, b.Version))
	})
	return res, nil
}

var _ storage.CaseDefinitionStorageWriter = &Storage{}

func (mem *Storage) SaveCaseDefinition(ctx context.Context, definition runtime.DeployedCaseDefinition) error {
	mem.mu.Lock()
	defer mem.mu.Unlock()

	mem.CaseDefinitions[definition.Key] = definition
	return nil
}
