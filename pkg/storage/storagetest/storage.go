package storagetest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	stdruntime "runtime"

	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
	"github.com/pbinitiative/zencmmn/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type StorageTestFunc func(s storage.Storage, t *testing.T) func(t *testing.T)

// StorageTester runs the same checks against every storage implementation.
type StorageTester struct {
	caseDefinition runtime.DeployedCaseDefinition
}

func (st *StorageTester) GetTests() map[string]StorageTestFunc {
	tests := map[string]StorageTestFunc{}

	// all test functions need to be registered here
	functions := []StorageTestFunc{
		st.TestCaseDefinitionStorageWriter,
		st.TestCaseDefinitionStorageReader,
		st.TestCaseDefinitionVersions,
		st.TestCaseDefinitionNotFound,
	}

	for _, function := range functions {
		funcName := getFunctionName(function)
		strippedName := funcName[strings.LastIndex(funcName, ".")+1:]
		// method values carry a -fm suffix
		strippedName = strings.TrimSuffix(strippedName, "-fm")
		tests[strippedName] = function
	}
	return tests
}

func getFunctionName(i any) string {
	return stdruntime.FuncForPC(reflect.ValueOf(i).Pointer()).Name()
}

func getCaseDefinition(r int64, version int32) runtime.DeployedCaseDefinition {
	caseId := fmt.Sprintf("id-%d", r)
	return runtime.DeployedCaseDefinition{
		Key:          r,
		Version:      version,
		CaseId:       caseId,
		ResourceName: fmt.Sprintf("resource-%d.cmmn", r),
		Checksum:     [16]byte{byte(version)},
		Data:         fmt.Sprintf("case-%d", r),
		Definition:   runtime.NewCaseDefinition(caseId, "aName"),
	}
}

// PrepareTestData will prepare common data for the tests
func (st *StorageTester) PrepareTestData(s storage.Storage, t *testing.T) {
	st.caseDefinition = getCaseDefinition(s.GenerateId(), 1)
	err := s.SaveCaseDefinition(t.Context(), st.caseDefinition)
	assert.NoError(t, err)
}

func (st *StorageTester) TestCaseDefinitionStorageWriter(s storage.Storage, t *testing.T) func(t *testing.T) {
	return func(t *testing.T) {
		r := s.GenerateId()

		def := getCaseDefinition(r, 1)

		err := s.SaveCaseDefinition(t.Context(), def)
		assert.NoError(t, err)

		definition, err := s.FindCaseDefinitionByKey(t.Context(), r)
		assert.NoError(t, err)
		assert.Equal(t, def, definition)
	}
}

func (st *StorageTester) TestCaseDefinitionStorageReader(s storage.Storage, t *testing.T) func(t *testing.T) {
	return func(t *testing.T) {
		definition, err := s.FindLatestCaseDefinitionById(t.Context(), st.caseDefinition.CaseId)
		assert.NoError(t, err)
		assert.Equal(t, st.caseDefinition.Key, definition.Key)

		definition, err = s.FindCaseDefinitionByKey(t.Context(), st.caseDefinition.Key)
		assert.NoError(t, err)
		assert.Equal(t, st.caseDefinition.CaseId, definition.CaseId)

		definitions, err := s.FindCaseDefinitionsById(t.Context(), st.caseDefinition.CaseId)
		assert.NoError(t, err)
		assert.Len(t, definitions, 1)
		assert.Equal(t, definitions[0].Key, definition.Key)

		all, err := s.FindAllCaseDefinitions(t.Context())
		assert.NoError(t, err)
		assert.Contains(t, all, st.caseDefinition)
	}
}

func (st *StorageTester) TestCaseDefinitionVersions(s storage.Storage, t *testing.T) func(t *testing.T) {
	return func(t *testing.T) {
		r := s.GenerateId()
		caseId := fmt.Sprintf("versioned-%d", r)
		for _, version := range []int32{2, 3, 1} {
			def := getCaseDefinition(s.GenerateId(), version)
			def.CaseId = caseId
			require.NoError(t, s.SaveCaseDefinition(t.Context(), def))
		}

		definitions, err := s.FindCaseDefinitionsById(t.Context(), caseId)
		assert.NoError(t, err)
		require.Len(t, definitions, 3)
		for i, definition := range definitions {
			assert.Equal(t, int32(i+1), definition.Version)
		}

		latest, err := s.FindLatestCaseDefinitionById(t.Context(), caseId)
		assert.NoError(t, err)
		assert.Equal(t, int32(3), latest.Version)
	}
}

func (st *StorageTester) TestCaseDefinitionNotFound(s storage.Storage, t *testing.T) func(t *testing.T) {
	return func(t *testing.T) {
		_, err := s.FindCaseDefinitionByKey(t.Context(), -1)
		assert.True(t, errors.Is(err, storage.ErrNotFound))

		_, err = s.FindLatestCaseDefinitionById(t.Context(), "does-not-exist")
		assert.True(t, errors.Is(err, storage.ErrNotFound))

		definitions, err := s.FindCaseDefinitionsById(t.Context(), "does-not-exist")
		assert.NoError(t, err)
		assert.NotNil(t, definitions)
		assert.Empty(t, definitions)
	}
}
