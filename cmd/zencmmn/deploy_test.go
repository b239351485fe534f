package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pbinitiative/zencmmn/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderDocument = `<definitions id="Definitions_Order"><case id="Case_Order"><casePlanModel id="Plan_Order"/></case></definitions>`

const brokenDocument = `<definitions id="Broken"><case id="Case_Broken"><casePlanModel id="Plan_Broken"><planItem id="PI_1" definitionRef="Missing"/></casePlanModel></case></definitions>`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func Test_deploy_directory_deploys_cmmn_files(t *testing.T) {
	// given
	dir := writeFiles(t, map[string]string{
		"order.cmmn": orderDocument,
		"notes.txt":  "not a case definition",
	})
	engine, err := newEngine(config.Config{Name: "deploy-test", Compiler: config.Compiler{DefinitionCacheSize: 8}})
	require.NoError(t, err)

	// when
	deployed, err := deployDirectory(t.Context(), engine, dir)

	// then
	require.NoError(t, err)
	require.Len(t, deployed, 1)
	assert.Equal(t, "Case_Order", deployed[0].CaseId)
	assert.Equal(t, "order.cmmn", deployed[0].ResourceName)
	latest, err := engine.FindLatestCaseDefinitionById(t.Context(), "Case_Order")
	require.NoError(t, err)
	assert.Equal(t, deployed[0].Key, latest.Key)
}

func Test_deploy_directory_continues_after_failure(t *testing.T) {
	// given
	dir := writeFiles(t, map[string]string{
		"a-broken.cmmn": brokenDocument,
		"b-order.cmmn":  orderDocument,
	})
	engine, err := newEngine(config.Config{Name: "deploy-test", Compiler: config.Compiler{DefinitionCacheSize: 8}})
	require.NoError(t, err)

	// when
	deployed, err := deployDirectory(t.Context(), engine, dir)

	// then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a-broken.cmmn")
	require.Len(t, deployed, 1)
	assert.Equal(t, "Case_Order", deployed[0].CaseId)
}

func Test_deploy_empty_directory(t *testing.T) {
	// given
	engine, err := newEngine(config.Config{Name: "deploy-test", Compiler: config.Compiler{DefinitionCacheSize: 8}})
	require.NoError(t, err)

	// when
	deployed, err := deployDirectory(t.Context(), engine, t.TempDir())

	// then
	assert.NoError(t, err)
	assert.Empty(t, deployed)
}
