package rest

import (
	"encoding/hex"
	"strconv"

	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
)

// CaseDefinitionSimple describes one deployed version of a case.
type CaseDefinitionSimple struct {
	// Key is rendered as a string, javascript clients cannot hold all int64 values
	Key          string `json:"key"`
	Version      int32  `json:"version"`
	CaseId       string `json:"caseId"`
	Name         string `json:"name,omitempty"`
	ResourceName string `json:"resourceName"`
	Checksum     string `json:"checksum"`
}

type CaseDefinitionDetail struct {
	CaseDefinitionSimple
	ActivityCount int                     `json:"activityCount"`
	SentryCount   int                     `json:"sentryCount"`
	Definition    *runtime.CaseDefinition `json:"definition"`
}

type CaseDefinitionsPage struct {
	Items []CaseDefinitionSimple `json:"items"`
	Count int                    `json:"count"`
}

type DeploymentResult struct {
	CorrelationId   string                 `json:"correlationId"`
	CaseDefinitions []CaseDefinitionSimple `json:"caseDefinitions"`
}

type Status struct {
	Name            string `json:"name"`
	CaseDefinitions int    `json:"caseDefinitions"`
}

func toCaseDefinitionSimple(deployed runtime.DeployedCaseDefinition) CaseDefinitionSimple {
	result := CaseDefinitionSimple{
		Key:          strconv.FormatInt(deployed.Key, 10),
		Version:      deployed.Version,
		CaseId:       deployed.CaseId,
		ResourceName: deployed.ResourceName,
		Checksum:     hex.EncodeToString(deployed.Checksum[:]),
	}
	if deployed.Definition != nil {
		result.Name = deployed.Definition.Name
	}
	return result
}

func toCaseDefinitionDetail(deployed runtime.DeployedCaseDefinition) CaseDefinitionDetail {
	result := CaseDefinitionDetail{
		CaseDefinitionSimple: toCaseDefinitionSimple(deployed),
		Definition:           deployed.Definition,
	}
	if deployed.Definition != nil {
		result.ActivityCount = len(deployed.Definition.Activities)
		result.SentryCount = len(deployed.Definition.Sentries)
	}
	return result
}

func toCaseDefinitionsPage(deployed []runtime.DeployedCaseDefinition) CaseDefinitionsPage {
	items := make([]CaseDefinitionSimple, len(deployed))
	for i := range deployed {
		items[i] = toCaseDefinitionSimple(deployed[i])
	}
	return CaseDefinitionsPage{Items: items, Count: len(items)}
}
