package runtime

import (
	"time"

	"github.com/senseyeio/duration"
)

type Binding string

const (
	BindingLatest     Binding = "latest"
	BindingDeployment Binding = "deployment"
	BindingVersion    Binding = "version"
)

type ParameterMapping struct {
	AllVariables bool          `json:"allVariables"`
	Local        bool          `json:"local,omitempty"`
	Source       ValueProvider `json:"source,omitempty"`
	Target       string        `json:"target,omitempty"`
}

// CallableElement describes the invocation of another case, process or decision definition.
type CallableElement struct {
	DefinitionKey ValueProvider      `json:"definitionKey"`
	Binding       Binding            `json:"binding"`
	Version       ValueProvider      `json:"version,omitempty"`
	TenantId      ValueProvider      `json:"tenantId,omitempty"`
	BusinessKey   ValueProvider      `json:"businessKey,omitempty"`
	Inputs        []ParameterMapping `json:"inputs"`
	Outputs       []ParameterMapping `json:"outputs"`
}

type ResultMapping string

const (
	ResultMappingSingle ResultMapping = "single"
	ResultMappingList   ResultMapping = "list"
)

type TimerType string

const (
	TimerTypeCycle    TimerType = "cycle"
	TimerTypeDuration TimerType = "duration"
	TimerTypeDate     TimerType = "date"
)

// TimerJobDescriptor is the compiled timer expression of a timer event listener.
// Period and Date are only set for constant expressions.
type TimerJobDescriptor struct {
	Type       TimerType          `json:"type"`
	Expression ValueProvider      `json:"expression"`
	Period     *duration.Duration `json:"period,omitempty"`
	// Repetitions of a cycle, -1 repeats forever
	Repetitions int        `json:"repetitions,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}
