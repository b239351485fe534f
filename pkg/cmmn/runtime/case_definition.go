package runtime

// VariableOnPartDeclaration fires a sentry when a variable with the given
// name sees the given event.
type VariableOnPartDeclaration struct {
	VariableName string `json:"variableName"`
	Event        string `json:"event"`
}

type OnPartDeclaration struct {
	Id               string `json:"id,omitempty"`
	SourceActivityId string `json:"sourceActivityId,omitempty"`
	StandardEvent    string `json:"standardEvent"`
	ChainedSentryId  string `json:"chainedSentryId,omitempty"`
}

type SentryDeclaration struct {
	Id              string                      `json:"id"`
	Condition       string                      `json:"condition,omitempty"`
	OnParts         []*OnPartDeclaration        `json:"onParts"`
	VariableOnParts []VariableOnPartDeclaration `json:"variableOnParts,omitempty"`
}

// CaseDefinition is the compiled graph of one case.
type CaseDefinition struct {
	Id   string    `json:"id"`
	Name string    `json:"name,omitempty"`
	Root *Activity `json:"root"`
	// Sentries of all stages, by sentry id
	Sentries map[string]*SentryDeclaration `json:"sentries"`
	// Activities of the whole tree including the root, by activity id
	Activities map[string]*Activity `json:"-"`
}

func NewCaseDefinition(id string, name string) *CaseDefinition {
	return &CaseDefinition{
		Id:         id,
		Name:       name,
		Sentries:   map[string]*SentryDeclaration{},
		Activities: map[string]*Activity{},
	}
}

func (c *CaseDefinition) GetActivity(id string) *Activity {
	return c.Activities[id]
}

func (c *CaseDefinition) GetSentry(id string) *SentryDeclaration {
	return c.Sentries[id]
}

// DeployedCaseDefinition is a stored, versioned case definition.
type DeployedCaseDefinition struct {
	Key          int64
	Version      int32
	CaseId       string
	ResourceName string
	Checksum     [16]byte
	// Data holds the compressed and encoded source document
	Data       string
	Definition *CaseDefinition
}
