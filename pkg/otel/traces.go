package otel

const (
	Prefix                     = "cmmn-"
	AttributeCaseId            = Prefix + "case-id"
	AttributeCaseDefinitionKey = Prefix + "definition-key"
	AttributeResourceName      = Prefix + "resource-name"
	AttributeActivityCount     = Prefix + "activity-count"
	AttributeSentryCount       = Prefix + "sentry-count"
)
