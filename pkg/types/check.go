package types

// JSON field names match the step outputs consumed by the automation
// document, so the CLI can stand in for the hosted runbook scripts.

// APICheck is the result of verifying a REST API id
type APICheck struct {
	APIID      string `json:"RestApiId"`
	Exists     bool   `json:"ApiExists"`
	Authorized bool   `json:"Authorized"`
}

// StageCheck is the result of verifying a deployment stage
type StageCheck struct {
	APIID          string `json:"RestApiId"`
	StageName      string `json:"StageName"`
	Exists         bool   `json:"StageExists"`
	Authorized     bool   `json:"Authorized"`
	AccessLogGroup string `json:"AccessLogGroup,omitempty"` // destination ARN from the stage's access log settings
}

// ResourceCheck is the result of verifying a resource path
type ResourceCheck struct {
	APIID      string `json:"RestApiId"`
	Path       string `json:"ResourcePath"`
	Exists     bool   `json:"ResourceExists"`
	Authorized bool   `json:"Authorized"`
	ResourceID string `json:"ResourceId,omitempty"`
}

// MethodCheck is the result of verifying an HTTP method on a resource
type MethodCheck struct {
	APIID      string `json:"RestApiId"`
	ResourceID string `json:"ResourceId"`
	Method     string `json:"HttpMethod"`
	Exists     bool   `json:"MethodExists"`
	Authorized bool   `json:"Authorized"`
}

// RestAPI is a REST API summary used by listing and selection
type RestAPI struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedDate string `json:"createdDate,omitempty"`
}
