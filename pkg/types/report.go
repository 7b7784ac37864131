package types

import "time"

// LogQuery describes a single Logs Insights query
type LogQuery struct {
	LogGroup    string    `json:"logGroup"`
	QueryString string    `json:"queryString"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`

	// Tolerant queries treat a failed or timed-out query as an empty
	// result instead of an error. Used for the access log scan, which
	// is best-effort.
	Tolerant bool `json:"-"`
}

// Finding is the outcome of matching log records against the known
// error pattern table
type Finding struct {
	Found         bool     `json:"found"`
	PatternName   string   `json:"patternName,omitempty"`
	LogLine       string   `json:"logLine,omitempty"`
	Articles      []string `json:"articles,omitempty"`
	AccessLogNote string   `json:"accessLogNote,omitempty"`
	Message       string   `json:"message"`
}

// Report is the full output of a diagnose run
type Report struct {
	API      APICheck       `json:"api"`
	Stage    StageCheck     `json:"stage"`
	Resource *ResourceCheck `json:"resource,omitempty"`
	Method   *MethodCheck   `json:"method,omitempty"`

	LogGroup string    `json:"logGroup"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`

	Finding Finding `json:"finding"`
}
