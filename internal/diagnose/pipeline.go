package diagnose

import (
	"context"
	"fmt"
	"strings"

	"gwprobe/pkg/types"
)

// Execution log group layout for REST APIs
const executionLogGroupFormat = "API-Gateway-Execution-Logs_%s/%s"

// Insights query strings, matching what the hosted runbook runs
const (
	defaultQuery   = "fields @message | sort @timestamp desc"
	requestIDQuery = `fields @message | parse @message "(*) *" as rid, msg | filter rid = "%s" | sort @timestamp desc`
	accessLogQuery = `fields @message | filter status like "5" | sort @timestamp desc`
)

// GatewayChecker runs the existence checks. Implemented by aws.Gateway.
type GatewayChecker interface {
	CheckAPI(ctx context.Context, apiID string) (types.APICheck, error)
	CheckStage(ctx context.Context, apiID, stageName string) (types.StageCheck, error)
	CheckResource(ctx context.Context, apiID, resourcePath string) (types.ResourceCheck, error)
	CheckMethod(ctx context.Context, apiID, resourceID, httpMethod string) (types.MethodCheck, error)
}

// LogQuerier runs Logs Insights queries. Implemented by aws.QueryRunner.
type LogQuerier interface {
	Query(ctx context.Context, q types.LogQuery) (result string, found bool, err error)
}

// Params are the inputs of one diagnose run. ResourcePath and
// HTTPMethod are optional; when absent the corresponding verifier is
// skipped, mirroring the runbook's optional steps.
type Params struct {
	APIID        string
	StageName    string
	ResourcePath string
	HTTPMethod   string

	RequestID      string // narrow the execution log query to one request
	LogGroup       string // override the derived execution log group
	AccessLogGroup string // override the stage's access log destination

	Window Window
}

// Pipeline chains the verifiers and the log analyzer, stopping at the
// first failed precondition
type Pipeline struct {
	gateway GatewayChecker
	logs    LogQuerier
}

// NewPipeline creates a Pipeline over the given checker and querier
func NewPipeline(gateway GatewayChecker, logs LogQuerier) *Pipeline {
	return &Pipeline{gateway: gateway, logs: logs}
}

// Run executes the verification chain top to bottom: API, stage,
// resource (when a path is given), method (when a method is given),
// then the log scan. The first failed check halts the run with its
// typed error; later steps never execute.
func (p *Pipeline) Run(ctx context.Context, params Params) (*types.Report, error) {
	report := &types.Report{
		Start: params.Window.Start,
		End:   params.Window.End,
	}

	api, err := p.gateway.CheckAPI(ctx, params.APIID)
	if err != nil {
		return nil, err
	}
	report.API = api
	if !api.Authorized {
		return nil, fmt.Errorf("checking rest api %s: %w", params.APIID, types.ErrUnauthorized)
	}
	if !api.Exists {
		return nil, fmt.Errorf("rest api %s: %w", params.APIID, types.ErrAPINotFound)
	}

	stage, err := p.gateway.CheckStage(ctx, params.APIID, params.StageName)
	if err != nil {
		return nil, err
	}
	report.Stage = stage
	if !stage.Authorized {
		return nil, fmt.Errorf("checking stage %s: %w", params.StageName, types.ErrUnauthorized)
	}
	if !stage.Exists {
		return nil, fmt.Errorf("stage %s of rest api %s: %w", params.StageName, params.APIID, types.ErrStageNotFound)
	}

	resourceID := ""
	if params.ResourcePath != "" {
		resource, err := p.gateway.CheckResource(ctx, params.APIID, params.ResourcePath)
		if err != nil {
			return nil, err
		}
		report.Resource = &resource
		if !resource.Authorized {
			return nil, fmt.Errorf("checking resource %s: %w", params.ResourcePath, types.ErrUnauthorized)
		}
		if !resource.Exists {
			return nil, fmt.Errorf("resource %s of rest api %s: %w", params.ResourcePath, params.APIID, types.ErrResourceNotFound)
		}
		resourceID = resource.ResourceID
	}

	if params.HTTPMethod != "" {
		if resourceID == "" {
			return nil, fmt.Errorf("method check requires a resource path")
		}
		method, err := p.gateway.CheckMethod(ctx, params.APIID, resourceID, params.HTTPMethod)
		if err != nil {
			return nil, err
		}
		report.Method = &method
		if !method.Authorized {
			return nil, fmt.Errorf("checking method %s: %w", params.HTTPMethod, types.ErrUnauthorized)
		}
		if !method.Exists {
			return nil, fmt.Errorf("method %s on %s: %w", params.HTTPMethod, params.ResourcePath, types.ErrMethodNotFound)
		}
	}

	accessLogNote, err := p.scanAccessLogs(ctx, params, stage)
	if err != nil {
		return nil, err
	}

	report.LogGroup = params.LogGroup
	if report.LogGroup == "" {
		report.LogGroup = fmt.Sprintf(executionLogGroupFormat, params.APIID, params.StageName)
	}

	query := defaultQuery
	if params.RequestID != "" {
		query = fmt.Sprintf(requestIDQuery, params.RequestID)
	}

	records, found, err := p.logs.Query(ctx, types.LogQuery{
		LogGroup:    report.LogGroup,
		QueryString: query,
		Start:       params.Window.Start,
		End:         params.Window.End,
	})
	if err != nil {
		return nil, err
	}
	if !found {
		records = ""
	}

	report.Finding = Analyze(records, accessLogNote)
	return report, nil
}

// scanAccessLogs runs the best-effort 5XX scan over the stage's access
// log group, when one is configured. Failures of this query are
// tolerated; a missing group is a normal empty result.
func (p *Pipeline) scanAccessLogs(ctx context.Context, params Params, stage types.StageCheck) (string, error) {
	group := params.AccessLogGroup
	if group == "" && stage.AccessLogGroup != "" {
		// The stage stores a destination ARN; the group name is its
		// final segment.
		parts := strings.Split(stage.AccessLogGroup, ":")
		group = parts[len(parts)-1]
	}
	if group == "" {
		return "", nil
	}

	records, found, err := p.logs.Query(ctx, types.LogQuery{
		LogGroup:    group,
		QueryString: accessLogQuery,
		Start:       params.Window.Start,
		End:         params.Window.End,
		Tolerant:    true,
	})
	if err != nil {
		return "", err
	}
	if found && records != "" {
		return AccessLog5XXNote, nil
	}
	return "", nil
}
