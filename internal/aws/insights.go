package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwltypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"gwprobe/pkg/types"
)

// Poll interval grows by this factor between GetQueryResults calls
const backoffRate = 1.5

const initialPollInterval = time.Second

// LogsAPI is the subset of CloudWatch Logs the query runner needs.
// Satisfied by *cloudwatchlogs.Client.
type LogsAPI interface {
	StartQuery(ctx context.Context, params *cloudwatchlogs.StartQueryInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.StartQueryOutput, error)
	GetQueryResults(ctx context.Context, params *cloudwatchlogs.GetQueryResultsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetQueryResultsOutput, error)
}

// QueryRunner executes Logs Insights queries and polls for results
type QueryRunner struct {
	logs LogsAPI

	// sleep is swappable so tests can observe backoff without waiting
	sleep func(ctx context.Context, d time.Duration) error
}

// NewQueryRunner creates a QueryRunner over the given Logs client
func NewQueryRunner(logs LogsAPI) *QueryRunner {
	return &QueryRunner{
		logs:  logs,
		sleep: sleepContext,
	}
}

// Query starts a Logs Insights query and polls until it reaches a
// terminal state. The first result field of every row is joined with
// newlines. found is false when the log group does not exist, which is
// a normal negative outcome rather than an error.
func (r *QueryRunner) Query(ctx context.Context, q types.LogQuery) (string, bool, error) {
	start, err := r.logs.StartQuery(ctx, &cloudwatchlogs.StartQueryInput{
		LogGroupName: &q.LogGroup,
		QueryString:  &q.QueryString,
		StartTime:    aws.Int64(q.Start.Unix()),
		EndTime:      aws.Int64(q.End.Unix()),
	})
	if err != nil {
		var rnf *cwltypes.ResourceNotFoundException
		if errors.As(err, &rnf) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to start logs insights query on %s: %w", q.LogGroup, err)
	}

	out, err := r.logs.GetQueryResults(ctx, &cloudwatchlogs.GetQueryResultsInput{
		QueryId: start.QueryId,
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to get query results: %w", err)
	}

	wait := initialPollInterval
	for out.Status == cwltypes.QueryStatusScheduled || out.Status == cwltypes.QueryStatusRunning {
		if err := r.sleep(ctx, wait); err != nil {
			return "", false, err
		}
		wait = time.Duration(float64(wait) * backoffRate)

		out, err = r.logs.GetQueryResults(ctx, &cloudwatchlogs.GetQueryResultsInput{
			QueryId: start.QueryId,
		})
		if err != nil {
			return "", false, fmt.Errorf("failed to get query results: %w", err)
		}
	}

	if !q.Tolerant {
		switch out.Status {
		case cwltypes.QueryStatusComplete:
		case cwltypes.QueryStatusTimeout:
			return "", false, fmt.Errorf("query on %s: %w", q.LogGroup, types.ErrQueryTimeout)
		default:
			return "", false, fmt.Errorf("query on %s finished with status %s: %w", q.LogGroup, out.Status, types.ErrQueryFailed)
		}
	}

	var lines []string
	for _, row := range out.Results {
		if len(row) > 0 {
			lines = append(lines, deref(row[0].Value))
		}
	}
	return strings.Join(lines, "\n"), true, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
