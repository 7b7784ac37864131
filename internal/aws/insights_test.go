package aws

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwltypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gwprobe/pkg/types"
)

type fakeLogs struct {
	startErr error

	// one GetQueryResults response per poll, consumed in order
	polls []*cloudwatchlogs.GetQueryResultsOutput
	calls int

	started *cloudwatchlogs.StartQueryInput
}

func (f *fakeLogs) StartQuery(ctx context.Context, params *cloudwatchlogs.StartQueryInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.StartQueryOutput, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.started = params
	return &cloudwatchlogs.StartQueryOutput{QueryId: strPtr("q-001")}, nil
}

func (f *fakeLogs) GetQueryResults(ctx context.Context, params *cloudwatchlogs.GetQueryResultsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetQueryResultsOutput, error) {
	out := f.polls[f.calls]
	f.calls++
	return out, nil
}

func resultRow(message string) []cwltypes.ResultField {
	return []cwltypes.ResultField{{Field: strPtr("@message"), Value: strPtr(message)}}
}

func testQuery() types.LogQuery {
	end := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	return types.LogQuery{
		LogGroup:    "API-Gateway-Execution-Logs_abc123/prod",
		QueryString: "fields @message | sort @timestamp desc",
		Start:       end.Add(-15 * time.Minute),
		End:         end,
	}
}

// newTestRunner swaps the poll sleep for a recorder
func newTestRunner(logs LogsAPI) (*QueryRunner, *[]time.Duration) {
	runner := NewQueryRunner(logs)
	var sleeps []time.Duration
	runner.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return runner, &sleeps
}

func TestQueryPollsWithBackoff(t *testing.T) {
	logs := &fakeLogs{polls: []*cloudwatchlogs.GetQueryResultsOutput{
		{Status: cwltypes.QueryStatusRunning},
		{Status: cwltypes.QueryStatusRunning},
		{Status: cwltypes.QueryStatusComplete, Results: [][]cwltypes.ResultField{
			resultRow("line one"),
			resultRow("line two"),
		}},
	}}

	runner, sleeps := newTestRunner(logs)
	result, found, err := runner.Query(context.Background(), testQuery())
	require.NoError(t, err)

	assert.True(t, found)
	assert.Equal(t, "line one\nline two", result)
	assert.Equal(t, 3, logs.calls)

	// 1s, then 1.5x
	assert.Equal(t, []time.Duration{time.Second, 1500 * time.Millisecond}, *sleeps)
}

func TestQueryWaitsOutScheduledState(t *testing.T) {
	logs := &fakeLogs{polls: []*cloudwatchlogs.GetQueryResultsOutput{
		{Status: cwltypes.QueryStatusScheduled},
		{Status: cwltypes.QueryStatusComplete},
	}}

	runner, _ := newTestRunner(logs)
	result, found, err := runner.Query(context.Background(), testQuery())
	require.NoError(t, err)

	assert.True(t, found)
	assert.Empty(t, result)
}

func TestQueryTimeoutStatus(t *testing.T) {
	logs := &fakeLogs{polls: []*cloudwatchlogs.GetQueryResultsOutput{
		{Status: cwltypes.QueryStatusTimeout},
	}}

	runner, _ := newTestRunner(logs)
	_, _, err := runner.Query(context.Background(), testQuery())

	assert.ErrorIs(t, err, types.ErrQueryTimeout)
}

func TestQueryFailedStatus(t *testing.T) {
	logs := &fakeLogs{polls: []*cloudwatchlogs.GetQueryResultsOutput{
		{Status: cwltypes.QueryStatusFailed},
	}}

	runner, _ := newTestRunner(logs)
	_, _, err := runner.Query(context.Background(), testQuery())

	assert.ErrorIs(t, err, types.ErrQueryFailed)
}

func TestQueryTolerantIgnoresTerminalFailure(t *testing.T) {
	logs := &fakeLogs{polls: []*cloudwatchlogs.GetQueryResultsOutput{
		{Status: cwltypes.QueryStatusFailed},
	}}

	runner, _ := newTestRunner(logs)
	q := testQuery()
	q.Tolerant = true

	result, found, err := runner.Query(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, result)
}

func TestQueryLogGroupMissing(t *testing.T) {
	logs := &fakeLogs{
		startErr: &cwltypes.ResourceNotFoundException{Message: strPtr("log group does not exist")},
	}

	runner, _ := newTestRunner(logs)
	result, found, err := runner.Query(context.Background(), testQuery())
	require.NoError(t, err)

	assert.False(t, found)
	assert.Empty(t, result)
}

func TestQuerySendsUnixTimestamps(t *testing.T) {
	logs := &fakeLogs{polls: []*cloudwatchlogs.GetQueryResultsOutput{
		{Status: cwltypes.QueryStatusComplete},
	}}

	runner, _ := newTestRunner(logs)
	q := testQuery()
	_, _, err := runner.Query(context.Background(), q)
	require.NoError(t, err)

	require.NotNil(t, logs.started)
	assert.Equal(t, q.Start.Unix(), *logs.started.StartTime)
	assert.Equal(t, q.End.Unix(), *logs.started.EndTime)
	assert.Equal(t, q.LogGroup, *logs.started.LogGroupName)
}

func TestQueryCancelledContextStopsPolling(t *testing.T) {
	logs := &fakeLogs{polls: []*cloudwatchlogs.GetQueryResultsOutput{
		{Status: cwltypes.QueryStatusRunning},
	}}

	runner := NewQueryRunner(logs)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := runner.Query(ctx, testQuery())
	assert.ErrorIs(t, err, context.Canceled)
}
