package diagnose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeNoLogGroup(t *testing.T) {
	finding := Analyze("", "")

	assert.False(t, finding.Found)
	assert.Empty(t, finding.Articles)
	assert.Equal(t, "No log group was found for the API.", finding.Message)
}

func TestAnalyzeNoMatch(t *testing.T) {
	logs := strings.Join([]string{
		"(9f3b4a2c-0001-4a2b-8c3d-112233445566) Starting execution for request",
		"(9f3b4a2c-0001-4a2b-8c3d-112233445566) Method completed with status: 200",
	}, "\n")

	finding := Analyze(logs, "")

	assert.False(t, finding.Found)
	assert.Empty(t, finding.Articles)
	assert.Equal(t, "No error were found in the log group during the time range provided.", finding.Message)
}

func TestAnalyzeConfigurationError(t *testing.T) {
	logs := "(9f3b4a2c-0001-4a2b-8c3d-112233445566) Execution failed due to configuration error: " +
		"Invalid permissions on Lambda function"

	finding := Analyze(logs, "")

	require.True(t, finding.Found)
	assert.Equal(t, "integration-configuration-error", finding.PatternName)
	assert.Equal(t, []string{"https://repost.aws/knowledge-center/api-gateway-500-error-vpc"}, finding.Articles)
	assert.Contains(t, finding.Message, "Found the following error:")
	assert.Contains(t, finding.Message, "api-gateway-500-error-vpc")
}

func TestAnalyzeInvalidEndpointBeatsGenericConfigurationError(t *testing.T) {
	// Both the specific and the generic "configuration error" signatures
	// match this line; the specific one sits earlier in the table.
	logs := "Execution failed due to configuration error: Invalid endpoint address"

	finding := Analyze(logs, "")

	require.True(t, finding.Found)
	assert.Equal(t, "invalid-endpoint-address", finding.PatternName)
	assert.Equal(t, []string{"https://repost.aws/knowledge-center/api-gateway-invalid-endpoint-address"}, finding.Articles)
}

func TestAnalyzeFirstMatchInTableOrderWins(t *testing.T) {
	// The timeout signature precedes the Forbidden signature even though
	// the Forbidden record comes first in the log stream.
	logs := strings.Join([]string{
		"(9f3b4a2c-0001-4a2b-8c3d-112233445566) Forbidden",
		"(9f3b4a2c-0002-4a2b-8c3d-112233445566) Execution failed due to a timeout error",
	}, "\n")

	finding := Analyze(logs, "")

	require.True(t, finding.Found)
	assert.Equal(t, "integration-timeout", finding.PatternName)
}

func TestAnalyzeMultipleArticles(t *testing.T) {
	finding := Analyze("(9f3b4a2c-0001-4a2b-8c3d-112233445566) Missing Authentication Token", "")

	require.True(t, finding.Found)
	require.Len(t, finding.Articles, 2)
	// The original runbook joins articles with "\n- ", leaving the first
	// one unprefixed.
	assert.Contains(t, finding.Message,
		"https://repost.aws/knowledge-center/api-gateway-authentication-token-errors\n"+
			"- https://repost.aws/knowledge-center/api-gateway-troubleshoot-403-forbidden")
}

func TestAnalyzeRedacts401Line(t *testing.T) {
	logs := "(9f3b4a2c-0001-4a2b-8c3d-112233445566) Authorizer error for token eyJhbGci: 401 Unauthorized from authorizer"

	finding := Analyze(logs, "")

	require.True(t, finding.Found)
	assert.Equal(t, "401-unauthorized", finding.PatternName)
	assert.Equal(t,
		"(9f3b4a2c-0001-4a2b-8c3d-112233445566) 401 Unauthorized [sensitive information has been redacted]",
		finding.LogLine)
	assert.NotContains(t, finding.Message, "eyJhbGci")
}

func TestAnalyzeRedactionWithoutRequestID(t *testing.T) {
	// A redacting signature whose line carries no request id gets fully
	// replaced rather than leaked.
	finding := Analyze("some proxy said 401 Unauthorized today", "")

	require.True(t, finding.Found)
	assert.Equal(t, "[sensitive information has been redacted]", finding.LogLine)
}

func TestAnalyzeAppendsAccessLogNote(t *testing.T) {
	finding := Analyze("(9f3b4a2c-0001-4a2b-8c3d-112233445566) Forbidden", AccessLog5XXNote)

	require.True(t, finding.Found)
	assert.Equal(t, AccessLog5XXNote, finding.AccessLogNote)
	assert.True(t, strings.HasSuffix(finding.Message, AccessLog5XXNote))
}

func TestAnalyzeAccessLogNoteWithoutMatch(t *testing.T) {
	finding := Analyze("all good here", AccessLog5XXNote)

	assert.False(t, finding.Found)
	assert.True(t, strings.HasSuffix(finding.Message, AccessLog5XXNote))
}
