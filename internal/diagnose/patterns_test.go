package diagnose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownErrorsTableShape(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range KnownErrors {
		assert.NotEmpty(t, p.Name)
		assert.False(t, seen[p.Name], "duplicate pattern name %s", p.Name)
		seen[p.Name] = true

		require.NotNil(t, p.Pattern, p.Name)
		assert.NotEmpty(t, p.Articles, p.Name)
		for _, article := range p.Articles {
			assert.Contains(t, article, "https://repost.aws/knowledge-center/", p.Name)
		}

		if p.Redact {
			assert.NotNil(t, p.RedactedPattern, p.Name)
		}
	}
}

func TestKnownErrorsSignatureMatches(t *testing.T) {
	tests := []struct {
		logLine string
		want    string
	}{
		{"Network error communicating with endpoint", "network-endpoint-error"},
		{"network error communicating with endpoint", "network-endpoint-error"},
		{"Execution failed due to a timeout error", "integration-timeout"},
		{"Malformed Lambda proxy response", "malformed-lambda-proxy-response"},
		{"Lambda invocation failed with status: 429", "lambda-throttled"},
		{"User: arn:aws:iam::111122223333:user/dev is not authorized to perform: execute-api:Invoke on resource", "execute-api-invoke-denied"},
		{"The security token included in the request is invalid.", "invalid-security-token"},
		{"Signature expired: 20260829T000000Z", "signature-expired"},
		{"Invalid API Key identifier specified", "invalid-api-key"},
		{"The request signature we calculated does not match the signature you provided.", "signature-mismatch"},
		{"Method completed with status: 502", "502-malformed-response"},
		{"Authorization header requires 'Credential' parameter", "authorization-header-requires"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			finding := Analyze(tt.logLine, "")
			require.True(t, finding.Found, "no match for %q", tt.logLine)
			assert.Equal(t, tt.want, finding.PatternName)
		})
	}
}

func TestKnownErrorsGenericForbiddenIsLastResort(t *testing.T) {
	// "not authorized to access this resource" also contains no
	// "Forbidden" text, but an explicit-deny line matches the earlier
	// execute-api signature before the bare Forbidden catch-all.
	finding := Analyze("(9f3b4a2c-0001-4a2b-8c3d-112233445566) User is not authorized to access this resource", "")
	require.True(t, finding.Found)
	assert.Equal(t, "resource-access-denied", finding.PatternName)

	finding = Analyze("(9f3b4a2c-0001-4a2b-8c3d-112233445566) Forbidden", "")
	require.True(t, finding.Found)
	assert.Equal(t, "forbidden", finding.PatternName)
}
