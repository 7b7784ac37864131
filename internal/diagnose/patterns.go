package diagnose

import "regexp"

// ErrorPattern maps a known API Gateway error signature to the
// knowledge center articles that cover it. Patterns carrying caller
// identity details are redacted before the matched line is reported:
// the redaction pattern keeps the request id and the error marker and
// drops the rest of the line.
type ErrorPattern struct {
	Name     string
	Pattern  *regexp.Regexp
	Articles []string

	Redact          bool
	RedactedPattern *regexp.Regexp
}

// Request id prefix as it appears in execution log lines
const requestIDGroup = `(\([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\))`

// KnownErrors is the ordered signature table. Matching is
// first-match-wins in table order, so more specific signatures must
// stay ahead of the generic ones (the "configuration error" pair, 403
// variants before bare Forbidden).
var KnownErrors = []ErrorPattern{
	{
		Name:    "network-endpoint-error",
		Pattern: regexp.MustCompile(`(.*[Nn]etwork error communicating with endpoint.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-network-endpoint-error",
		},
	},
	{
		Name:    "invalid-endpoint-address",
		Pattern: regexp.MustCompile(`(.*Execution failed due to configuration error: Invalid endpoint address.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-invalid-endpoint-address",
		},
	},
	{
		Name:    "integration-timeout",
		Pattern: regexp.MustCompile(`(.*Execution failed due to a timeout error.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-lambda-integration-errors",
		},
	},
	{
		Name:    "malformed-lambda-proxy-response",
		Pattern: regexp.MustCompile(`(.*Malformed Lambda proxy response.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-lambda-integration-errors",
		},
	},
	{
		Name:    "lambda-throttled",
		Pattern: regexp.MustCompile(`(.*Lambda invocation failed with status: 429.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-lambda-integration-errors",
		},
	},
	{
		Name:    "401-unauthorized",
		Pattern: regexp.MustCompile(`.*401 Unauthorized.*`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-cognito-401-unauthorized",
			"https://repost.aws/knowledge-center/api-gateway-401-error-lambda-authorizer",
		},
		Redact:          true,
		RedactedPattern: regexp.MustCompile(requestIDGroup + `.*(401 Unauthorized).*`),
	},
	{
		Name:    "missing-authentication-token",
		Pattern: regexp.MustCompile(`(.*Missing Authentication Token.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-authentication-token-errors",
			"https://repost.aws/knowledge-center/api-gateway-troubleshoot-403-forbidden",
		},
	},
	{
		Name:    "execute-api-invoke-denied",
		Pattern: regexp.MustCompile(`(.*not authorized to perform: execute-api:Invoke on resource.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-403-error-lambda-authorizer",
			"https://repost.aws/knowledge-center/api-gateway-troubleshoot-403-forbidden",
		},
		Redact:          true,
		RedactedPattern: regexp.MustCompile(requestIDGroup + `.*(not authorized to perform: execute-api:Invoke on resource).*`),
	},
	{
		Name:    "resource-access-denied",
		Pattern: regexp.MustCompile(`(.*not authorized to access this resource.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-403-error-lambda-authorizer",
		},
		Redact:          true,
		RedactedPattern: regexp.MustCompile(requestIDGroup + `.*(not authorized to access this resource).*`),
	},
	{
		Name:    "anonymous-invoke-denied",
		Pattern: regexp.MustCompile(`(.*User: anonymous is not authorized to perform: execute-api:Invoke on resource.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-403-error-lambda-authorizer",
			"https://repost.aws/knowledge-center/api-gateway-troubleshoot-403-forbidden",
		},
		Redact:          true,
		RedactedPattern: regexp.MustCompile(requestIDGroup + `.*(not authorized to perform: execute-api:Invoke on resource).*`),
	},
	{
		Name:    "explicit-deny",
		Pattern: regexp.MustCompile(`(.*User is not authorized to access this resource with an explicit deny.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-troubleshoot-403-forbidden",
		},
		Redact:          true,
		RedactedPattern: regexp.MustCompile(requestIDGroup + `.*(not authorized to perform: execute-api:Invoke on resource).*`),
	},
	{
		Name:    "invalid-security-token",
		Pattern: regexp.MustCompile(`(.*The security token included in the request is invalid.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-troubleshoot-403-forbidden",
		},
	},
	{
		Name:    "signature-expired",
		Pattern: regexp.MustCompile(`(.*Signature expired.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-troubleshoot-403-forbidden",
		},
	},
	{
		Name:    "invalid-api-key",
		Pattern: regexp.MustCompile(`(.*Invalid API Key identifier specified.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-troubleshoot-403-forbidden",
		},
	},
	{
		Name:    "signature-mismatch",
		Pattern: regexp.MustCompile(`(.*The request signature we calculated does not match the signature you provided.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-troubleshoot-403-forbidden",
		},
	},
	{
		Name:    "forbidden",
		Pattern: regexp.MustCompile(`(.*Forbidden.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-troubleshoot-403-forbidden",
			"https://repost.aws/knowledge-center/api-gateway-vpc-connections",
		},
	},
	{
		Name:    "authorization-header-requires",
		Pattern: regexp.MustCompile(`(.*Authorization header requires.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-troubleshoot-403-forbidden",
		},
		Redact:          true,
		RedactedPattern: regexp.MustCompile(requestIDGroup + `.*(Authorization header requires).*`),
	},
	{
		Name:    "502-malformed-response",
		Pattern: regexp.MustCompile(`(.*Method completed with status: 502.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/malformed-502-api-gateway",
		},
	},
	{
		Name:    "integration-configuration-error",
		Pattern: regexp.MustCompile(`(.*Execution failed due to configuration error.*)`),
		Articles: []string{
			"https://repost.aws/knowledge-center/api-gateway-500-error-vpc",
		},
	},
}
