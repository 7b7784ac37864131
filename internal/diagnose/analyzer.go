package diagnose

import (
	"fmt"
	"strings"

	"gwprobe/pkg/types"
)

const (
	noLogGroupMessage = "No log group was found for the API."
	noMatchMessage    = "No error were found in the log group during the time range provided."
	redactionNote     = "[sensitive information has been redacted]"

	// Appended to the report when the access log scan returned 5XX hits
	AccessLog5XXNote = "5XX errors found in access logs. Recommended article for review:\n" +
		"https://repost.aws/knowledge-center/api-gateway-find-5xx-errors-cloudwatch"
)

// Analyze matches the joined execution log records against the known
// error table, first match in table order wins. queryLogs is the
// newline-joined query output; an empty string means the execution log
// group itself was missing. accessLogNote carries the optional 5XX
// access log finding through to the final message.
func Analyze(queryLogs, accessLogNote string) types.Finding {
	suffix := ""
	if accessLogNote != "" {
		suffix = "\n" + accessLogNote
	}

	if queryLogs == "" {
		return types.Finding{
			AccessLogNote: accessLogNote,
			Message:       noLogGroupMessage + suffix,
		}
	}

	for _, known := range KnownErrors {
		line := known.Pattern.FindString(queryLogs)
		if line == "" {
			continue
		}

		if known.Redact {
			line = redactLine(known, line)
		}

		return types.Finding{
			Found:         true,
			PatternName:   known.Name,
			LogLine:       line,
			Articles:      known.Articles,
			AccessLogNote: accessLogNote,
			Message: fmt.Sprintf("Found the following error:\n\nLog: %s\n\nRecommended articles:\n%s%s",
				line, strings.Join(known.Articles, "\n- "), suffix),
		}
	}

	return types.Finding{
		AccessLogNote: accessLogNote,
		Message:       noMatchMessage + suffix,
	}
}

// redactLine keeps only the capture groups of the redaction pattern
// (request id and error marker) and flags the removal
func redactLine(known ErrorPattern, line string) string {
	m := known.RedactedPattern.FindStringSubmatch(line)
	if m == nil {
		return redactionNote
	}
	return strings.Join(m[1:], " ") + " " + redactionNote
}
