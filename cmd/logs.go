package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gwprobe/internal/aws"
	"gwprobe/internal/diagnose"
	"gwprobe/internal/ui"
	"gwprobe/pkg/types"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "CloudWatch Logs operations",
	Long: `Run Logs Insights queries over an API Gateway execution log group.

Examples:
  gwprobe logs query --api-id abc123 --stage prod
  gwprobe logs query --log-group API-Gateway-Execution-Logs_abc123/prod --request-id 5e3f...`,
}

var logsQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query execution logs and print matching records",
	Long: `Run the execution log Insights query without pattern analysis and
print the raw records, newest first.

Examples:
  gwprobe logs query --api-id abc123 --stage prod
  gwprobe logs query --api-id abc123 --stage prod --start 2026-08-29T10:00:00Z`,
	RunE: runLogsQuery,
}

var (
	logsAPIID     string
	logsStage     string
	logsGroup     string
	logsRequestID string
	logsStart     string
	logsEnd       string
	logsAnalyze   bool
)

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsQueryCmd)

	logsQueryCmd.Flags().StringVar(&logsAPIID, "api-id", "", "REST API id (with --stage, derives the log group)")
	logsQueryCmd.Flags().StringVar(&logsStage, "stage", "", "deployment stage name")
	logsQueryCmd.Flags().StringVar(&logsGroup, "log-group", "", "query this log group directly")
	logsQueryCmd.Flags().StringVar(&logsRequestID, "request-id", "", "narrow the query to one request id")
	logsQueryCmd.Flags().StringVar(&logsStart, "start", "", "window start (RFC3339, default: 15 minutes ago)")
	logsQueryCmd.Flags().StringVar(&logsEnd, "end", "", "window end (RFC3339, default: now)")
	logsQueryCmd.Flags().BoolVar(&logsAnalyze, "analyze", false, "match records against the known error table")
}

func runLogsQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	group := logsGroup
	if group == "" {
		if logsAPIID == "" || logsStage == "" {
			return fmt.Errorf("either --log-group or both --api-id and --stage are required")
		}
		group = fmt.Sprintf("API-Gateway-Execution-Logs_%s/%s", logsAPIID, logsStage)
	}

	window, err := diagnose.ParseWindow(logsStart, logsEnd, time.Now())
	if err != nil {
		return err
	}

	client, err := aws.NewClient(ctx, aws.WithProfile(GetProfile()), aws.WithRegion(GetRegion()))
	if err != nil {
		return err
	}

	query := "fields @message | sort @timestamp desc"
	if logsRequestID != "" {
		query = fmt.Sprintf(`fields @message | parse @message "(*) *" as rid, msg | filter rid = %q | sort @timestamp desc`, logsRequestID)
	}

	runner := aws.NewQueryRunner(client.Logs)
	records, found, err := runner.Query(ctx, types.LogQuery{
		LogGroup:    group,
		QueryString: query,
		Start:       window.Start,
		End:         window.End,
	})
	if err != nil {
		return err
	}
	if !found {
		fmt.Printf("Log group %s not found\n", group)
		return nil
	}

	if logsAnalyze {
		ui.PrintFinding(diagnose.Analyze(records, ""))
		return nil
	}

	if records == "" {
		fmt.Println("No records in the time range")
		return nil
	}
	fmt.Println(records)
	return nil
}
