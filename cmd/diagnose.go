package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"gwprobe/internal/aws"
	"gwprobe/internal/diagnose"
	"gwprobe/internal/ui"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Verify an API Gateway target and scan its logs for known errors",
	Long: `Run the full verification-and-diagnosis pipeline: confirm the REST
API, stage, resource path and HTTP method exist, then run a Logs
Insights query over the stage's execution log group and match the
records against the known error signature table.

The resource and method checks only run when --path / --method are
given. The time window defaults to the last 15 minutes. Without
--api-id an interactive selector lists the account's REST APIs.

Examples:
  gwprobe diagnose --api-id abc123 --stage prod
  gwprobe diagnose --api-id abc123 --stage prod --path /users --method GET
  gwprobe diagnose --api-id abc123 --stage prod --request-id 5e3f...
  gwprobe diagnose --api-id abc123 --stage prod --start 2026-08-29T10:00:00Z --end 2026-08-29T11:00:00Z`,
	RunE: runDiagnose,
}

var (
	diagAPIID          string
	diagStage          string
	diagPath           string
	diagMethod         string
	diagRequestID      string
	diagStart          string
	diagEnd            string
	diagLogGroup       string
	diagAccessLogGroup string
	diagJSON           bool
)

func init() {
	rootCmd.AddCommand(diagnoseCmd)

	diagnoseCmd.Flags().StringVar(&diagAPIID, "api-id", "", "REST API id")
	diagnoseCmd.Flags().StringVar(&diagStage, "stage", "", "deployment stage name")
	diagnoseCmd.Flags().StringVar(&diagPath, "path", "", "resource path to verify (optional)")
	diagnoseCmd.Flags().StringVar(&diagMethod, "method", "", "HTTP method to verify (requires --path)")
	diagnoseCmd.Flags().StringVar(&diagRequestID, "request-id", "", "narrow the log scan to one request id")
	diagnoseCmd.Flags().StringVar(&diagStart, "start", "", "window start (RFC3339, default: 15 minutes ago)")
	diagnoseCmd.Flags().StringVar(&diagEnd, "end", "", "window end (RFC3339, default: now)")
	diagnoseCmd.Flags().StringVar(&diagLogGroup, "log-group", "", "override the execution log group name")
	diagnoseCmd.Flags().StringVar(&diagAccessLogGroup, "access-log-group", "", "override the access log group name")
	diagnoseCmd.Flags().BoolVar(&diagJSON, "json", false, "print the report as JSON")

	_ = diagnoseCmd.MarkFlagRequired("stage")
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, err := aws.NewClient(ctx, aws.WithProfile(GetProfile()), aws.WithRegion(GetRegion()))
	if err != nil {
		return err
	}

	gateway := aws.NewGateway(client.APIGateway)

	apiID := diagAPIID
	if apiID == "" {
		apiID, err = selectAPI(ctx, gateway)
		if err != nil {
			return err
		}
		if apiID == "" {
			return nil // cancelled
		}
	}

	window, err := diagnose.ParseWindow(diagStart, diagEnd, time.Now())
	if err != nil {
		return err
	}

	pipeline := diagnose.NewPipeline(gateway, aws.NewQueryRunner(client.Logs))
	report, err := pipeline.Run(ctx, diagnose.Params{
		APIID:          apiID,
		StageName:      diagStage,
		ResourcePath:   diagPath,
		HTTPMethod:     diagMethod,
		RequestID:      diagRequestID,
		LogGroup:       diagLogGroup,
		AccessLogGroup: diagAccessLogGroup,
		Window:         window,
	})
	if err != nil {
		return err
	}

	if diagJSON {
		return printJSON(report)
	}

	ui.PrintReport(report)
	return nil
}

// selectAPI lists the account's REST APIs and lets the operator pick
// one interactively
func selectAPI(ctx context.Context, gateway *aws.Gateway) (string, error) {
	apis, err := gateway.ListAPIs(ctx)
	if err != nil {
		return "", err
	}
	if len(apis) == 0 {
		return "", fmt.Errorf("no REST APIs found in this account/region")
	}

	selected, err := ui.SelectAPI(apis)
	if err != nil {
		return "", err
	}
	if selected == nil {
		return "", nil
	}
	return selected.ID, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
