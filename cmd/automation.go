package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"gwprobe/internal/aws"
	"gwprobe/internal/config"
	"gwprobe/internal/ui"
)

var automationCmd = &cobra.Command{
	Use:   "automation",
	Short: "Drive the hosted troubleshooting runbook",
	Long: `Start or inspect an SSM Automation execution of the API Gateway
troubleshooting runbook instead of running the checks locally.

Examples:
  gwprobe automation start --api-id abc123 --stage prod
  gwprobe automation status 1a2b3c4d-...`,
}

var automationStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start an automation execution",
	RunE:  runAutomationStart,
}

var automationStatusCmd = &cobra.Command{
	Use:   "status <execution-id>",
	Short: "Show the state of an automation execution",
	Args:  cobra.ExactArgs(1),
	RunE:  runAutomationStatus,
}

var (
	autoDocument string
	autoAPIID    string
	autoStage    string
	autoPath     string
	autoMethod   string
	autoStart    string
	autoEnd      string
)

func init() {
	rootCmd.AddCommand(automationCmd)
	automationCmd.AddCommand(automationStartCmd)
	automationCmd.AddCommand(automationStatusCmd)

	automationStartCmd.Flags().StringVar(&autoDocument, "document", "", "automation document name (default from config)")
	automationStartCmd.Flags().StringVar(&autoAPIID, "api-id", "", "REST API id")
	automationStartCmd.Flags().StringVar(&autoStage, "stage", "", "deployment stage name")
	automationStartCmd.Flags().StringVar(&autoPath, "path", "", "resource path")
	automationStartCmd.Flags().StringVar(&autoMethod, "method", "", "HTTP method")
	automationStartCmd.Flags().StringVar(&autoStart, "start", "", "window start (RFC3339)")
	automationStartCmd.Flags().StringVar(&autoEnd, "end", "", "window end (RFC3339)")
	_ = automationStartCmd.MarkFlagRequired("api-id")
	_ = automationStartCmd.MarkFlagRequired("stage")
}

func newAutomation(ctx context.Context) (*aws.Automation, error) {
	client, err := aws.NewClient(ctx, aws.WithProfile(GetProfile()), aws.WithRegion(GetRegion()))
	if err != nil {
		return nil, err
	}
	return aws.NewAutomation(client.SSM), nil
}

func runAutomationStart(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	automation, err := newAutomation(ctx)
	if err != nil {
		return err
	}

	document := autoDocument
	if document == "" {
		document = config.GetAutomationDocument()
	}

	params := map[string][]string{
		"RestApiId": {autoAPIID},
		"StageName": {autoStage},
	}
	if autoPath != "" {
		params["ResourcePath"] = []string{autoPath}
	}
	if autoMethod != "" {
		params["HttpMethod"] = []string{autoMethod}
	}
	if autoStart != "" {
		params["StartTime"] = []string{autoStart}
	}
	if autoEnd != "" {
		params["EndTime"] = []string{autoEnd}
	}

	executionID, err := automation.Start(ctx, document, params)
	if err != nil {
		return err
	}

	fmt.Printf("Started %s\n", ui.NameStyle.Render(document))
	fmt.Printf("  Execution: %s\n", ui.IDStyle.Render(executionID))
	fmt.Println()
	fmt.Println("Check progress with:")
	fmt.Printf("  gwprobe automation status %s\n", executionID)
	return nil
}

func runAutomationStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	automation, err := newAutomation(ctx)
	if err != nil {
		return err
	}

	status, err := automation.Status(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(ui.HeaderStyle.Render("Automation Execution"))
	fmt.Println(ui.MutedStyle.Render("─────────────────────────────────"))
	fmt.Printf("  Execution: %s\n", ui.IDStyle.Render(status.ExecutionID))
	fmt.Printf("  Document:  %s\n", status.DocumentName)
	fmt.Printf("  Status:    %s\n", formatExecutionStatus(status.Status))
	if !status.StartTime.IsZero() {
		fmt.Printf("  Started:   %s\n", status.StartTime.Format("2006-01-02 15:04:05"))
	}
	if !status.EndTime.IsZero() {
		fmt.Printf("  Ended:     %s\n", status.EndTime.Format("2006-01-02 15:04:05"))
	}
	if status.FailureMessage != "" {
		fmt.Printf("  Failure:   %s\n", ui.FailStyle.Render(status.FailureMessage))
	}

	if len(status.Outputs) > 0 {
		fmt.Println()
		fmt.Println(ui.HeaderStyle.Render("Outputs"))
		for name, values := range status.Outputs {
			fmt.Printf("  %s:\n", ui.NameStyle.Render(name))
			for _, v := range values {
				fmt.Printf("    %s\n", v)
			}
		}
	}

	return nil
}

func formatExecutionStatus(status string) string {
	switch status {
	case "Success":
		return ui.OKStyle.Render(status)
	case "Failed", "TimedOut", "Cancelled":
		return ui.FailStyle.Render(status)
	case "InProgress", "Pending", "Waiting":
		return ui.WarnStyle.Render(status)
	default:
		return status
	}
}
