package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"gwprobe/internal/aws"
	"gwprobe/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single existence check",
	Long: `Run one of the verification steps on its own. Each subcommand
mirrors one step of the automation runbook and prints the same fields
the runbook step outputs.

Examples:
  gwprobe check api --api-id abc123
  gwprobe check stage --api-id abc123 --stage prod
  gwprobe check resource --api-id abc123 --path /users
  gwprobe check method --api-id abc123 --path /users --method GET`,
}

var checkAPICmd = &cobra.Command{
	Use:   "api",
	Short: "Check that a REST API exists",
	RunE:  runCheckAPI,
}

var checkStageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Check that a deployment stage exists",
	RunE:  runCheckStage,
}

var checkResourceCmd = &cobra.Command{
	Use:   "resource",
	Short: "Check that a resource path exists",
	RunE:  runCheckResource,
}

var checkMethodCmd = &cobra.Command{
	Use:   "method",
	Short: "Check that an HTTP method is configured on a resource",
	RunE:  runCheckMethod,
}

var (
	checkAPIID    string
	checkStage    string
	checkPath     string
	checkMethod   string
	checkResource string
	checkJSON     bool
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.AddCommand(checkAPICmd)
	checkCmd.AddCommand(checkStageCmd)
	checkCmd.AddCommand(checkResourceCmd)
	checkCmd.AddCommand(checkMethodCmd)

	checkCmd.PersistentFlags().StringVar(&checkAPIID, "api-id", "", "REST API id")
	checkCmd.PersistentFlags().BoolVar(&checkJSON, "json", false, "print the result as JSON")
	_ = checkCmd.MarkPersistentFlagRequired("api-id")

	checkStageCmd.Flags().StringVar(&checkStage, "stage", "", "deployment stage name")
	_ = checkStageCmd.MarkFlagRequired("stage")

	checkResourceCmd.Flags().StringVar(&checkPath, "path", "", "resource path")
	_ = checkResourceCmd.MarkFlagRequired("path")

	checkMethodCmd.Flags().StringVar(&checkPath, "path", "", "resource path")
	checkMethodCmd.Flags().StringVar(&checkResource, "resource-id", "", "resource id (skips the path lookup)")
	checkMethodCmd.Flags().StringVar(&checkMethod, "method", "", "HTTP method")
	_ = checkMethodCmd.MarkFlagRequired("method")
}

func newGateway(ctx context.Context) (*aws.Gateway, error) {
	client, err := aws.NewClient(ctx, aws.WithProfile(GetProfile()), aws.WithRegion(GetRegion()))
	if err != nil {
		return nil, err
	}
	return aws.NewGateway(client.APIGateway), nil
}

func runCheckAPI(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	gateway, err := newGateway(ctx)
	if err != nil {
		return err
	}

	check, err := gateway.CheckAPI(ctx, checkAPIID)
	if err != nil {
		return err
	}

	if checkJSON {
		return printJSON(check)
	}

	printCheckLine("REST API "+check.APIID, check.Exists, check.Authorized)
	return nil
}

func runCheckStage(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	gateway, err := newGateway(ctx)
	if err != nil {
		return err
	}

	check, err := gateway.CheckStage(ctx, checkAPIID, checkStage)
	if err != nil {
		return err
	}

	if checkJSON {
		return printJSON(check)
	}

	printCheckLine("Stage "+check.StageName, check.Exists, check.Authorized)
	if check.AccessLogGroup != "" {
		fmt.Printf("  Access logs: %s\n", ui.MutedStyle.Render(check.AccessLogGroup))
	}
	return nil
}

func runCheckResource(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	gateway, err := newGateway(ctx)
	if err != nil {
		return err
	}

	check, err := gateway.CheckResource(ctx, checkAPIID, checkPath)
	if err != nil {
		return err
	}

	if checkJSON {
		return printJSON(check)
	}

	printCheckLine("Resource "+check.Path, check.Exists, check.Authorized)
	if check.ResourceID != "" {
		fmt.Printf("  Resource id: %s\n", ui.IDStyle.Render(check.ResourceID))
	}
	return nil
}

func runCheckMethod(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	gateway, err := newGateway(ctx)
	if err != nil {
		return err
	}

	resourceID := checkResource
	if resourceID == "" {
		if checkPath == "" {
			return fmt.Errorf("either --resource-id or --path is required")
		}
		resource, err := gateway.CheckResource(ctx, checkAPIID, checkPath)
		if err != nil {
			return err
		}
		if !resource.Exists {
			printCheckLine("Resource "+checkPath, false, resource.Authorized)
			return nil
		}
		resourceID = resource.ResourceID
	}

	check, err := gateway.CheckMethod(ctx, checkAPIID, resourceID, checkMethod)
	if err != nil {
		return err
	}

	if checkJSON {
		return printJSON(check)
	}

	printCheckLine("Method "+check.Method+" on "+check.ResourceID, check.Exists, check.Authorized)
	return nil
}

func printCheckLine(subject string, exists, authorized bool) {
	switch {
	case !authorized:
		fmt.Printf("%s %s: not authorized to check\n", ui.WarnStyle.Render("?"), subject)
	case exists:
		fmt.Printf("%s %s exists\n", ui.OKStyle.Render("✓"), subject)
	default:
		fmt.Printf("%s %s not found\n", ui.FailStyle.Render("✗"), subject)
	}
}
