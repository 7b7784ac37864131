package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"gwprobe/internal/aws"
	"gwprobe/internal/ui"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current AWS identity",
	Long: `Display the current AWS caller identity.

Equivalent to 'aws sts get-caller-identity'.

Examples:
  gwprobe whoami`,
	RunE: runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, err := aws.NewClient(ctx, aws.WithProfile(GetProfile()), aws.WithRegion(GetRegion()))
	if err != nil {
		return err
	}

	identity, err := client.GetCallerIdentity(ctx)
	if err != nil {
		return fmt.Errorf("failed to get caller identity: %w", err)
	}

	fmt.Println()
	fmt.Println(ui.HeaderStyle.Render("AWS Identity"))
	fmt.Println(ui.MutedStyle.Render("───────────────────────────────"))
	if GetProfile() != "" {
		fmt.Printf("  Profile: %s\n", GetProfile())
	}
	fmt.Printf("  Account: %s\n", identity.Account)
	fmt.Printf("  UserID:  %s\n", identity.UserID)
	fmt.Printf("  ARN:     %s\n", ui.MutedStyle.Render(identity.Arn))

	return nil
}
