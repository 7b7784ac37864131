package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gwprobe/internal/config"
)

var (
	// Global flags
	profile string
	region  string
)

var rootCmd = &cobra.Command{
	Use:   "gwprobe",
	Short: "gwprobe - Diagnose API Gateway HTTP errors from CloudWatch Logs",
	Long: `gwprobe verifies that an API Gateway REST API, stage, resource and
method exist, then scans the stage's execution logs for known HTTP
error signatures and points at the knowledge center article that
covers the match.

Full pipeline:
  gwprobe diagnose --api-id abc123 --stage prod --path /users --method GET

Individual checks (mirror the automation runbook steps):
  gwprobe check api --api-id abc123
  gwprobe check stage --api-id abc123 --stage prod
  gwprobe check resource --api-id abc123 --path /users
  gwprobe check method --api-id abc123 --path /users --method GET

Log tooling:
  gwprobe logs query --api-id abc123 --stage prod --start 2026-08-29T10:00:00Z
  gwprobe patterns

Run the hosted runbook instead:
  gwprobe automation start --api-id abc123 --stage prod
  gwprobe automation status <execution-id>`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "AWS profile to use")
	rootCmd.PersistentFlags().StringVarP(&region, "region", "r", "", "AWS region to use")

	// Bind flags to viper
	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	_ = viper.BindPFlag("region", rootCmd.PersistentFlags().Lookup("region"))
}

func initConfig() {
	// Read from environment variables
	viper.SetEnvPrefix("GWPROBE")
	viper.AutomaticEnv()

	// Priority for profile: --profile flag > ~/.gwprobe/config.yaml > AWS_PROFILE env
	if profile == "" {
		if saved := config.GetSavedProfile(); saved != "" {
			profile = saved
		} else {
			profile = os.Getenv("AWS_PROFILE")
		}
	}

	// Use AWS_REGION if --region not specified
	if region == "" {
		region = os.Getenv("AWS_REGION")
		if region == "" {
			region = os.Getenv("AWS_DEFAULT_REGION")
		}
	}
}

// GetProfile returns the AWS profile
func GetProfile() string {
	return profile
}

// GetRegion returns the AWS region
func GetRegion() string {
	return region
}
