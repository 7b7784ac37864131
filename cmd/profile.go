package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gwprobe/internal/config"
	"gwprobe/internal/ui"
)

var profileCmd = &cobra.Command{
	Use:   "profile [name]",
	Short: "Show or set the default AWS profile",
	Long: `Without arguments, print the saved default profile. With a name,
save it to ~/.gwprobe/config.yaml so subsequent runs use it.

Examples:
  gwprobe profile
  gwprobe profile support-role`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		saved := config.GetSavedProfile()
		if saved == "" {
			fmt.Println("No default profile saved")
			return nil
		}
		fmt.Printf("Default profile: %s\n", ui.NameStyle.Render(saved))
		return nil
	}

	if err := config.SetProfile(args[0]); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	fmt.Printf("Default profile set: %s\n", ui.NameStyle.Render(args[0]))
	return nil
}
