package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   "budget_assistant",
		Short: "Vietnamese personal-finance assistant",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "env file to load before reading the environment")

	rootCmd.AddCommand(newServeCommand(&envFile))
	rootCmd.AddCommand(newAskCommand(&envFile))
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newHashTokenCommand())

	return rootCmd
}
