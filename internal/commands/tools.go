package commands

import (
	"fmt"

	"github.com/fatali-fataliyev/budget_assistant/internal/assistant"
	"github.com/fatali-fataliyev/budget_assistant/internal/auth"
	"github.com/spf13/cobra"
)

func newRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check-rules [path]",
		Short: "Validate a rule table (the built-in one when no path is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			rules, err := assistant.LoadRules(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rules ok: %d intents, %d category buckets\n", len(rules.Intents), len(rules.CategoryKeywords))
			return nil
		},
	}
}

func newHashTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-token <token>",
		Short: "Print the bcrypt hash to use as API_TOKEN_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashToken(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
