package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatali-fataliyev/budget_assistant/internal/assistant"
	"github.com/spf13/cobra"
)

const questionNotice = "💬 Đây là một câu hỏi, không phải lệnh. Trợ lý hội thoại sẽ trả lời câu hỏi này."

func newAskCommand(envFile *string) *cobra.Command {
	var conversationID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask <text>",
		Short: "Run one utterance against the configured store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.Close()

			session := a.sessions.Open(conversationID)
			reply, err := session.Handle(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(reply)
			}
			if reply.Class == assistant.ClassQuestion {
				fmt.Fprintln(out, questionNotice)
				return nil
			}
			fmt.Fprintln(out, reply.Result.Message)
			if !reply.Result.Success {
				return fmt.Errorf("command %s failed", reply.Kind)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&conversationID, "conversation", "", "conversation id to continue")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full reply as JSON")

	return cmd
}
