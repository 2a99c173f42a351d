package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/client-dashboard/internal/chat"
	"github.com/sells-group/client-dashboard/internal/model"
)

var chatCmd = &cobra.Command{
	Use:   "chat <client-id>",
	Short: "Print a client's message history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID, err := chat.ParseClientID(args[0])
		if err != nil {
			return err
		}
		f, err := newFetcher(cfg)
		if err != nil {
			return err
		}

		t := chat.NewBuilder(f).Transcript(cmd.Context(), clientID)
		for _, fail := range t.Failures {
			fmt.Fprintln(cmd.ErrOrStderr(), fail.Message())
		}
		printTranscript(cmd.OutOrStdout(), t)
		return nil
	},
}

func printTranscript(w io.Writer, t chat.Transcript) {
	fmt.Fprintf(w, "%s (client %d), assigned to %s\n\n", t.Client.ClientFullname, t.Client.ClientID, t.Client.EmployeeFullname)
	if len(t.Messages) == 0 {
		fmt.Fprintln(w, "No messages yet.")
		return
	}
	for _, m := range t.Messages {
		name := t.Client.EmployeeFullname
		if m.Role == model.RoleClient {
			name = t.Client.ClientFullname
		}
		fmt.Fprintf(w, "[%s] %s: %s\n", m.Timestamp, name, m.Message)
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
