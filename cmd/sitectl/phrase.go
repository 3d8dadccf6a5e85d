package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sitekit/sitekit/pkg/output"
	"github.com/sitekit/sitekit/pkg/services"
)

func newPhraseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phrase",
		Short: "Visitor-suggested phrases and their moderation",
	}

	cmd.AddCommand(newPhraseListCmd())
	cmd.AddCommand(newPhraseSuggestCmd())
	cmd.AddCommand(newPhraseModerateCmd("approve", "Approve a suggested phrase (admin only)", services.PhraseStatusApproved))
	cmd.AddCommand(newPhraseModerateCmd("reject", "Reject a suggested phrase (admin only)", services.PhraseStatusRejected))

	return cmd
}

func newPhraseListCmd() *cobra.Command {
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List phrases, optionally filtered by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			var status *services.PhraseStatus
			if statusFlag != "" {
				s := services.PhraseStatus(statusFlag)
				status = &s
			}

			phrases, err := a.phrases.List(cmd.Context(), status)
			if err != nil {
				return err
			}
			if len(phrases) == 0 {
				pterm.Info.Println("No phrases")
				return nil
			}

			table := &output.Table{Header: []string{"ID", "Status", "Text"}}
			for _, p := range phrases {
				table.Rows = append(table.Rows, []string{p.ID, string(p.Status), p.Text})
			}
			return renderFromCmd(cmd, phrases, table)
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status (pending, approved, rejected)")

	return cmd
}

func newPhraseSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <text>",
		Short: "Suggest a new phrase for moderation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.phrases.Suggest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			pterm.Success.Printfln("Suggested phrase %s (status: %s)", p.ID, p.Status)
			return nil
		},
	}
}

func newPhraseModerateCmd(verb, short string, status services.PhraseStatus) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.phrases.Moderate(cmd.Context(), args[0], status); err != nil {
				return err
			}
			pterm.Success.Printfln("Phrase %s %s", args[0], status)
			return nil
		},
	}
}
