package main

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sitekit/sitekit/pkg/output"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "User moderation and access requests (admin only)",
	}

	cmd.AddCommand(newAdminPendingCmd())
	cmd.AddCommand(newAdminApproveCmd())
	cmd.AddCommand(newAdminRejectCmd())
	cmd.AddCommand(newAdminRequestsCmd())
	cmd.AddCommand(newAdminResolveCmd())

	return cmd
}

func newAdminPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List accounts awaiting approval",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			users, err := a.admin.PendingUsers(cmd.Context())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				pterm.Info.Println("No pending accounts")
				return nil
			}

			table := &output.Table{Header: []string{"ID", "Email", "Name", "Registered"}}
			for _, u := range users {
				table.Rows = append(table.Rows, []string{u.ID, u.Email, u.Name, u.RegisteredAt.Local().Format(time.RFC3339)})
			}
			return renderFromCmd(cmd, users, table)
		},
	}
}

func newAdminApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.admin.ApproveUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			pterm.Success.Printfln("Approved %s", args[0])
			return nil
		},
	}
}

func newAdminRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a pending account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.admin.RejectUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			pterm.Success.Printfln("Rejected %s", args[0])
			return nil
		},
	}
}

func newAdminRequestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "requests",
		Short: "List access requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			reqs, err := a.admin.AccessRequests(cmd.Context())
			if err != nil {
				return err
			}
			if len(reqs) == 0 {
				pterm.Info.Println("No access requests")
				return nil
			}

			table := &output.Table{Header: []string{"ID", "Email", "Message"}}
			for _, r := range reqs {
				table.Rows = append(table.Rows, []string{r.ID, r.Email, r.Message})
			}
			return renderFromCmd(cmd, reqs, table)
		},
	}
}

func newAdminResolveCmd() *cobra.Command {
	var deny bool

	cmd := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Approve an access request (or deny it with --deny)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.admin.ResolveAccessRequest(cmd.Context(), args[0], !deny); err != nil {
				return err
			}
			if deny {
				pterm.Success.Printfln("Denied access request %s", args[0])
			} else {
				pterm.Success.Printfln("Approved access request %s", args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&deny, "deny", false, "Deny the request instead of approving it")

	return cmd
}
