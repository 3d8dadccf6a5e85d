package main

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sitekit/sitekit/pkg/output"
	"github.com/sitekit/sitekit/pkg/timer"
)

func newTimerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Incident timers (\"days since X\")",
	}

	cmd.AddCommand(newTimerListCmd())
	cmd.AddCommand(newTimerShowCmd())
	cmd.AddCommand(newTimerCreateCmd())
	cmd.AddCommand(newTimerResetCmd())
	cmd.AddCommand(newTimerDeleteCmd())

	return cmd
}

func formatElapsed(e timer.Elapsed) string {
	return fmt.Sprintf("%dd %02dh %02dm %02ds", e.Days, e.Hours, e.Minutes, e.Seconds)
}

func newTimerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List incident timers",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			timers, err := a.timers.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(timers) == 0 {
				pterm.Info.Println("No timers")
				return nil
			}

			now := time.Now()
			table := &output.Table{Header: []string{"ID", "Name", "Elapsed", "Last incident"}}
			for _, t := range timers {
				table.Rows = append(table.Rows, []string{
					t.ID,
					t.Name,
					formatElapsed(timer.Breakdown(t.LastIncidentAt, now)),
					t.LastIncidentAt.Local().Format(time.RFC3339),
				})
			}
			return renderFromCmd(cmd, timers, table)
		},
	}
}

func newTimerShowCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one timer, optionally ticking live (--watch)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			t, err := a.timers.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !watch {
				pterm.DefaultSection.Println(t.Name)
				if t.Description != "" {
					pterm.Println(t.Description)
				}
				pterm.Printfln("Elapsed: %s", formatElapsed(timer.Breakdown(t.LastIncidentAt, time.Now())))
				return nil
			}

			area, err := pterm.DefaultArea.Start()
			if err != nil {
				return err
			}
			defer func() { _ = area.Stop() }()

			mgr := timer.NewManager(t.LastIncidentAt, func(e timer.Elapsed) {
				area.Update(fmt.Sprintf("%s: %s", t.Name, formatElapsed(e)))
			})
			mgr.Start()
			defer mgr.Stop()

			<-cmd.Context().Done()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Update the elapsed time every second until interrupted")

	return cmd
}

func newTimerCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an incident timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			t, err := a.timers.Create(cmd.Context(), args[0], description)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("Created timer %s", t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Timer description")

	return cmd
}

func newTimerResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <id>",
		Short: "Reset a timer to now (the incident happened again)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			t, err := a.timers.Reset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			pterm.Success.Printfln("Reset %s at %s", t.Name, t.LastIncidentAt.Local().Format(time.RFC3339))
			return nil
		},
	}
}

func newTimerDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.timers.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			pterm.Success.Println("Timer deleted")
			return nil
		},
	}
}
