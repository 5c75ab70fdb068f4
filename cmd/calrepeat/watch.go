package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/cyp0633/libcalrepeat/reminder"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Send reminders for the events stored on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			sink, err := a.sink(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sched := reminder.New(c, sink,
				reminder.WithLocation(a.loc),
				reminder.WithSpec(a.cfg.Reminder.Spec),
				reminder.WithLogger(a.logger))
			return sched.Start(ctx)
		},
	}
}
