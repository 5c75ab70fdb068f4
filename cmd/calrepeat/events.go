package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/cyp0633/libcalrepeat/operations"
	"github.com/cyp0633/libcalrepeat/recurrence"
	"github.com/spf13/cobra"
)

// operations builds an Operations on top of the remote API, reporting to
// stderr.
func (a *app) operations(cmd *cobra.Command, opts ...operations.Option) (*operations.Operations, error) {
	c, err := a.client()
	if err != nil {
		return nil, err
	}
	sink, err := a.sink(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	limits, err := a.cfg.EventLimits()
	if err != nil {
		return nil, err
	}
	opts = append([]operations.Option{
		operations.WithLogger(a.logger),
		operations.WithLimits(limits),
		operations.WithExpander(recurrence.NewEngineWithConfig(recurrence.DisabledCacheConfig)),
	}, opts...)
	return operations.New(c, sink, opts...), nil
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the events stored on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := a.operations(cmd)
			if err != nil {
				return err
			}
			if err := ops.Init(cmd.Context()); err != nil {
				return err
			}

			events := ops.Events()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), events)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tTIME\tTITLE\tSERIES")
			for _, ev := range events {
				fmt.Fprintf(tw, "%s\t%s\t%s-%s\t%s\t%s\n",
					ev.ID, ev.Date, ev.StartTime, ev.EndTime, ev.Title, ev.Repeat.ID.OrElse("-"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newSaveCmd(a *app) *cobra.Command {
	var (
		edit     bool
		seriesID string
	)
	cmd := &cobra.Command{
		Use:   "save [event.json|-]",
		Short: "Create or update an event; a repeating template creates the whole series",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ev event.Event
			if err := readJSON(cmd, args, &ev); err != nil {
				return err
			}
			ops, err := a.operations(cmd, operations.WithEditing(edit))
			if err != nil {
				return err
			}

			if !edit && ev.Repeat.Type.IsRepeating() {
				n, err := ops.SaveSeries(cmd.Context(), ev.EventForm, seriesID)
				if err != nil {
					return err
				}
				a.logger.Debug("saved series", "count", n)
				return nil
			}
			if edit && ev.ID == "" {
				return fmt.Errorf("--edit needs an event with an id")
			}
			return ops.SaveEvent(cmd.Context(), ev)
		},
	}
	cmd.Flags().BoolVar(&edit, "edit", false, "update the event with the id given in the file")
	cmd.Flags().StringVar(&seriesID, "series-id", "", "id shared by the created series (generated when empty)")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var series bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event, or with --series every event of a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := a.operations(cmd)
			if err != nil {
				return err
			}
			if series {
				_, err := ops.DeleteSeries(cmd.Context(), args[0])
				return err
			}
			return ops.DeleteEvent(cmd.Context(), args[0])
		},
	}
	cmd.Flags().BoolVar(&series, "series", false, "treat the argument as a series id")
	return cmd
}
