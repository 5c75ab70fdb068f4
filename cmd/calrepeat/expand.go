package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/cyp0633/libcalrepeat/recurrence"
	"github.com/spf13/cobra"
)

func newExpandCmd(a *app) *cobra.Command {
	var (
		repeatID string
		asRRule  bool
	)
	cmd := &cobra.Command{
		Use:   "expand [template.json|-]",
		Short: "Print the instances a repeating event template expands to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tmpl event.EventForm
			if err := readJSON(cmd, args, &tmpl); err != nil {
				return err
			}
			limits, err := a.cfg.EventLimits()
			if err != nil {
				return err
			}
			if err := tmpl.ValidateWith(limits); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asRRule {
				rule, err := recurrence.RuleString(tmpl, a.loc)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, rule)
				return err
			}

			engine := recurrence.NewEngineWithConfig(recurrence.DisabledCacheConfig)
			defer engine.Close()
			engine.SetLogger(a.logger)
			return writeJSON(out, engine.Expand(tmpl, repeatID))
		},
	}
	cmd.Flags().StringVar(&repeatID, "id", "", "series id stamped on every instance")
	cmd.Flags().BoolVar(&asRRule, "rrule", false, "print the equivalent RRULE instead of the instances")
	return cmd
}

// readJSON decodes the file named by args[0], or stdin when it is "-" or
// missing.
func readJSON(cmd *cobra.Command, args []string, v any) error {
	var r io.Reader = cmd.InOrStdin()
	name := "stdin"
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r, name = f, args[0]
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
