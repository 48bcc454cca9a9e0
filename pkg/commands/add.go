package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/dayring/pkg/commands/options"
	"tableflip.dev/dayring/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	mo := &options.ModeOptions{}
	oo := &options.OnOptions{}
	so := &options.SpanOptions{}
	notes := ""
	replaceID := ""
	label := ""

	cmd := &cobra.Command{
		Use:   "add [label]",
		Short: "add a time slot",
		Example: `
dayring add "Morning Run" --from 07:00 --to 08:00
dayring add Sleep --from 23:00 --to 06:30 --mode retrospect
dayring add Standup --from 09:30 --to 09:45 --on 2024-01-02 --notes "zoom link in calendar"
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a label")
			}
			label = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := mo.GetMode()
			if err != nil {
				return output.HandleError(err)
			}
			date, err := oo.GetOn()
			if err != nil {
				return output.HandleError(err)
			}
			start, end, err := so.GetSpan()
			if err != nil {
				return output.HandleError(err)
			}

			p, _, r, err := loadDeps()
			if err != nil {
				return err
			}
			s := add.Add{
				Mode:        mode,
				Date:        date,
				StartMinute: start,
				EndMinute:   end,
				Label:       label,
				Notes:       notes,
				ReplaceID:   replaceID,
				Persistence: p,
				Reconciler:  r,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddModeArg(cmd, mo)
	options.AddOnArgs(cmd, oo)
	options.AddSpanArgs(cmd, so)
	cmd.Flags().StringVar(&notes, "notes", "", "Optional notes for the slot.")
	cmd.Flags().StringVar(&replaceID, "replace", "", "Replace the slot with this id instead of adding.")

	topLevel.AddCommand(cmd)
}
