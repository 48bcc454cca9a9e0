package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dayring/pkg/commands/options"
	"tableflip.dev/dayring/pkg/runner/remove"
)

func addRemove(topLevel *cobra.Command) {
	mo := &options.ModeOptions{}
	oo := &options.OnOptions{}
	wo := &options.WhereOptions{}
	day := false

	cmd := &cobra.Command{
		Use:     "remove",
		Aliases: []string{"rm", "delete"},
		Short:   "remove matching time slots",
		Example: `
dayring remove --label "Morning Run"
dayring remove --contains run --limit 1 --on 2024-01-02
dayring remove --mode retrospect
dayring remove --day --on 2024-01-02
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := mo.GetMode()
			if err != nil {
				return output.HandleError(err)
			}
			date, err := oo.GetOn()
			if err != nil {
				return output.HandleError(err)
			}

			p, _, r, err := loadDeps()
			if err != nil {
				return err
			}
			s := remove.Remove{
				Mode:        mode,
				Date:        date,
				Where:       wo.GetWhere(),
				Limit:       wo.Limit,
				Day:         day,
				Persistence: p,
				Reconciler:  r,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddModeArg(cmd, mo)
	options.AddOnArgs(cmd, oo)
	options.AddWhereArgs(cmd, wo)
	cmd.Flags().BoolVar(&day, "day", false, "Erase the whole stored day instead of matching slots.")

	topLevel.AddCommand(cmd)
}
