package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dayring/pkg/commands/options"
	"tableflip.dev/dayring/pkg/runner/get"
	"tableflip.dev/dayring/pkg/timeline"
)

func addGet(topLevel *cobra.Command) {
	mo := &options.ModeOptions{}
	oo := &options.OnOptions{}
	io := &options.IDOptions{}
	bar := false
	all := false
	dates := false

	cmd := &cobra.Command{
		Use:   "get",
		Short: "get a day's timelines",
		Example: `
dayring get
dayring get --mode retrospect --on 2024-01-02
dayring get --all --bar
dayring get --dates
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

			p, _, _, err := loadDeps()
			if err != nil {
				return err
			}
			s := get.Get{
				ShowID:      io.ShowID,
				Bar:         bar,
				Dates:       dates,
				Mode:        mode,
				Date:        date,
				Persistence: p,
			}
			if all {
				s.Mode = timeline.Mode("")
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddModeArg(cmd, mo)
	options.AddOnArgs(cmd, oo)
	options.AddShowIDArgs(cmd, io)
	cmd.Flags().BoolVar(&bar, "bar", false, "Show a coverage bar under each timeline.")
	cmd.Flags().BoolVar(&all, "all", false, "Show both plan and retrospect.")
	cmd.Flags().BoolVar(&dates, "dates", false, "List the dates that have stored timelines.")

	topLevel.AddCommand(cmd)
}
