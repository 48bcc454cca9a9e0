package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/dayring/pkg/commands/options"
	"tableflip.dev/dayring/pkg/runner/supersede"
)

func addSupersede(topLevel *cobra.Command) {
	oo := &options.OnOptions{}
	label := ""

	cmd := &cobra.Command{
		Use:   "supersede [label]",
		Short: "retire a plan slot into the audit log",
		Long: `Remove a plan slot from the active timeline without marking it done.
The slot is appended to the day's Superseded Plans log with a retirement
timestamp and never re-enters the active set.`,
		Example: `
dayring supersede "Deep Work"
dayring supersede Standup --on 2024-01-02
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a label")
			}
			label = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := oo.GetOn()
			if err != nil {
				return output.HandleError(err)
			}

			p, _, r, err := loadDeps()
			if err != nil {
				return err
			}
			s := supersede.Supersede{
				Date:        date,
				Label:       label,
				Persistence: p,
				Reconciler:  r,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddOnArgs(cmd, oo)

	topLevel.AddCommand(cmd)
}
