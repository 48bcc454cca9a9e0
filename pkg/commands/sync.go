package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dayring/pkg/commands/options"
	syncrunner "tableflip.dev/dayring/pkg/runner/sync"
)

func addSync(topLevel *cobra.Command) {
	oo := &options.OnOptions{}
	push := false
	watch := false

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "reconcile with the vault",
		Long: `Pull the vault's day document into the local timeline (the vault wins),
or push the local timeline out (local wins). With --watch, keep pulling on
the configured interval and whenever the vault changes on disk.`,
		Example: `
dayring sync
dayring sync --push --on 2024-01-02
dayring sync --watch
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := oo.GetOn()
			if err != nil {
				return output.HandleError(err)
			}

			_, _, r, err := loadDeps()
			if err != nil {
				return err
			}
			s := syncrunner.Sync{
				Date:       date,
				Push:       push,
				Watch:      watch,
				Reconciler: r,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddOnArgs(cmd, oo)
	cmd.Flags().BoolVar(&push, "push", false, "Push local state to the vault instead of pulling.")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep reconciling until interrupted.")

	topLevel.AddCommand(cmd)
}
