package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/dayring/pkg/commands/options"
	"tableflip.dev/dayring/pkg/reconciler"
	"tableflip.dev/dayring/pkg/store"
	"tableflip.dev/dayring/pkg/vault"
)

var output = &options.OutputOptions{}

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "dayring",
		Short: base.Wrap80("Plan and retrospect your day as non-overlapping time slots on a 24-hour dial."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVar(&output.JSON, "json", false,
		"Report errors as JSON.")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addAdd(topLevel)
	addGet(topLevel)
	addRemove(topLevel)
	addSupersede(topLevel)
	addSync(topLevel)
	addServe(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
}

// loadDeps wires the two replicas and the reconciler between them from
// the resolved config.
func loadDeps() (store.Persistence, *vault.Vault, *reconciler.Reconciler, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	v, err := vault.New(cfg.VaultPath())
	if err != nil {
		return nil, nil, nil, err
	}
	r := reconciler.New(p, v, cfg.SyncInterval(), cfg.PushDebounce())
	return p, v, r, nil
}
