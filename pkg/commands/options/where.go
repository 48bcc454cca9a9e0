package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dayring/pkg/engine"
)

// WhereOptions captures the slot predicate flags shared by the commands
// that match existing slots.
type WhereOptions struct {
	Label    string
	Contains string
	Limit    int
}

func AddWhereArgs(cmd *cobra.Command, o *WhereOptions) {
	cmd.Flags().StringVar(&o.Label, "label", "",
		"Match slots with exactly this label (case-insensitive).")
	cmd.Flags().StringVar(&o.Contains, "contains", "",
		"Match slots whose label contains this text (case-insensitive).")
	cmd.Flags().IntVar(&o.Limit, "limit", 0,
		"Stop after this many matches; 0 means unlimited.")
}

// GetWhere builds the engine predicate from the flags.
func (o *WhereOptions) GetWhere() engine.Where {
	w := engine.Where{LabelContains: o.Contains}
	if o.Label != "" {
		label := o.Label
		w.Label = &label
	}
	return w
}
