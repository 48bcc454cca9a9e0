package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dayring/pkg/timeline"
)

// OnOptions captures the target calendar date.
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a date, example: --on="2024-01-02". Defaults to today.`)
}

// GetOn returns the validated date, or "" when unset so callers can
// default to today.
func (o *OnOptions) GetOn() (string, error) {
	if o.OnString == "" {
		return "", nil
	}
	return timeline.ParseDate(o.OnString)
}
