// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dayring/pkg/timeline"
)

// ModeOptions captures the plan/retrospect selection flag.
type ModeOptions struct {
	ModeString string
}

// AddModeArg wires the --mode flag on the provided command.
func AddModeArg(cmd *cobra.Command, o *ModeOptions) {
	cmd.Flags().StringVarP(&o.ModeString, "mode", "m", "plan",
		`Timeline to operate on, "plan" or "retrospect".`)
}

// GetMode parses the flag value.
func (o *ModeOptions) GetMode() (timeline.Mode, error) {
	return timeline.ParseMode(o.ModeString)
}
