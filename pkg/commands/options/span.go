package options

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/dayring/pkg/timeline"
)

// SpanOptions captures the HH:MM interval flags. An end at or before the
// start means the interval wraps past midnight.
type SpanOptions struct {
	FromString string
	ToString   string
}

func AddSpanArgs(cmd *cobra.Command, o *SpanOptions) {
	cmd.Flags().StringVar(&o.FromString, "from", "",
		`Start of the interval, example: --from="09:00".`)
	cmd.Flags().StringVar(&o.ToString, "to", "",
		`End of the interval, example: --to="10:30". An end at or before the start wraps past midnight.`)
}

// GetSpan parses both flags into minutes of day.
func (o *SpanOptions) GetSpan() (int, int, error) {
	if o.FromString == "" || o.ToString == "" {
		return 0, 0, errors.New("both --from and --to are required")
	}
	start, err := timeline.ParseClock(o.FromString)
	if err != nil {
		return 0, 0, err
	}
	end, err := timeline.ParseClock(o.ToString)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
