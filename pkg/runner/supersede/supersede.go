package supersede

import (
	"context"
	"fmt"
	"strings"

	"tableflip.dev/dayring/pkg/reconciler"
	"tableflip.dev/dayring/pkg/store"
	"tableflip.dev/dayring/pkg/timeline"
)

// Supersede retires a plan slot without marking it done: it leaves the
// active plan and is appended to the day's audit log.
type Supersede struct {
	Date  string
	Label string

	Persistence store.Persistence
	Reconciler  *reconciler.Reconciler
}

func (n *Supersede) Do(ctx context.Context) error {
	if n.Date == "" {
		n.Date = timeline.Today()
	}
	if strings.TrimSpace(n.Label) == "" {
		return fmt.Errorf("supersede requires a label")
	}

	day := n.Persistence.Day(ctx, timeline.Plan, n.Date)
	var target *timeline.TimeSlot
	for i := range day.Slots {
		if strings.EqualFold(strings.TrimSpace(day.Slots[i].Label), strings.TrimSpace(n.Label)) {
			target = &day.Slots[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no plan slot labeled %q on %s", n.Label, n.Date)
	}

	if err := n.Reconciler.Supersede(ctx, n.Date, *target); err != nil {
		return err
	}

	fmt.Printf("superseded %q (%s-%s) on %s\n",
		target.Label,
		timeline.FormatClock(target.StartMinute),
		timeline.FormatClock(target.EndMinute),
		n.Date)
	return nil
}
