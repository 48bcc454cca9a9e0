package add

import (
	"context"
	"fmt"

	"tableflip.dev/dayring/pkg/planner"
	"tableflip.dev/dayring/pkg/printers"
	"tableflip.dev/dayring/pkg/reconciler"
	"tableflip.dev/dayring/pkg/store"
	"tableflip.dev/dayring/pkg/timeline"
)

// Add saves one logical interval to a day's timeline, splitting across
// midnight when the interval wraps, then prints the updated day and the
// auto-advance draft proposal.
type Add struct {
	Mode        timeline.Mode
	Date        string
	StartMinute int
	EndMinute   int
	Label       string
	Notes       string
	ReplaceID   string

	Persistence store.Persistence
	Reconciler  *reconciler.Reconciler
}

func (n *Add) Do(ctx context.Context) error {
	if n.Date == "" {
		n.Date = timeline.Today()
	}

	res, err := planner.Save(ctx, n.Persistence, planner.SaveRequest{
		Mode:        n.Mode,
		Date:        n.Date,
		StartMinute: n.StartMinute,
		EndMinute:   n.EndMinute,
		Label:       n.Label,
		Notes:       n.Notes,
		ReplaceID:   n.ReplaceID,
	})
	if err != nil {
		return err
	}

	// One-shot process: push synchronously instead of debouncing.
	if n.Reconciler != nil {
		if err := n.Reconciler.Push(ctx, n.Date); err != nil {
			return err
		}
		if res.Split {
			if err := n.Reconciler.Push(ctx, res.NextDate); err != nil {
				return err
			}
		}
	}

	pp := printers.PrettyPrint{}
	pp.Title(fmt.Sprintf("%s — %s", n.Mode, n.Date))
	day := n.Persistence.Day(ctx, n.Mode, n.Date)
	pp.Day(day.Slots...)
	if res.Split {
		pp.Title(fmt.Sprintf("%s — %s", n.Mode, res.NextDate))
		next := n.Persistence.Day(ctx, n.Mode, res.NextDate)
		pp.Day(next.Slots...)
	}

	// Only a brand-new segment advances the draft; edits keep the user's
	// current draft untouched.
	if n.ReplaceID == "" {
		draftDay := day
		newStart := res.Slots[len(res.Slots)-1].EndMinute % timeline.MinutesPerDay
		if res.Split {
			draftDay = n.Persistence.Day(ctx, n.Mode, res.NextDate)
		}
		d := planner.NextDraft(draftDay.Slots, res.Duration, newStart)
		pp.Draft(d.StartMinute, d.EndMinute, d.EndSet)
	}

	return nil
}
