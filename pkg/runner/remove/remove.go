package remove

import (
	"context"
	"fmt"

	"tableflip.dev/dayring/pkg/engine"
	"tableflip.dev/dayring/pkg/printers"
	"tableflip.dev/dayring/pkg/reconciler"
	"tableflip.dev/dayring/pkg/store"
	"tableflip.dev/dayring/pkg/timeline"
)

// Remove deletes slots matching a predicate from one day's timeline. Day
// erases the whole stored record instead of matching individual slots.
type Remove struct {
	Mode  timeline.Mode
	Date  string
	Where engine.Where
	Limit int
	Day   bool

	Persistence store.Persistence
	Reconciler  *reconciler.Reconciler
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Date == "" {
		n.Date = timeline.Today()
	}

	if n.Day {
		if err := n.Persistence.EraseDay(ctx, n.Mode, n.Date); err != nil {
			return err
		}
		// One-shot process: push synchronously instead of debouncing.
		if n.Reconciler != nil {
			if err := n.Reconciler.Push(ctx, n.Date); err != nil {
				return err
			}
		}
		fmt.Printf("erased %s %s\n", n.Mode, n.Date)
		return nil
	}

	eng := engine.New(engine.StoreSource{P: n.Persistence})
	removed, err := eng.Delete(ctx, n.Mode, n.Date, &n.Where, n.Limit)
	if err != nil {
		return err
	}
	// One-shot process: push synchronously instead of debouncing.
	if removed > 0 && n.Reconciler != nil {
		if err := n.Reconciler.Push(ctx, n.Date); err != nil {
			return err
		}
	}

	fmt.Printf("removed %d slot(s)\n\n", removed)
	pp := printers.PrettyPrint{}
	pp.Title(fmt.Sprintf("%s — %s", n.Mode, n.Date))
	pp.Day(n.Persistence.Day(ctx, n.Mode, n.Date).Slots...)
	return nil
}
