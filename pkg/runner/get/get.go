package get

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/dayring/pkg/printers"
	"tableflip.dev/dayring/pkg/store"
	"tableflip.dev/dayring/pkg/timeline"
)

// Get prints a day's timelines. With no mode both plan and retrospect are
// shown; Bar adds a coverage bar under each timeline; Dates lists the
// stored dates instead of one day's slots.
type Get struct {
	ShowID bool
	Bar    bool
	Dates  bool
	Mode   timeline.Mode
	Date   string

	Persistence store.Persistence
}

func (n *Get) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not get, no persistence")
	}
	if n.Dates {
		return n.listDates(ctx)
	}
	if n.Date == "" {
		n.Date = timeline.Today()
	}

	modes := []timeline.Mode{n.Mode}
	if n.Mode == "" {
		modes = timeline.Modes()
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	fmt.Println("")
	for _, mode := range modes {
		day := n.Persistence.Day(ctx, mode, n.Date)
		pp.Title(fmt.Sprintf("%s — %s", mode, n.Date))
		pp.Day(day.Slots...)
		if n.Bar {
			pp.CoverageBar(day.Slots, 48)
		}
	}
	return nil
}

// listDates prints every calendar date with a stored timeline, per mode.
func (n *Get) listDates(ctx context.Context) error {
	modes := []timeline.Mode{n.Mode}
	if n.Mode == "" {
		modes = timeline.Modes()
	}

	pp := printers.PrettyPrint{}
	fmt.Println("")
	for _, mode := range modes {
		pp.Title(string(mode))
		dates := n.Persistence.Dates(ctx, mode)
		if len(dates) == 0 {
			fmt.Print(" none\n\n")
			continue
		}
		for _, date := range dates {
			fmt.Println(" " + date)
		}
		fmt.Println("")
	}
	return nil
}
