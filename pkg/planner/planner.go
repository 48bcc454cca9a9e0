// Package planner turns a user-intended logical interval into validated,
// stored slots. It owns the midnight-split protocol and the auto-advance
// draft proposal that follows a successful save.
package planner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"tableflip.dev/dayring/pkg/store"
	"tableflip.dev/dayring/pkg/timeline"
)

// SaveRequest describes one logical interval [start, end) in minute-of-day
// terms. End at or before start signals a wrap past midnight.
type SaveRequest struct {
	Mode        timeline.Mode
	Date        string
	StartMinute int
	EndMinute   int
	Label       string
	Notes       string

	// ReplaceID names an existing slot being edited; it is removed in the
	// same mutation that stores the replacement.
	ReplaceID string
}

// SaveResult reports what a save stored.
type SaveResult struct {
	// Slots holds the stored records: one slot normally, two (current day
	// then next day) for a midnight split.
	Slots []timeline.TimeSlot
	// Split is true when the interval wrapped and NextDate carries the
	// second slot's day.
	Split    bool
	GroupID  string
	NextDate string
	// Duration is the logical interval length in minutes.
	Duration int
}

// Save validates and stores a logical interval, splitting it across two
// days when it wraps past 24:00. Both days are validated before either is
// written; on any failure neither day is mutated.
func Save(ctx context.Context, p store.Persistence, req SaveRequest) (SaveResult, error) {
	if req.StartMinute < 0 || req.StartMinute > timeline.MinutesPerDay-1 {
		return SaveResult{}, &timeline.ValidationError{Field: "startMinute", Reason: "start must be in [0,1439]"}
	}
	if req.EndMinute < 0 || req.EndMinute > timeline.MinutesPerDay {
		return SaveResult{}, &timeline.ValidationError{Field: "endMinute", Reason: "end must be in [0,1440]"}
	}

	duration := timeline.Duration(req.StartMinute, req.EndMinute)
	isSplit := req.EndMinute <= req.StartMinute

	day := p.Day(ctx, req.Mode, req.Date)

	if !isSplit || req.EndMinute == 0 {
		// End at exactly 00:00 closes the interval at midnight; no second
		// slot is needed.
		end := req.EndMinute
		if end == 0 {
			end = timeline.MinutesPerDay
		}
		slot := timeline.NewSlot(req.StartMinute, end, req.Label, req.Notes)
		if err := timeline.ValidateSlot(slot); err != nil {
			return SaveResult{}, err
		}
		if conflict, ok := timeline.FindOverlap(day.Slots, slot.StartMinute, slot.EndMinute, req.ReplaceID); ok {
			return SaveResult{}, &timeline.OverlapError{StartMinute: slot.StartMinute, EndMinute: slot.EndMinute, Conflict: conflict}
		}
		day.Slots = timeline.Upsert(day.Slots, []timeline.TimeSlot{slot}, req.ReplaceID)
		if err := p.SaveDay(ctx, day); err != nil {
			return SaveResult{}, err
		}
		return SaveResult{Slots: []timeline.TimeSlot{slot}, Duration: slot.EndMinute - slot.StartMinute}, nil
	}

	nextDate, err := timeline.NextDay(req.Date)
	if err != nil {
		return SaveResult{}, err
	}
	next := p.Day(ctx, req.Mode, nextDate)

	groupID := uuid.NewString()
	first := timeline.NewSlot(req.StartMinute, timeline.MinutesPerDay, req.Label, req.Notes)
	first.GroupID = groupID
	second := timeline.NewSlot(0, req.EndMinute, req.Label, req.Notes)
	second.GroupID = groupID

	if err := timeline.ValidateSlot(first); err != nil {
		return SaveResult{}, err
	}
	if err := timeline.ValidateSlot(second); err != nil {
		return SaveResult{}, err
	}
	if conflict, ok := timeline.FindOverlap(day.Slots, first.StartMinute, first.EndMinute, req.ReplaceID); ok {
		return SaveResult{}, &timeline.OverlapError{StartMinute: first.StartMinute, EndMinute: first.EndMinute, Conflict: conflict}
	}
	if conflict, ok := timeline.FindOverlap(next.Slots, second.StartMinute, second.EndMinute, req.ReplaceID); ok {
		return SaveResult{}, &timeline.OverlapError{StartMinute: second.StartMinute, EndMinute: second.EndMinute, Conflict: conflict}
	}

	// Both sides validated; commit the current day first and roll it back
	// if the next day's write fails so the save stays all-or-nothing.
	before := make([]timeline.TimeSlot, len(day.Slots))
	copy(before, day.Slots)

	day.Slots = timeline.Upsert(day.Slots, []timeline.TimeSlot{first}, req.ReplaceID)
	if err := p.SaveDay(ctx, day); err != nil {
		return SaveResult{}, err
	}
	next.Slots = timeline.Upsert(next.Slots, []timeline.TimeSlot{second}, req.ReplaceID)
	if err := p.SaveDay(ctx, next); err != nil {
		day.Slots = before
		if rbErr := p.SaveDay(ctx, day); rbErr != nil {
			return SaveResult{}, fmt.Errorf("save next day: %v (rollback failed: %w)", err, rbErr)
		}
		return SaveResult{}, err
	}

	return SaveResult{
		Slots:    []timeline.TimeSlot{first, second},
		Split:    true,
		GroupID:  groupID,
		NextDate: nextDate,
		Duration: duration,
	}, nil
}
