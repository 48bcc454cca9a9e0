package timeline

import "sort"

// Normalize clamps both ends of a minute range into [0,1440].
func Normalize(start, end int) (int, int) {
	return clamp(start, 0, MinutesPerDay), clamp(end, 0, MinutesPerDay)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Duration returns the length in minutes of a range, treating end at or
// before start as wrapping once past midnight. Storage never holds a
// wrapped slot; this is for measuring the logical interval a user asked
// for and for display.
func Duration(start, end int) int {
	d := end - start
	if d > 0 {
		return d
	}
	return MinutesPerDay + d
}

// IsOverlapping reports whether [start,end) intersects any slot other than
// ignoreID. Intervals are half-open, so a slot ending exactly where another
// begins does not overlap.
func IsOverlapping(slots []TimeSlot, start, end int, ignoreID string) bool {
	_, ok := FindOverlap(slots, start, end, ignoreID)
	return ok
}

// FindOverlap returns the first slot intersecting [start,end), skipping
// ignoreID when non-empty.
func FindOverlap(slots []TimeSlot, start, end int, ignoreID string) (TimeSlot, bool) {
	for _, s := range slots {
		if ignoreID != "" && s.ID == ignoreID {
			continue
		}
		if start < s.EndMinute && end > s.StartMinute {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// Upsert removes the slot matching replaceID if present, appends additions,
// and re-sorts by start minute. It does not validate overlap; every caller
// is expected to validate first.
func Upsert(slots []TimeSlot, additions []TimeSlot, replaceID string) []TimeSlot {
	out := make([]TimeSlot, 0, len(slots)+len(additions))
	for _, s := range slots {
		if replaceID != "" && s.ID == replaceID {
			continue
		}
		out = append(out, s)
	}
	out = append(out, additions...)
	SortSlots(out)
	return out
}

// SortSlots orders slots ascending by start minute, breaking ties by ID so
// the order is deterministic.
func SortSlots(slots []TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].StartMinute == slots[j].StartMinute {
			return slots[i].ID < slots[j].ID
		}
		return slots[i].StartMinute < slots[j].StartMinute
	})
}

// Check verifies the day invariant: sorted ascending by start and no two
// slots overlapping under the half-open rule.
func Check(slots []TimeSlot) error {
	for i := 1; i < len(slots); i++ {
		a, b := slots[i-1], slots[i]
		if b.StartMinute < a.StartMinute {
			return &ValidationError{Reason: "slots out of order"}
		}
		if a.EndMinute > b.StartMinute {
			return &OverlapError{StartMinute: b.StartMinute, EndMinute: b.EndMinute, Conflict: a}
		}
	}
	return nil
}

// Coverage counts the minutes of the day occupied by the given slots.
// Assumes the day invariant holds.
func Coverage(slots []TimeSlot) int {
	total := 0
	for _, s := range slots {
		total += s.EndMinute - s.StartMinute
	}
	return total
}
