package timeline

import "fmt"

// ValidationError reports a rejected slot payload. No mutation happens when
// one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// OverlapError reports a candidate interval that intersects an existing
// slot. Conflict identifies the slot already occupying the minutes.
type OverlapError struct {
	StartMinute int
	EndMinute   int
	Conflict    TimeSlot
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("interval %s-%s overlaps %q (%s-%s)",
		FormatClock(e.StartMinute), FormatClock(e.EndMinute),
		e.Conflict.Label,
		FormatClock(e.Conflict.StartMinute), FormatClock(e.Conflict.EndMinute))
}
