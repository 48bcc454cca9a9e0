package planner

import "tableflip.dev/dayring/pkg/timeline"

// Draft is the proposed not-yet-saved interval offered to the user after a
// save. The start always advances; the end is only proposed when it fits.
type Draft struct {
	StartMinute int
	EndMinute   int
	// EndSet is false when no conflict-free end could be proposed and the
	// caller should keep its previous draft end.
	EndSet bool
}

// NextDraft proposes the follow-on draft after saving an interval of the
// given logical duration that ended at newStart. It is a pure function of
// its inputs: the updated day's slots, the saved duration, and the new
// start minute (wrapped into [0,1440) if needed).
func NextDraft(slots []timeline.TimeSlot, prevDuration, newStart int) Draft {
	start := newStart % timeline.MinutesPerDay
	if start < 0 {
		start += timeline.MinutesPerDay
	}

	d := Draft{StartMinute: start}
	candidateEnd := start + prevDuration
	if candidateEnd <= timeline.MinutesPerDay && !timeline.IsOverlapping(slots, start, candidateEnd, "") {
		d.EndMinute = candidateEnd
		d.EndSet = true
	}
	return d
}
