// Package timeline holds the day timeline value types and the pure
// interval rules every mutation path shares: bounds, ordering, and the
// half-open non-overlap invariant.
package timeline

// CurrentSchema is the persisted DayTimeline format version. A stored
// payload with a different schema is discarded and replaced with an empty
// timeline rather than migrated.
const CurrentSchema = "v1"

// DayTimeline is the slot collection for one (mode, calendar day) pair.
// Two independent timelines exist per day, one per mode. The date and
// timezone label identify the day for logging only; interval math never
// consults them.
type DayTimeline struct {
	Mode     Mode       `json:"mode"`
	Date     string     `json:"date"`
	Timezone string     `json:"timezone,omitempty"`
	Slots    []TimeSlot `json:"slots"`
	Updated  Timestamp  `json:"updatedAt"`
	Schema   string     `json:"schemaVersion"`
}

// NewDayTimeline returns an empty timeline for the given key.
func NewDayTimeline(mode Mode, date string) *DayTimeline {
	return &DayTimeline{
		Mode:   mode,
		Date:   date,
		Slots:  []TimeSlot{},
		Schema: CurrentSchema,
	}
}

// Key renders the persistence key for a (mode, date) pair.
func Key(mode Mode, date string) string {
	return string(mode) + "-" + date
}

// Replace swaps the slot set wholesale, re-sorting and refreshing the
// timeline timestamp. Used by the reconciler when the external replica
// wins a pull.
func (d *DayTimeline) Replace(slots []TimeSlot) {
	out := make([]TimeSlot, len(slots))
	copy(out, slots)
	SortSlots(out)
	d.Slots = out
	d.Updated = Now()
}
