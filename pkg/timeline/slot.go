package timeline

import (
	"strings"

	"github.com/google/uuid"
)

const (
	// MinutesPerDay is the length of the 24-hour cycle every slot lives on.
	MinutesPerDay = 1440

	// MaxLabelLen and MaxNotesLen bound the free-text fields of a slot.
	MaxLabelLen = 120
	MaxNotesLen = 500
)

// TimeSlot is one contiguous activity record within a single day. A slot
// never wraps midnight on its own; a logical interval that crosses midnight
// is stored as two slots sharing a GroupID.
type TimeSlot struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"groupId,omitempty"`
	StartMinute int       `json:"startMinute"`
	EndMinute   int       `json:"endMinute"`
	Label       string    `json:"label"`
	Notes       string    `json:"notes,omitempty"`
	Created     Timestamp `json:"createdAt"`
	Updated     Timestamp `json:"updatedAt"`
}

// NewSlot builds a slot with a fresh identity and creation timestamps.
// It does not validate; see ValidateSlot.
func NewSlot(start, end int, label, notes string) TimeSlot {
	now := Now()
	return TimeSlot{
		ID:          uuid.NewString(),
		StartMinute: start,
		EndMinute:   end,
		Label:       strings.TrimSpace(label),
		Notes:       notes,
		Created:     now,
		Updated:     now,
	}
}

// Touch refreshes the updated timestamp after a mutation.
func (s *TimeSlot) Touch() {
	s.Updated = Now()
}

// SameContent reports positional equality on the fields the reconciler
// diffs: start, end, label, and notes. Identity and timestamps are ignored
// because the external store does not carry them.
func (s TimeSlot) SameContent(o TimeSlot) bool {
	return s.StartMinute == o.StartMinute &&
		s.EndMinute == o.EndMinute &&
		s.Label == o.Label &&
		s.Notes == o.Notes
}

// ValidateSlot checks the field-level invariants of a stored slot: start in
// [0,1439], end in (0,1440], end strictly after start, a non-empty trimmed
// label within bounds, and bounded notes.
func ValidateSlot(s TimeSlot) error {
	if strings.TrimSpace(s.Label) == "" {
		return &ValidationError{Field: "label", Reason: "label must not be empty"}
	}
	if len(s.Label) > MaxLabelLen {
		return &ValidationError{Field: "label", Reason: "label too long"}
	}
	if len(s.Notes) > MaxNotesLen {
		return &ValidationError{Field: "notes", Reason: "notes too long"}
	}
	if s.StartMinute < 0 || s.StartMinute > MinutesPerDay-1 {
		return &ValidationError{Field: "startMinute", Reason: "start must be in [0,1439]"}
	}
	if s.EndMinute < 1 || s.EndMinute > MinutesPerDay {
		return &ValidationError{Field: "endMinute", Reason: "end must be in (0,1440]"}
	}
	if s.EndMinute <= s.StartMinute {
		return &ValidationError{Field: "endMinute", Reason: "end must be after start"}
	}
	return nil
}
