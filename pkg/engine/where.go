package engine

import (
	"strings"

	"tableflip.dev/dayring/pkg/timeline"
)

// Where is a declarative slot predicate. Present fields must all match;
// absent fields impose no constraint, so an empty Where matches every
// slot. LabelContains is a substring test applied independently of (and in
// addition to) an exact Label match.
type Where struct {
	StartMinute   *int    `json:"startMinute,omitempty"`
	EndMinute     *int    `json:"endMinute,omitempty"`
	Label         *string `json:"label,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	LabelContains string  `json:"labelContains,omitempty"`
}

// Matches reports whether the slot satisfies every present field of the
// predicate. Label comparison is case-insensitive on trimmed text; notes
// compare exactly; minutes compare numerically.
func (w *Where) Matches(s timeline.TimeSlot) bool {
	if w == nil {
		return true
	}
	if w.StartMinute != nil && s.StartMinute != *w.StartMinute {
		return false
	}
	if w.EndMinute != nil && s.EndMinute != *w.EndMinute {
		return false
	}
	if w.Label != nil && !equalLabel(s.Label, *w.Label) {
		return false
	}
	if w.Notes != nil && s.Notes != *w.Notes {
		return false
	}
	if w.LabelContains != "" &&
		!strings.Contains(strings.ToLower(s.Label), strings.ToLower(w.LabelContains)) {
		return false
	}
	return true
}

func equalLabel(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Filter returns the slots matching the predicate, in input order.
func (w *Where) Filter(slots []timeline.TimeSlot) []timeline.TimeSlot {
	out := make([]timeline.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if w.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}

// Patch is a partial slot mutation; nil fields are left untouched.
type Patch struct {
	StartMinute *int    `json:"startMinute,omitempty"`
	EndMinute   *int    `json:"endMinute,omitempty"`
	Label       *string `json:"label,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// Apply merges the patch into the slot in place and refreshes its updated
// timestamp.
func (p *Patch) Apply(s *timeline.TimeSlot) {
	if p == nil {
		return
	}
	if p.StartMinute != nil {
		s.StartMinute = *p.StartMinute
	}
	if p.EndMinute != nil {
		s.EndMinute = *p.EndMinute
	}
	if p.Label != nil {
		s.Label = strings.TrimSpace(*p.Label)
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	s.Touch()
}
