// Package engine implements the generic read/create/update/delete
// operations over a day's slot set using declarative predicate matching.
// The same engine runs against the in-process replica and, through the
// vault codec, against the external flat-file store.
package engine

import (
	"context"

	"tableflip.dev/dayring/pkg/store"
	"tableflip.dev/dayring/pkg/timeline"
	"tableflip.dev/dayring/pkg/vault"
)

// Source abstracts where a day's slots live. Implementations load the
// current slot list for a (mode, date) key and persist a replacement list
// in one step.
type Source interface {
	LoadDay(ctx context.Context, mode timeline.Mode, date string) ([]timeline.TimeSlot, error)
	SaveDay(ctx context.Context, mode timeline.Mode, date string, slots []timeline.TimeSlot) error
}

// Engine executes match/patch operations against a Source.
type Engine struct {
	Source Source
}

// New returns an engine over the given source.
func New(src Source) *Engine {
	return &Engine{Source: src}
}

// DaySlots pairs a date with its (filtered) slot list.
type DaySlots struct {
	Date  string
	Slots []timeline.TimeSlot
}

// Read returns, per date in the inclusive [from, to] range, the mode's
// slots filtered by where. An empty to defaults to from.
func (e *Engine) Read(ctx context.Context, mode timeline.Mode, from, to string, where *Where) ([]DaySlots, error) {
	dates, err := timeline.DateRange(from, to)
	if err != nil {
		return nil, &timeline.ValidationError{Field: "fromDate", Reason: err.Error()}
	}
	out := make([]DaySlots, 0, len(dates))
	for _, date := range dates {
		slots, err := e.Source.LoadDay(ctx, mode, date)
		if err != nil {
			return nil, err
		}
		out = append(out, DaySlots{Date: date, Slots: where.Filter(slots)})
	}
	return out, nil
}

// SlotPayload is the wire shape of a slot to create.
type SlotPayload struct {
	StartMinute int    `json:"startMinute"`
	EndMinute   int    `json:"endMinute"`
	Label       string `json:"label"`
	Notes       string `json:"notes,omitempty"`
}

// Create validates and stores the given payloads on the target day. Each
// slot must pass the field checks and must not overlap an existing or
// just-created slot; on any failure nothing is stored.
func (e *Engine) Create(ctx context.Context, mode timeline.Mode, date string, payloads []SlotPayload) ([]timeline.TimeSlot, error) {
	return e.create(ctx, mode, date, payloads, true)
}

// Append stores the payloads without any overlap check. This is the raw
// external-write path: the caller owns pre-validation when non-overlap
// matters at this boundary.
func (e *Engine) Append(ctx context.Context, mode timeline.Mode, date string, payloads []SlotPayload) ([]timeline.TimeSlot, error) {
	return e.create(ctx, mode, date, payloads, false)
}

func (e *Engine) create(ctx context.Context, mode timeline.Mode, date string, payloads []SlotPayload, validated bool) ([]timeline.TimeSlot, error) {
	if _, err := timeline.ParseDate(date); err != nil {
		return nil, &timeline.ValidationError{Field: "date", Reason: err.Error()}
	}
	slots, err := e.Source.LoadDay(ctx, mode, date)
	if err != nil {
		return nil, err
	}

	created := make([]timeline.TimeSlot, 0, len(payloads))
	for _, p := range payloads {
		slot := timeline.NewSlot(p.StartMinute, p.EndMinute, p.Label, p.Notes)
		if validated {
			if err := timeline.ValidateSlot(slot); err != nil {
				return nil, err
			}
			if conflict, ok := timeline.FindOverlap(slots, slot.StartMinute, slot.EndMinute, ""); ok {
				return nil, &timeline.OverlapError{StartMinute: slot.StartMinute, EndMinute: slot.EndMinute, Conflict: conflict}
			}
		}
		slots = timeline.Upsert(slots, []timeline.TimeSlot{slot}, "")
		created = append(created, slot)
	}

	if err := e.Source.SaveDay(ctx, mode, date, slots); err != nil {
		return nil, err
	}
	return created, nil
}

// Update merges patch into each slot matching where, in stored order, up
// to limit (unlimited when limit <= 0). Returns how many slots changed.
func (e *Engine) Update(ctx context.Context, mode timeline.Mode, date string, where *Where, patch *Patch, limit int) (int, error) {
	slots, err := e.Source.LoadDay(ctx, mode, date)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range slots {
		if limit > 0 && changed >= limit {
			break
		}
		if where.Matches(slots[i]) {
			patch.Apply(&slots[i])
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	timeline.SortSlots(slots)
	if err := e.Source.SaveDay(ctx, mode, date, slots); err != nil {
		return 0, err
	}
	return changed, nil
}

// Delete removes slots matching where, in stored order, up to limit
// (unlimited when limit <= 0). Returns how many slots were removed.
func (e *Engine) Delete(ctx context.Context, mode timeline.Mode, date string, where *Where, limit int) (int, error) {
	slots, err := e.Source.LoadDay(ctx, mode, date)
	if err != nil {
		return 0, err
	}
	kept := make([]timeline.TimeSlot, 0, len(slots))
	removed := 0
	for _, s := range slots {
		if where.Matches(s) && (limit <= 0 || removed < limit) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	if removed == 0 {
		return 0, nil
	}
	if err := e.Source.SaveDay(ctx, mode, date, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// StoreSource adapts the in-process persistence to the engine.
type StoreSource struct {
	P store.Persistence
}

func (s StoreSource) LoadDay(ctx context.Context, mode timeline.Mode, date string) ([]timeline.TimeSlot, error) {
	return s.P.Day(ctx, mode, date).Slots, nil
}

func (s StoreSource) SaveDay(ctx context.Context, mode timeline.Mode, date string, slots []timeline.TimeSlot) error {
	day := s.P.Day(ctx, mode, date)
	day.Slots = slots
	return s.P.SaveDay(ctx, day)
}

// VaultSource adapts the flat-file vault to the engine. Saving re-encodes
// the whole document, leaving the other mode's section and the Superseded
// Plans audit log untouched.
type VaultSource struct {
	V *vault.Vault
}

func (s VaultSource) LoadDay(ctx context.Context, mode timeline.Mode, date string) ([]timeline.TimeSlot, error) {
	doc, _, err := s.V.Pull(ctx, date)
	if err != nil {
		return nil, err
	}
	return doc.Slots(mode), nil
}

func (s VaultSource) SaveDay(ctx context.Context, mode timeline.Mode, date string, slots []timeline.TimeSlot) error {
	doc, _, err := s.V.Pull(ctx, date)
	if err != nil {
		return err
	}
	doc.SetSlots(mode, slots)
	return s.V.PushDoc(ctx, doc)
}
