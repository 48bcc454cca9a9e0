// Package reconciler keeps the in-process replica and the external vault
// in agreement. Pulls let the vault win; pushes let local edits win, but
// only after a debounce window so they do not race a concurrent pull.
// This is best-effort last-writer-wins, not a transaction protocol: the
// vault can always be edited out of band.
package reconciler

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"tableflip.dev/dayring/pkg/store"
	"tableflip.dev/dayring/pkg/timeline"
	"tableflip.dev/dayring/pkg/vault"
)

// Reconciler synchronizes day timelines between the two replicas.
type Reconciler struct {
	Persistence store.Persistence
	Vault       *vault.Vault

	// Interval is the periodic pull cadence; Debounce delays outbound
	// pushes after a local edit.
	Interval time.Duration
	Debounce time.Duration

	mu       sync.Mutex
	inflight map[string]bool
	timers   map[string]*time.Timer
}

// New builds a reconciler with the given cadence.
func New(p store.Persistence, v *vault.Vault, interval, debounce time.Duration) *Reconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Reconciler{
		Persistence: p,
		Vault:       v,
		Interval:    interval,
		Debounce:    debounce,
		inflight:    make(map[string]bool),
		timers:      make(map[string]*time.Timer),
	}
}

// begin marks a day as having a sync in flight. Pulls and pushes for the
// same day never interleave; the loser of the race simply skips its turn
// and the next tick retries.
func (r *Reconciler) begin(date string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inflight[date] {
		return false
	}
	r.inflight[date] = true
	return true
}

func (r *Reconciler) end(date string) {
	r.mu.Lock()
	delete(r.inflight, date)
	r.mu.Unlock()
}

// Pull reads the vault's document for a date and, per mode, replaces the
// in-memory slot list when the two differ. The external store wins on
// pull.
func (r *Reconciler) Pull(ctx context.Context, date string) error {
	if !r.begin(date) {
		return nil
	}
	defer r.end(date)

	doc, _, err := r.Vault.Pull(ctx, date)
	if err != nil {
		return err
	}
	for _, mode := range timeline.Modes() {
		pulled := doc.Slots(mode)
		day := r.Persistence.Day(ctx, mode, date)
		if slotsEqual(day.Slots, pulled) {
			continue
		}
		day.Replace(pulled)
		if err := r.Persistence.SaveDay(ctx, day); err != nil {
			return err
		}
	}
	return nil
}

// Push writes the complete in-memory day (both modes) to the vault,
// replacing its Plan and Retrospect sections and preserving the
// Superseded Plans log. Local wins on push.
func (r *Reconciler) Push(ctx context.Context, date string) error {
	if !r.begin(date) {
		return nil
	}
	defer r.end(date)

	plan := r.Persistence.Day(ctx, timeline.Plan, date)
	retro := r.Persistence.Day(ctx, timeline.Retrospect, date)
	return r.Vault.Push(ctx, date, plan.Slots, retro.Slots)
}

// NotifyLocalChange schedules a debounced push for the date. Repeated
// notifications within the window collapse into one push. Only
// long-running embedders should use this; one-shot processes exit before
// the timer fires and must call Push directly.
func (r *Reconciler) NotifyLocalChange(date string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.timers[date]; ok {
		t.Reset(r.Debounce)
		return
	}
	r.timers[date] = time.AfterFunc(r.Debounce, func() {
		r.mu.Lock()
		delete(r.timers, date)
		r.mu.Unlock()
		if err := r.Push(context.Background(), date); err != nil {
			fmt.Fprintf(os.Stderr, "reconciler: push %s: %v\n", date, err)
		}
	})
}

// Supersede retires a plan slot on both replicas: it leaves the active
// plan set and lands in the vault's audit log with a retirement timestamp.
func (r *Reconciler) Supersede(ctx context.Context, date string, slot timeline.TimeSlot) error {
	if !r.begin(date) {
		return fmt.Errorf("reconciler: %s busy, retry", date)
	}
	defer r.end(date)

	day := r.Persistence.Day(ctx, timeline.Plan, date)
	kept := make([]timeline.TimeSlot, 0, len(day.Slots))
	found := false
	for _, s := range day.Slots {
		if !found && (s.ID == slot.ID || s.SameContent(slot)) {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return fmt.Errorf("reconciler: no plan slot %q on %s", slot.Label, date)
	}
	day.Slots = kept
	if err := r.Persistence.SaveDay(ctx, day); err != nil {
		return err
	}
	return r.Vault.Supersede(ctx, date, slot, time.Now())
}

// Run pulls the focus day on a fixed interval and whenever the vault
// directory changes on disk. Failures are reported and retried on the
// next tick; the loop only stops with the context.
func (r *Reconciler) Run(ctx context.Context) error {
	events, err := r.Vault.Watch(ctx)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.Pull(ctx, timeline.Today()); err != nil {
				fmt.Fprintf(os.Stderr, "reconciler: pull %s: %v\n", timeline.Today(), err)
			}
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			date := ev.Date
			if ev.Type == vault.EventVaultInvalidated || date == "" {
				date = timeline.Today()
			}
			if err := r.Pull(ctx, date); err != nil {
				fmt.Fprintf(os.Stderr, "reconciler: pull %s: %v\n", date, err)
			}
		}
	}
}

// slotsEqual compares two slot lists positionally on content after both
// are sorted.
func slotsEqual(a, b []timeline.TimeSlot) bool {
	if len(a) != len(b) {
		return false
	}
	as := make([]timeline.TimeSlot, len(a))
	bs := make([]timeline.TimeSlot, len(b))
	copy(as, a)
	copy(bs, b)
	timeline.SortSlots(as)
	timeline.SortSlots(bs)
	for i := range as {
		if !as[i].SameContent(bs[i]) {
			return false
		}
	}
	return true
}
