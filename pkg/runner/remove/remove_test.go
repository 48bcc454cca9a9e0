package remove

import (
	"context"
	"sort"
	"testing"
	"time"

	"tableflip.dev/dayring/pkg/engine"
	"tableflip.dev/dayring/pkg/reconciler"
	"tableflip.dev/dayring/pkg/timeline"
	"tableflip.dev/dayring/pkg/vault"
)

type memoryPersistence struct {
	days map[string]*timeline.DayTimeline
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{days: make(map[string]*timeline.DayTimeline)}
}

func (m *memoryPersistence) Day(ctx context.Context, mode timeline.Mode, date string) *timeline.DayTimeline {
	if d, ok := m.days[timeline.Key(mode, date)]; ok {
		cp := *d
		cp.Slots = append([]timeline.TimeSlot{}, d.Slots...)
		return &cp
	}
	return timeline.NewDayTimeline(mode, date)
}

func (m *memoryPersistence) SaveDay(ctx context.Context, day *timeline.DayTimeline) error {
	cp := *day
	cp.Slots = append([]timeline.TimeSlot{}, day.Slots...)
	m.days[timeline.Key(day.Mode, day.Date)] = &cp
	return nil
}

func (m *memoryPersistence) Dates(ctx context.Context, mode timeline.Mode) []string {
	dates := make([]string, 0)
	for _, d := range m.days {
		if d.Mode == mode {
			dates = append(dates, d.Date)
		}
	}
	sort.Strings(dates)
	return dates
}

func (m *memoryPersistence) EraseDay(ctx context.Context, mode timeline.Mode, date string) error {
	delete(m.days, timeline.Key(mode, date))
	return nil
}

func seedDay(t *testing.T, p *memoryPersistence, labels ...string) {
	t.Helper()
	day := timeline.NewDayTimeline(timeline.Plan, "2024-01-02")
	for i, label := range labels {
		day.Slots = append(day.Slots, timeline.NewSlot(540+i*120, 600+i*120, label, ""))
	}
	if err := p.SaveDay(context.Background(), day); err != nil {
		t.Fatalf("SaveDay: %v", err)
	}
}

func TestRemoveMatchingSlots(t *testing.T) {
	ctx := context.Background()
	p := newMemoryPersistence()
	seedDay(t, p, "task", "task", "keep")

	n := &Remove{
		Mode:        timeline.Plan,
		Date:        "2024-01-02",
		Where:       engine.Where{LabelContains: "task"},
		Persistence: p,
	}
	if err := n.Do(ctx); err != nil {
		t.Fatalf("Do: %v", err)
	}

	day := p.Day(ctx, timeline.Plan, "2024-01-02")
	if len(day.Slots) != 1 || day.Slots[0].Label != "keep" {
		t.Fatalf("unexpected day after remove: %+v", day.Slots)
	}
}

func TestRemoveWholeDay(t *testing.T) {
	ctx := context.Background()
	p := newMemoryPersistence()
	seedDay(t, p, "a", "b")

	v, err := vault.New(t.TempDir())
	if err != nil {
		t.Fatalf("vault.New: %v", err)
	}
	if err := v.Push(ctx, "2024-01-02", p.Day(ctx, timeline.Plan, "2024-01-02").Slots, nil); err != nil {
		t.Fatalf("vault push: %v", err)
	}

	n := &Remove{
		Mode:        timeline.Plan,
		Date:        "2024-01-02",
		Day:         true,
		Persistence: p,
		Reconciler:  reconciler.New(p, v, time.Minute, time.Second),
	}
	if err := n.Do(ctx); err != nil {
		t.Fatalf("Do: %v", err)
	}

	if got := p.Day(ctx, timeline.Plan, "2024-01-02"); len(got.Slots) != 0 {
		t.Fatalf("expected the stored day erased, got %+v", got.Slots)
	}
	if got := p.Dates(ctx, timeline.Plan); len(got) != 0 {
		t.Fatalf("erased day must leave the index, got %v", got)
	}

	// The synchronous push carries the erasure out to the vault.
	doc, _, err := v.Pull(ctx, "2024-01-02")
	if err != nil {
		t.Fatalf("vault pull: %v", err)
	}
	if len(doc.Plan) != 0 {
		t.Fatalf("vault plan must be empty after erase, got %+v", doc.Plan)
	}
}
