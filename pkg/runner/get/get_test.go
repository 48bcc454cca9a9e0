package get

import (
	"context"
	"sort"
	"testing"

	"tableflip.dev/dayring/pkg/timeline"
)

type memoryPersistence struct {
	days map[string]*timeline.DayTimeline
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{days: make(map[string]*timeline.DayTimeline)}
}

func (m *memoryPersistence) Day(ctx context.Context, mode timeline.Mode, date string) *timeline.DayTimeline {
	if d, ok := m.days[timeline.Key(mode, date)]; ok {
		return d
	}
	return timeline.NewDayTimeline(mode, date)
}

func (m *memoryPersistence) SaveDay(ctx context.Context, day *timeline.DayTimeline) error {
	m.days[timeline.Key(day.Mode, day.Date)] = day
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

func TestGetRequiresPersistence(t *testing.T) {
	n := &Get{}
	if err := n.Do(context.Background()); err == nil {
		t.Fatal("expected an error without persistence")
	}
}

func TestGetDay(t *testing.T) {
	ctx := context.Background()
	p := newMemoryPersistence()
	day := timeline.NewDayTimeline(timeline.Plan, "2024-01-02")
	day.Slots = []timeline.TimeSlot{timeline.NewSlot(540, 600, "Deep work", "")}
	if err := p.SaveDay(ctx, day); err != nil {
		t.Fatalf("SaveDay: %v", err)
	}

	n := &Get{Mode: timeline.Plan, Date: "2024-01-02", Persistence: p}
	if err := n.Do(ctx); err != nil {
		t.Fatalf("Do: %v", err)
	}

	// No mode prints both timelines; no date defaults to today.
	n = &Get{Persistence: p, Bar: true}
	if err := n.Do(ctx); err != nil {
		t.Fatalf("Do without mode: %v", err)
	}
}

func TestGetDates(t *testing.T) {
	ctx := context.Background()
	p := newMemoryPersistence()
	for _, date := range []string{"2024-01-02", "2024-01-03"} {
		if err := p.SaveDay(ctx, timeline.NewDayTimeline(timeline.Plan, date)); err != nil {
			t.Fatalf("SaveDay: %v", err)
		}
	}

	n := &Get{Dates: true, Mode: timeline.Plan, Persistence: p}
	if err := n.Do(ctx); err != nil {
		t.Fatalf("Do: %v", err)
	}

	// The listing must come from the persistence index, newest mode state.
	if got := p.Dates(ctx, timeline.Plan); len(got) != 2 || got[0] != "2024-01-02" {
		t.Fatalf("Dates = %v", got)
	}

	n = &Get{Dates: true, Persistence: p}
	if err := n.Do(ctx); err != nil {
		t.Fatalf("Do across modes: %v", err)
	}
}
