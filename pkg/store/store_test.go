package store

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/dayring/pkg/timeline"
)

type testConfig struct {
	base string
}

func (c *testConfig) BasePath() string            { return c.base }
func (c *testConfig) VaultPath() string           { return c.base + "/vault" }
func (c *testConfig) SyncInterval() time.Duration { return time.Minute }
func (c *testConfig) PushDebounce() time.Duration { return time.Second }

func load(t *testing.T) Persistence {
	t.Helper()
	p, err := Load(&testConfig{base: t.TempDir()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return p
}

func TestDayFirstAccessIsEmpty(t *testing.T) {
	ctx := context.Background()
	p := load(t)

	day := p.Day(ctx, timeline.Plan, "2024-01-02")
	if day == nil {
		t.Fatal("Day must never return nil")
	}
	if len(day.Slots) != 0 {
		t.Fatalf("expected an empty timeline, got %d slots", len(day.Slots))
	}
	if day.Mode != timeline.Plan || day.Date != "2024-01-02" {
		t.Fatalf("unexpected key: %s %s", day.Mode, day.Date)
	}
	if day.Schema != timeline.CurrentSchema {
		t.Fatalf("Schema = %q, want %q", day.Schema, timeline.CurrentSchema)
	}
}

func TestSaveDayRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := load(t)

	day := p.Day(ctx, timeline.Plan, "2024-01-02")
	day.Slots = []timeline.TimeSlot{
		timeline.NewSlot(720, 780, "Lunch", ""),
		timeline.NewSlot(540, 600, "Deep work", "notes here"),
	}
	if err := p.SaveDay(ctx, day); err != nil {
		t.Fatalf("SaveDay: %v", err)
	}

	got := p.Day(ctx, timeline.Plan, "2024-01-02")
	if len(got.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(got.Slots))
	}
	// Stored days come back sorted by start minute.
	if got.Slots[0].Label != "Deep work" || got.Slots[1].Label != "Lunch" {
		t.Fatalf("unexpected order: [%s %s]", got.Slots[0].Label, got.Slots[1].Label)
	}
	if got.Slots[0].Notes != "notes here" {
		t.Fatalf("notes did not round trip: %q", got.Slots[0].Notes)
	}
}

func TestModesAreSeparateRecords(t *testing.T) {
	ctx := context.Background()
	p := load(t)

	plan := p.Day(ctx, timeline.Plan, "2024-01-02")
	plan.Slots = []timeline.TimeSlot{timeline.NewSlot(540, 600, "planned", "")}
	if err := p.SaveDay(ctx, plan); err != nil {
		t.Fatalf("SaveDay: %v", err)
	}

	retro := p.Day(ctx, timeline.Retrospect, "2024-01-02")
	if len(retro.Slots) != 0 {
		t.Fatalf("retrospect must be independent of plan, got %d slots", len(retro.Slots))
	}
}

func TestSchemaMismatchStartsEmpty(t *testing.T) {
	ctx := context.Background()
	p := load(t)

	day := p.Day(ctx, timeline.Plan, "2024-01-02")
	day.Slots = []timeline.TimeSlot{timeline.NewSlot(540, 600, "old format", "")}
	day.Schema = "v0"
	if err := p.SaveDay(ctx, day); err != nil {
		t.Fatalf("SaveDay: %v", err)
	}

	got := p.Day(ctx, timeline.Plan, "2024-01-02")
	if len(got.Slots) != 0 {
		t.Fatalf("mismatched schema must load empty, got %d slots", len(got.Slots))
	}
	if got.Schema != timeline.CurrentSchema {
		t.Fatalf("Schema = %q, want %q", got.Schema, timeline.CurrentSchema)
	}
}

func TestDates(t *testing.T) {
	ctx := context.Background()
	p := load(t)

	for _, date := range []string{"2024-01-03", "2024-01-02"} {
		day := p.Day(ctx, timeline.Plan, date)
		day.Slots = []timeline.TimeSlot{timeline.NewSlot(540, 600, "x", "")}
		if err := p.SaveDay(ctx, day); err != nil {
			t.Fatalf("SaveDay: %v", err)
		}
	}
	retro := p.Day(ctx, timeline.Retrospect, "2024-01-05")
	if err := p.SaveDay(ctx, retro); err != nil {
		t.Fatalf("SaveDay: %v", err)
	}

	dates := p.Dates(ctx, timeline.Plan)
	if len(dates) != 2 || dates[0] != "2024-01-02" || dates[1] != "2024-01-03" {
		t.Fatalf("Dates = %v", dates)
	}
}

func TestEraseDay(t *testing.T) {
	ctx := context.Background()
	p := load(t)

	day := p.Day(ctx, timeline.Plan, "2024-01-02")
	day.Slots = []timeline.TimeSlot{timeline.NewSlot(540, 600, "x", "")}
	if err := p.SaveDay(ctx, day); err != nil {
		t.Fatalf("SaveDay: %v", err)
	}
	if err := p.EraseDay(ctx, timeline.Plan, "2024-01-02"); err != nil {
		t.Fatalf("EraseDay: %v", err)
	}
	if got := p.Day(ctx, timeline.Plan, "2024-01-02"); len(got.Slots) != 0 {
		t.Fatalf("expected erased day to load empty, got %d slots", len(got.Slots))
	}

	// Erasing a day that never existed is not an error.
	if err := p.EraseDay(ctx, timeline.Plan, "2030-01-01"); err != nil {
		t.Fatalf("EraseDay on missing day: %v", err)
	}
}
