package vault

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tableflip.dev/dayring/pkg/timeline"
)

func TestPathFor(t *testing.T) {
	v, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	path, err := v.PathFor("2024-01-02")
	if err != nil {
		t.Fatalf("PathFor: %v", err)
	}
	want := filepath.Join(v.BasePath(), "2024", "01", "20240102.md")
	if path != want {
		t.Fatalf("PathFor = %s, want %s", path, want)
	}

	if _, err := v.PathFor("not-a-date"); err == nil {
		t.Fatal("expected error for a bad date")
	}
}

func TestPullMissingFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	v, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	doc, path, err := v.Pull(ctx, "2024-01-02")
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if path == "" {
		t.Fatal("expected the resolved path even for a missing file")
	}
	if len(doc.Plan) != 0 || len(doc.Retrospect) != 0 {
		t.Fatalf("expected an empty document, got %+v", doc)
	}
}

func TestPushAndPullRoundTrip(t *testing.T) {
	ctx := context.Background()
	v, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	plan := []timeline.TimeSlot{timeline.NewSlot(540, 600, "Deep work", "")}
	retro := []timeline.TimeSlot{timeline.NewSlot(550, 610, "Deep work", "ran long")}
	if err := v.Push(ctx, "2024-01-02", plan, retro); err != nil {
		t.Fatalf("Push: %v", err)
	}

	doc, _, err := v.Pull(ctx, "2024-01-02")
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if len(doc.Plan) != 1 || !doc.Plan[0].SameContent(plan[0]) {
		t.Fatalf("plan did not round trip: %+v", doc.Plan)
	}
	if len(doc.Retrospect) != 1 || !doc.Retrospect[0].SameContent(retro[0]) {
		t.Fatalf("retrospect did not round trip: %+v", doc.Retrospect)
	}
}

func TestPushPreservesSuperseded(t *testing.T) {
	ctx := context.Background()
	v, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	slot := timeline.NewSlot(840, 900, "Review", "")
	if err := v.Push(ctx, "2024-01-02", []timeline.TimeSlot{slot}, nil); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := v.Supersede(ctx, "2024-01-02", slot, time.Date(2024, 1, 2, 16, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Supersede: %v", err)
	}

	// A later push of fresh sections must not disturb the audit log.
	if err := v.Push(ctx, "2024-01-02", []timeline.TimeSlot{timeline.NewSlot(540, 600, "Deep work", "")}, nil); err != nil {
		t.Fatalf("Push: %v", err)
	}

	doc, _, err := v.Pull(ctx, "2024-01-02")
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if len(doc.Plan) != 1 || doc.Plan[0].Label != "Deep work" {
		t.Fatalf("unexpected plan: %+v", doc.Plan)
	}
	if len(doc.Superseded) != 1 {
		t.Fatalf("expected 1 superseded line, got %d", len(doc.Superseded))
	}
	if want := "- 14:00-15:00 | Review (superseded 2024-01-02T16:00:00Z)"; doc.Superseded[0] != want {
		t.Fatalf("superseded line = %q, want %q", doc.Superseded[0], want)
	}
}

func TestSupersedeRemovesFromPlanOnly(t *testing.T) {
	ctx := context.Background()
	v, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	keep := timeline.NewSlot(540, 600, "Deep work", "")
	retire := timeline.NewSlot(840, 900, "Review", "")
	if err := v.Push(ctx, "2024-01-02", []timeline.TimeSlot{keep, retire}, nil); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := v.Supersede(ctx, "2024-01-02", retire, time.Now()); err != nil {
		t.Fatalf("Supersede: %v", err)
	}

	doc, _, err := v.Pull(ctx, "2024-01-02")
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if len(doc.Plan) != 1 || doc.Plan[0].Label != "Deep work" {
		t.Fatalf("expected only the kept slot, got %+v", doc.Plan)
	}
	if len(doc.Superseded) != 1 || !strings.Contains(doc.Superseded[0], "Review") {
		t.Fatalf("expected the retired slot in the audit log: %v", doc.Superseded)
	}
}

func TestWriteIsCanonicalOnDisk(t *testing.T) {
	ctx := context.Background()
	v, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := v.Push(ctx, "2024-01-02", []timeline.TimeSlot{timeline.NewSlot(540, 600, "Deep work", "")}, nil); err != nil {
		t.Fatalf("Push: %v", err)
	}
	path, _ := v.PathFor("2024-01-02")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "# 2024-01-02\n") {
		t.Fatalf("expected a date heading, got:\n%s", text)
	}
	for _, header := range []string{"## Plan", "## Retrospect", "## Superseded Plans"} {
		if !strings.Contains(text, header) {
			t.Fatalf("missing section %q:\n%s", header, text)
		}
	}
	if strings.Contains(text, ".tmp") {
		t.Fatal("temp artifacts must not leak into the document")
	}
}
