package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tableflip.dev/dayring/pkg/timeline"
)

// Vault is a directory of day documents, one file per calendar date keyed
// by year/month/compact-date, for example `2024/01/20240102.md`.
type Vault struct {
	base string
}

// New returns a vault rooted at the given directory.
func New(base string) (*Vault, error) {
	if strings.TrimSpace(base) == "" {
		return nil, errors.New("vault: base path required")
	}
	return &Vault{base: base}, nil
}

// BasePath returns the vault root directory.
func (v *Vault) BasePath() string {
	return v.base
}

// PathFor resolves the document path for a date.
func (v *Vault) PathFor(date string) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("vault: date must be YYYY-MM-DD: %w", err)
	}
	return filepath.Join(v.base, t.Format("2006"), t.Format("01"), t.Format("20060102")+".md"), nil
}

// Pull reads and decodes the document for a date. A missing file decodes
// to an empty document; read failures are surfaced to the caller.
func (v *Vault) Pull(ctx context.Context, date string) (*Document, string, error) {
	path, err := v.PathFor(date)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Document{Date: date}, path, nil
		}
		return nil, path, fmt.Errorf("vault: read %s: %w", path, err)
	}
	return Decode(date, string(data)), path, nil
}

// Push replaces the Plan and Retrospect sections of a date's document with
// the given slot lists, preserving the Superseded Plans section. The write
// is a read-modify-write against the same file, committed atomically.
func (v *Vault) Push(ctx context.Context, date string, plan, retro []timeline.TimeSlot) error {
	doc, path, err := v.Pull(ctx, date)
	if err != nil {
		return err
	}
	doc.Plan = plan
	doc.Retrospect = retro
	return v.write(path, doc)
}

// PushDoc writes a whole document back, used by the match/patch engine
// after an in-place section mutation.
func (v *Vault) PushDoc(ctx context.Context, doc *Document) error {
	path, err := v.PathFor(doc.Date)
	if err != nil {
		return err
	}
	return v.write(path, doc)
}

// Supersede retires a plan slot: it is removed from the Plan section and
// appended to Superseded Plans with a retirement timestamp. The audit
// entry never re-enters the active slot set.
func (v *Vault) Supersede(ctx context.Context, date string, slot timeline.TimeSlot, at time.Time) error {
	doc, path, err := v.Pull(ctx, date)
	if err != nil {
		return err
	}
	kept := make([]timeline.TimeSlot, 0, len(doc.Plan))
	for _, s := range doc.Plan {
		if s.SameContent(slot) {
			continue
		}
		kept = append(kept, s)
	}
	doc.Plan = kept
	doc.Superseded = append(doc.Superseded, SupersededLine(slot, at))
	return v.write(path, doc)
}

// SupersededLine renders the audit entry appended when a plan slot is
// retired without being marked done.
func SupersededLine(slot timeline.TimeSlot, at time.Time) string {
	return fmt.Sprintf("%s (superseded %s)", FormatEntry(slot), at.UTC().Format(time.RFC3339))
}

func (v *Vault) write(path string, doc *Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("vault: ensure directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(Encode(doc)), 0o644); err != nil {
		return fmt.Errorf("vault: write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("vault: commit %s: %w", path, err)
	}
	return nil
}
