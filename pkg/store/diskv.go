package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/dayring/pkg/timeline"
)

// Persistence is the in-process replica of the day timelines: one record
// per (mode, date) key. The external vault holds the other replica; the
// reconciler keeps the two in agreement.
type Persistence interface {
	// Day returns the timeline for the key, creating an empty one on first
	// access. A stored payload with a mismatched schema version is
	// discarded and an empty timeline returned in its place.
	Day(ctx context.Context, mode timeline.Mode, date string) *timeline.DayTimeline
	SaveDay(ctx context.Context, day *timeline.DayTimeline) error
	// Dates lists the calendar dates that have a stored timeline for the
	// mode, ascending.
	Dates(ctx context.Context, mode timeline.Mode) []string
	EraseDay(ctx context.Context, mode timeline.Mode, date string) error
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) Day(ctx context.Context, mode timeline.Mode, date string) *timeline.DayTimeline {
	key := timeline.Key(mode, date)
	if !p.d.Has(key) {
		return timeline.NewDayTimeline(mode, date)
	}
	val, err := p.d.Read(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "store: %s: %s\n", key, err)
		return timeline.NewDayTimeline(mode, date)
	}
	day := &timeline.DayTimeline{}
	if err := json.Unmarshal(val, day); err != nil {
		fmt.Fprintf(os.Stderr, "store: %s: %s\n", key, err)
		return timeline.NewDayTimeline(mode, date)
	}
	if day.Schema != timeline.CurrentSchema {
		// Version mismatch discards the payload; no migration is attempted.
		fmt.Fprintf(os.Stderr, "store: %s: schema %q != %q, starting empty\n", key, day.Schema, timeline.CurrentSchema)
		return timeline.NewDayTimeline(mode, date)
	}
	day.Mode = mode
	day.Date = date
	timeline.SortSlots(day.Slots)
	return day
}

func (p *persistence) SaveDay(ctx context.Context, day *timeline.DayTimeline) error {
	if day.Schema == "" {
		day.Schema = timeline.CurrentSchema
	}
	day.Updated = timeline.Now()
	timeline.SortSlots(day.Slots)
	data, err := json.Marshal(day)
	if err != nil {
		return err
	}
	if err := p.d.Write(timeline.Key(day.Mode, day.Date), data); err != nil {
		return fmt.Errorf("store: write %s: %w", timeline.Key(day.Mode, day.Date), err)
	}
	return nil
}

func (p *persistence) Dates(ctx context.Context, mode timeline.Mode) []string {
	prefix := string(mode) + "-"
	dates := make([]string, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if strings.HasPrefix(key, prefix) {
			dates = append(dates, strings.TrimPrefix(key, prefix))
		}
	}
	sort.Strings(dates)
	return dates
}

func (p *persistence) EraseDay(ctx context.Context, mode timeline.Mode, date string) error {
	key := timeline.Key(mode, date)
	if !p.d.Has(key) {
		return nil
	}
	return p.d.Erase(key)
}

// keyToPathTransform maps `mode-YYYY-MM-DD` onto mode/YYYY/MM directories
// with the day-of-month as the file name.
func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}
