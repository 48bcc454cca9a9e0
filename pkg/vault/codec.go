// Package vault reads and writes the external flat-file day documents.
// Each calendar date owns one text document with Plan, Retrospect, and
// Superseded Plans sections that a person (or another tool) may edit out
// of band.
package vault

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"tableflip.dev/dayring/pkg/timeline"
)

const (
	sectionPlan       = "## Plan"
	sectionRetrospect = "## Retrospect"
	sectionSuperseded = "## Superseded Plans"

	notesSeparator = " || "
)

// entryPattern matches `- HH:MM-HH:MM | label[ || notes]`. Anything else
// is skipped so manual annotations survive a decode.
var entryPattern = regexp.MustCompile(`^- (\d{1,2}):(\d{2})-(\d{1,2}):(\d{2}) \| (.+)$`)

// Document is the decoded form of one day's flat file. Superseded holds
// the audit section's lines verbatim; the codec only ever appends to it.
type Document struct {
	Date       string
	Plan       []timeline.TimeSlot
	Retrospect []timeline.TimeSlot
	Superseded []string
}

// Slots returns the section for the given mode.
func (d *Document) Slots(mode timeline.Mode) []timeline.TimeSlot {
	if mode == timeline.Retrospect {
		return d.Retrospect
	}
	return d.Plan
}

// SetSlots replaces the section for the given mode.
func (d *Document) SetSlots(mode timeline.Mode, slots []timeline.TimeSlot) {
	if mode == timeline.Retrospect {
		d.Retrospect = slots
		return
	}
	d.Plan = slots
}

// Decode parses a day document. Malformed or missing sections decode to
// empty lists, never an error: the format is forward-compatible with
// hand-written annotations, which are silently skipped.
func Decode(date, text string) *Document {
	doc := &Document{Date: date}
	section := ""
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimRight(line, " \t\r")
		switch trimmed {
		case sectionPlan, sectionRetrospect, sectionSuperseded:
			section = trimmed
			continue
		}
		if trimmed == "" {
			continue
		}
		switch section {
		case sectionPlan:
			if slot, ok := decodeEntry(trimmed); ok {
				doc.Plan = append(doc.Plan, slot)
			}
		case sectionRetrospect:
			if slot, ok := decodeEntry(trimmed); ok {
				doc.Retrospect = append(doc.Retrospect, slot)
			}
		case sectionSuperseded:
			doc.Superseded = append(doc.Superseded, trimmed)
		}
	}
	timeline.SortSlots(doc.Plan)
	timeline.SortSlots(doc.Retrospect)
	return doc
}

func decodeEntry(line string) (timeline.TimeSlot, bool) {
	m := entryPattern.FindStringSubmatch(line)
	if m == nil {
		return timeline.TimeSlot{}, false
	}
	sh, _ := strconv.Atoi(m[1])
	sm, _ := strconv.Atoi(m[2])
	eh, _ := strconv.Atoi(m[3])
	em, _ := strconv.Atoi(m[4])

	label := m[5]
	notes := ""
	if before, after, found := strings.Cut(m[5], notesSeparator); found {
		label = before
		notes = UnescapeNotes(after)
	}

	return timeline.NewSlot(sh*60+sm, eh*60+em, label, notes), true
}

// Encode renders a document in canonical form: a date heading, then the
// three sections with entries ascending by start minute. Decoding the
// result yields the same ordered slot lists.
func Encode(doc *Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", doc.Date)

	writeSection(&b, sectionPlan, doc.Plan)
	writeSection(&b, sectionRetrospect, doc.Retrospect)

	b.WriteString("\n" + sectionSuperseded + "\n")
	if len(doc.Superseded) > 0 {
		b.WriteString("\n")
		for _, line := range doc.Superseded {
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func writeSection(b *strings.Builder, header string, slots []timeline.TimeSlot) {
	b.WriteString("\n" + header + "\n")
	if len(slots) == 0 {
		return
	}
	sorted := make([]timeline.TimeSlot, len(slots))
	copy(sorted, slots)
	timeline.SortSlots(sorted)
	b.WriteString("\n")
	for _, s := range sorted {
		b.WriteString(FormatEntry(s) + "\n")
	}
}

// FormatEntry renders one slot line of the day-document grammar.
func FormatEntry(s timeline.TimeSlot) string {
	line := fmt.Sprintf("- %s-%s | %s",
		timeline.FormatClock(s.StartMinute),
		timeline.FormatClock(s.EndMinute),
		s.Label)
	if s.Notes != "" {
		line += notesSeparator + EscapeNotes(s.Notes)
	}
	return line
}

// EscapeNotes replaces embedded newlines with a literal two-character
// backslash-n sequence so notes stay on one line.
func EscapeNotes(notes string) string {
	return strings.ReplaceAll(notes, "\n", `\n`)
}

// UnescapeNotes reverses EscapeNotes.
func UnescapeNotes(notes string) string {
	return strings.ReplaceAll(notes, `\n`, "\n")
}
