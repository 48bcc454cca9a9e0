package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/dayring/pkg/timeline"
)

type PrettyPrint struct {
	ShowID bool
}

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println(title)
}

// Day renders one mode's timeline as a table of slots.
func (pp *PrettyPrint) Day(slots ...timeline.TimeSlot) {
	if len(slots) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" none\n\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	for _, s := range slots {
		span := fmt.Sprintf("%s-%s", timeline.FormatClock(s.StartMinute), timeline.FormatClock(s.EndMinute))
		length := formatMinutes(s.EndMinute - s.StartMinute)
		label := s.Label
		if s.GroupID != "" {
			label += " ↩" // half of a midnight-crossing pair
		}
		if pp.ShowID {
			tbl.AddRow(y.Sprint(shortID(s.ID)), span, length, label, firstLine(s.Notes))
		} else {
			tbl.AddRow(span, length, label, firstLine(s.Notes))
		}
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	fmt.Println("")
}

// CoverageBar renders the day's occupied minutes as a fixed-width bar.
func (pp *PrettyPrint) CoverageBar(slots []timeline.TimeSlot, width int) {
	if width <= 0 {
		width = 48
	}
	filled := color.New(color.FgHiGreen)
	empty := color.New(color.Faint)

	var b strings.Builder
	for i := 0; i < width; i++ {
		lo := i * timeline.MinutesPerDay / width
		hi := (i + 1) * timeline.MinutesPerDay / width
		if timeline.IsOverlapping(slots, lo, hi, "") {
			b.WriteString(filled.Sprint("█"))
		} else {
			b.WriteString(empty.Sprint("·"))
		}
	}
	covered := timeline.Coverage(slots)
	_, _ = fmt.Fprintf(color.Output, "%s  %s of 24h\n\n", b.String(), formatMinutes(covered))
}

// Draft prints the auto-advance suggestion that follows a save.
func (pp *PrettyPrint) Draft(start, end int, endSet bool) {
	c := color.New(color.Faint)
	if endSet {
		_, _ = c.Printf("next: %s-%s\n", timeline.FormatClock(start), timeline.FormatClock(end))
		return
	}
	_, _ = c.Printf("next: %s-? (pick an end)\n", timeline.FormatClock(start))
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

func firstLine(notes string) string {
	if notes == "" {
		return ""
	}
	line, _, _ := strings.Cut(notes, "\n")
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
