package timeline

import "fmt"

// Mode selects which of a day's two timelines a slot belongs to. Plan and
// retrospect slots at the same minutes never conflict with each other.
type Mode string

const (
	Plan       Mode = "plan"
	Retrospect Mode = "retrospect"
)

// Modes lists every valid mode in a stable order.
func Modes() []Mode {
	return []Mode{Plan, Retrospect}
}

// ParseMode validates a mode string supplied by a flag or request payload.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Plan:
		return Plan, nil
	case Retrospect:
		return Retrospect, nil
	default:
		return "", fmt.Errorf("unknown mode %q, want %q or %q", s, Plan, Retrospect)
	}
}

func (m Mode) String() string {
	return string(m)
}
