package engine

import (
	"context"
	"fmt"

	"tableflip.dev/dayring/pkg/timeline"
)

// Request is the tagged payload accepted by the generic CRUD endpoint.
// Read uses FromDate/ToDate (ToDate optional); the mutating actions use
// Date. Raw switches create to the unvalidated append path.
type Request struct {
	Action   string        `json:"action"`
	Mode     string        `json:"mode"`
	Date     string        `json:"date,omitempty"`
	FromDate string        `json:"fromDate,omitempty"`
	ToDate   string        `json:"toDate,omitempty"`
	Slots    []SlotPayload `json:"slots,omitempty"`
	Where    *Where        `json:"where,omitempty"`
	Patch    *Patch        `json:"patch,omitempty"`
	Limit    int           `json:"limit,omitempty"`
	Raw      bool          `json:"raw,omitempty"`
}

// SlotView is the transport projection of a slot.
type SlotView struct {
	StartMinute int    `json:"startMinute"`
	EndMinute   int    `json:"endMinute"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Label       string `json:"label"`
	Notes       string `json:"notes,omitempty"`
	GroupID     string `json:"groupId,omitempty"`
}

// DayView pairs a date with its slot views.
type DayView struct {
	Date  string     `json:"date"`
	Slots []SlotView `json:"slots"`
}

// Response is the success-or-error envelope every CRUD call returns. OK is
// false exactly when Error is set; the endpoint never raises an uncaught
// fault instead of answering.
type Response struct {
	OK      bool      `json:"ok"`
	Error   string    `json:"error,omitempty"`
	Days    []DayView `json:"days,omitempty"`
	Created int       `json:"created,omitempty"`
	Updated int       `json:"updated,omitempty"`
	Deleted int       `json:"deleted,omitempty"`
}

func errorResponse(err error) Response {
	return Response{OK: false, Error: err.Error()}
}

// Do dispatches a request to the matching engine operation and wraps the
// outcome in the response envelope.
func (e *Engine) Do(ctx context.Context, req Request) Response {
	mode, err := timeline.ParseMode(req.Mode)
	if err != nil {
		return errorResponse(err)
	}

	switch req.Action {
	case "read":
		from := req.FromDate
		if from == "" {
			from = req.Date
		}
		if from == "" {
			return errorResponse(fmt.Errorf("read requires fromDate"))
		}
		days, err := e.Read(ctx, mode, from, req.ToDate, req.Where)
		if err != nil {
			return errorResponse(err)
		}
		views := make([]DayView, 0, len(days))
		for _, d := range days {
			views = append(views, DayView{Date: d.Date, Slots: ToViews(d.Slots)})
		}
		return Response{OK: true, Days: views}

	case "create":
		if req.Date == "" {
			return errorResponse(fmt.Errorf("create requires date"))
		}
		if len(req.Slots) == 0 {
			return errorResponse(fmt.Errorf("create requires at least one slot"))
		}
		var created []timeline.TimeSlot
		if req.Raw {
			created, err = e.Append(ctx, mode, req.Date, req.Slots)
		} else {
			created, err = e.Create(ctx, mode, req.Date, req.Slots)
		}
		if err != nil {
			return errorResponse(err)
		}
		return Response{OK: true, Created: len(created), Days: []DayView{{Date: req.Date, Slots: ToViews(created)}}}

	case "update":
		if req.Date == "" {
			return errorResponse(fmt.Errorf("update requires date"))
		}
		if req.Patch == nil {
			return errorResponse(fmt.Errorf("update requires a patch"))
		}
		n, err := e.Update(ctx, mode, req.Date, req.Where, req.Patch, req.Limit)
		if err != nil {
			return errorResponse(err)
		}
		return Response{OK: true, Updated: n}

	case "delete":
		if req.Date == "" {
			return errorResponse(fmt.Errorf("delete requires date"))
		}
		n, err := e.Delete(ctx, mode, req.Date, req.Where, req.Limit)
		if err != nil {
			return errorResponse(err)
		}
		return Response{OK: true, Deleted: n}

	default:
		return errorResponse(fmt.Errorf("unknown action %q", req.Action))
	}
}

// ToViews projects slots into their transport shape, hiding internal
// identity and timestamps.
func ToViews(slots []timeline.TimeSlot) []SlotView {
	views := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, SlotView{
			StartMinute: s.StartMinute,
			EndMinute:   s.EndMinute,
			StartTime:   timeline.FormatClock(s.StartMinute),
			EndTime:     timeline.FormatClock(s.EndMinute),
			Label:       s.Label,
			Notes:       s.Notes,
			GroupID:     s.GroupID,
		})
	}
	return views
}
