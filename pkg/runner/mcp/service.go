// Package mcp provides the Model Context Protocol server integration for
// dayring: the tool bridge an external agent runtime uses to read and
// mutate the day clock through the vault CRUD engine.
package mcp

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/dayring/pkg/engine"
)

// Service coordinates engine-backed operations shared by the MCP server.
type Service struct {
	Engine *engine.Engine
}

// NewService builds a service wrapper over the CRUD engine.
func NewService(e *engine.Engine) *Service {
	return &Service{Engine: e}
}

// TodayContext grounds relative-date questions: the current local date,
// time, and timezone label.
type TodayContext struct {
	Today    string `json:"today"`
	NowISO   string `json:"nowIso"`
	Timezone string `json:"timezone"`
}

// Today returns the current local date/time context.
func (s *Service) Today() TodayContext {
	now := time.Now()
	zone, _ := now.Zone()
	return TodayContext{
		Today:    now.Format("2006-01-02"),
		NowISO:   now.Format(time.RFC3339),
		Timezone: zone,
	}
}

// Do forwards a CRUD request to the engine, defaulting empty dates to
// today so agents can omit them.
func (s *Service) Do(ctx context.Context, req engine.Request) (engine.Response, error) {
	if s.Engine == nil {
		return engine.Response{}, errors.New("engine is not configured")
	}
	today := s.Today().Today
	switch req.Action {
	case "read":
		if req.FromDate == "" && req.Date == "" {
			req.FromDate = today
		}
	default:
		if req.Date == "" {
			req.Date = today
		}
	}
	return s.Engine.Do(ctx, req), nil
}
