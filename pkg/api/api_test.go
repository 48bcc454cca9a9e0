package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"tableflip.dev/dayring/pkg/engine"
	"tableflip.dev/dayring/pkg/timeline"
	"tableflip.dev/dayring/pkg/vault"
)

func newTestRouter(t *testing.T) (*gin.Engine, *vault.Vault) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	v, err := vault.New(t.TempDir())
	if err != nil {
		t.Fatalf("vault.New: %v", err)
	}
	h := &Handler{
		Engine: engine.New(engine.VaultSource{V: v}),
		Vault:  v,
	}
	return NewRouter(h), v
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCRUDCreateThenRead(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/vault/crud", engine.Request{
		Action: "create",
		Mode:   "plan",
		Date:   "2024-01-02",
		Slots:  []engine.SlotPayload{{StartMinute: 540, EndMinute: 600, Label: "Write"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp engine.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OK || resp.Created != 1 {
		t.Fatalf("create response = %+v", resp)
	}

	w = doJSON(t, r, http.MethodPost, "/api/vault/crud", engine.Request{
		Action:   "read",
		Mode:     "plan",
		FromDate: "2024-01-02",
	})
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OK || len(resp.Days) != 1 || len(resp.Days[0].Slots) != 1 {
		t.Fatalf("read response = %+v", resp)
	}
	if resp.Days[0].Slots[0].Label != "Write" || resp.Days[0].Slots[0].StartTime != "09:00" {
		t.Fatalf("unexpected slot view: %+v", resp.Days[0].Slots[0])
	}
}

func TestCRUDOverlapIsDomainError(t *testing.T) {
	r, _ := newTestRouter(t)

	create := func(start, end int, label string) engine.Response {
		w := doJSON(t, r, http.MethodPost, "/api/vault/crud", engine.Request{
			Action: "create",
			Mode:   "plan",
			Date:   "2024-01-02",
			Slots:  []engine.SlotPayload{{StartMinute: start, EndMinute: end, Label: label}},
		})
		if w.Code != http.StatusOK {
			t.Fatalf("domain errors must still answer 200, got %d", w.Code)
		}
		var resp engine.Response
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp
	}

	if resp := create(540, 600, "Write"); !resp.OK {
		t.Fatalf("first create failed: %+v", resp)
	}
	resp := create(570, 630, "Clash")
	if resp.OK || resp.Error == "" {
		t.Fatalf("expected ok=false with an error, got %+v", resp)
	}

	// The stored set must be unchanged by the rejected create.
	w := doJSON(t, r, http.MethodPost, "/api/vault/crud", engine.Request{
		Action: "read", Mode: "plan", FromDate: "2024-01-02",
	})
	var read engine.Response
	if err := json.Unmarshal(w.Body.Bytes(), &read); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(read.Days[0].Slots) != 1 {
		t.Fatalf("expected 1 stored slot, got %d", len(read.Days[0].Slots))
	}
}

func TestCRUDBadJSONIs400(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/vault/crud", bytes.NewBufferString("{nope"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPullEndpoint(t *testing.T) {
	r, v := newTestRouter(t)
	ctx := context.Background()

	if err := v.Push(ctx, "2024-01-02", []timeline.TimeSlot{timeline.NewSlot(540, 600, "Deep work", "")}, nil); err != nil {
		t.Fatalf("vault push: %v", err)
	}

	w := doJSON(t, r, http.MethodGet, "/api/vault/pull/2024-01-02", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		OK   bool              `json:"ok"`
		Date string            `json:"date"`
		Plan []engine.SlotView `json:"plan"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OK || resp.Date != "2024-01-02" || len(resp.Plan) != 1 {
		t.Fatalf("pull response = %+v", resp)
	}
	if resp.Plan[0].StartTime != "09:00" || resp.Plan[0].Label != "Deep work" {
		t.Fatalf("unexpected slot view: %+v", resp.Plan[0])
	}

	// The view projection must not leak internal identity or timestamps.
	var raw struct {
		Plan []map[string]any `json:"plan"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	for _, field := range []string{"id", "createdAt", "updatedAt"} {
		if _, found := raw.Plan[0][field]; found {
			t.Fatalf("pull must not expose %q: %v", field, raw.Plan[0])
		}
	}

	w = doJSON(t, r, http.MethodGet, "/api/vault/pull/bogus", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad date status = %d, want 400", w.Code)
	}
}

func TestPushEndpointPreservesSuperseded(t *testing.T) {
	r, v := newTestRouter(t)
	ctx := context.Background()

	retired := timeline.NewSlot(840, 900, "Review", "")
	if err := v.Push(ctx, "2024-01-02", []timeline.TimeSlot{retired}, nil); err != nil {
		t.Fatalf("vault push: %v", err)
	}
	if err := v.Supersede(ctx, "2024-01-02", retired, timeline.Now().Time); err != nil {
		t.Fatalf("vault supersede: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/vault/push/2024-01-02", map[string]any{
		"plan":       []engine.SlotPayload{{StartMinute: 540, EndMinute: 600, Label: "Deep work"}},
		"retrospect": []engine.SlotPayload{},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	doc, _, err := v.Pull(ctx, "2024-01-02")
	if err != nil {
		t.Fatalf("vault pull: %v", err)
	}
	if len(doc.Plan) != 1 || doc.Plan[0].Label != "Deep work" {
		t.Fatalf("unexpected plan after push: %+v", doc.Plan)
	}
	if len(doc.Superseded) != 1 {
		t.Fatalf("push must preserve the audit log, got %v", doc.Superseded)
	}
}

func TestPushEndpointClampsMinutes(t *testing.T) {
	r, v := newTestRouter(t)
	ctx := context.Background()

	w := doJSON(t, r, http.MethodPost, "/api/vault/push/2024-01-02", map[string]any{
		"plan": []engine.SlotPayload{{StartMinute: -30, EndMinute: 1500, Label: "All day"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	doc, _, err := v.Pull(ctx, "2024-01-02")
	if err != nil {
		t.Fatalf("vault pull: %v", err)
	}
	if len(doc.Plan) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(doc.Plan))
	}
	if doc.Plan[0].StartMinute != 0 || doc.Plan[0].EndMinute != 1440 {
		t.Fatalf("minutes must clamp into the day, got [%d,%d)", doc.Plan[0].StartMinute, doc.Plan[0].EndMinute)
	}
}

func TestSupersedeEndpoint(t *testing.T) {
	r, v := newTestRouter(t)
	ctx := context.Background()

	slot := timeline.NewSlot(840, 900, "Review", "")
	if err := v.Push(ctx, "2024-01-02", []timeline.TimeSlot{slot}, nil); err != nil {
		t.Fatalf("vault push: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/vault/supersede", map[string]any{
		"date":        "2024-01-02",
		"startMinute": 840,
		"endMinute":   900,
		"label":       "Review",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	doc, _, err := v.Pull(ctx, "2024-01-02")
	if err != nil {
		t.Fatalf("vault pull: %v", err)
	}
	if len(doc.Plan) != 0 {
		t.Fatalf("expected an empty plan, got %+v", doc.Plan)
	}
	if len(doc.Superseded) != 1 {
		t.Fatalf("expected 1 audit line, got %v", doc.Superseded)
	}
}
