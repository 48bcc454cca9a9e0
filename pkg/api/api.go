// Package api exposes the vault CRUD engine over plain HTTP so external
// agent runtimes can call it. The request and response shapes are the
// engine envelope and are stable: tooling bridges bind to them directly.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tableflip.dev/dayring/pkg/engine"
	"tableflip.dev/dayring/pkg/reconciler"
	"tableflip.dev/dayring/pkg/timeline"
	"tableflip.dev/dayring/pkg/vault"
)

// Handler serves the generic CRUD endpoint and the pull/push/supersede
// operations against the vault.
type Handler struct {
	Engine     *engine.Engine
	Vault      *vault.Vault
	Reconciler *reconciler.Reconciler
}

// NewRouter builds the gin engine with all vault routes mounted.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/vault")
	api.POST("/crud", h.CRUD)
	api.GET("/pull/:date", h.Pull)
	api.POST("/push/:date", h.Push)
	api.POST("/supersede", h.Supersede)

	return r
}

// CRUD accepts a tagged action request and always answers with the
// engine's success-or-error envelope.
func (h *Handler) CRUD(c *gin.Context) {
	var req engine.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, engine.Response{OK: false, Error: "invalid request body: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.Engine.Do(c.Request.Context(), req))
}

// Pull returns the decoded plan and retrospect sections for a date along
// with the resolved document path.
func (h *Handler) Pull(c *gin.Context) {
	date, err := timeline.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	doc, path, err := h.Vault.Pull(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"date":       date,
		"path":       path,
		"plan":       engine.ToViews(doc.Plan),
		"retrospect": engine.ToViews(doc.Retrospect),
	})
}

type pushRequest struct {
	Plan       []engine.SlotPayload `json:"plan"`
	Retrospect []engine.SlotPayload `json:"retrospect"`
}

// Push replaces both sections of a date's document, preserving the
// Superseded Plans log.
func (h *Handler) Push(c *gin.Context) {
	date, err := timeline.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	var req pushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body: " + err.Error()})
		return
	}
	if err := h.Vault.Push(c.Request.Context(), date, toSlots(req.Plan), toSlots(req.Retrospect)); err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "date": date})
}

type supersedeRequest struct {
	Date        string `json:"date"`
	StartMinute int    `json:"startMinute"`
	EndMinute   int    `json:"endMinute"`
	Label       string `json:"label"`
	Notes       string `json:"notes"`
}

// Supersede retires a plan slot into the audit log. When a reconciler is
// wired, both replicas are updated; otherwise only the vault changes.
func (h *Handler) Supersede(c *gin.Context) {
	var req supersedeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body: " + err.Error()})
		return
	}
	date, err := timeline.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	slot := timeline.NewSlot(req.StartMinute, req.EndMinute, req.Label, req.Notes)
	if h.Reconciler != nil {
		err = h.Reconciler.Supersede(c.Request.Context(), date, slot)
	} else {
		err = h.Vault.Supersede(c.Request.Context(), date, slot, time.Now())
	}
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "date": date})
}

// toSlots converts raw push payloads, clamping minutes into the day so an
// out-of-range caller value cannot land in the document.
func toSlots(payloads []engine.SlotPayload) []timeline.TimeSlot {
	slots := make([]timeline.TimeSlot, 0, len(payloads))
	for _, p := range payloads {
		start, end := timeline.Normalize(p.StartMinute, p.EndMinute)
		slots = append(slots, timeline.NewSlot(start, end, p.Label, p.Notes))
	}
	return slots
}
