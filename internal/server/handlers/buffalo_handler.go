package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/buffalo/internal/service/buffalos"
	"github.com/mamadbah2/buffalo/internal/service/forms"
)

// BuffaloHandler exposes the buffalo record flows over HTTP.
type BuffaloHandler struct {
	svc    *buffalos.Service
	logger *zap.Logger
}

// NewBuffaloHandler constructs the HTTP handler adapter.
func NewBuffaloHandler(svc *buffalos.Service, logger *zap.Logger) *BuffaloHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BuffaloHandler{svc: svc, logger: logger}
}

// List renders the listing rows and the fleet summary.
func (h *BuffaloHandler) List(c *gin.Context) {
	listing, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Dashboard renders the fleet summary with chart series.
func (h *BuffaloHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// Create registers a new buffalo.
func (h *BuffaloHandler) Create(c *gin.Context) {
	var form forms.BuffaloForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}

	record, err := h.svc.Create(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Detail renders one record with its derived figures.
func (h *BuffaloHandler) Detail(c *gin.Context) {
	detail, err := h.svc.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Breakdown renders the per-shareholder view of one record.
func (h *BuffaloHandler) Breakdown(c *gin.Context) {
	breakdown, err := h.svc.Breakdown(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// UpdateInfo edits the base fields and other expenses.
func (h *BuffaloHandler) UpdateInfo(c *gin.Context) {
	var form forms.BuffaloForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}

	record, err := h.svc.UpdateInfo(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// UpdateExpenses replaces the other expenses list.
func (h *BuffaloHandler) UpdateExpenses(c *gin.Context) {
	var form forms.ExpenseForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}

	record, err := h.svc.UpdateExpenses(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// UpdateShareholders replaces the shareholders list.
func (h *BuffaloHandler) UpdateShareholders(c *gin.Context) {
	var form forms.ShareholderForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}

	record, err := h.svc.UpdateShareholders(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// UpdateWeight records post-slaughter weights.
func (h *BuffaloHandler) UpdateWeight(c *gin.Context) {
	var form forms.WeightForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}

	record, err := h.svc.UpdateWeight(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Delete removes the record permanently.
func (h *BuffaloHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
