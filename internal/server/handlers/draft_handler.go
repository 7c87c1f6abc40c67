package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/buffalo/internal/service/buffalos"
)

// DraftHandler exposes one draft form (expenses or shareholders) over HTTP.
type DraftHandler[T any] struct {
	flow   *buffalos.DraftFlow[T]
	logger *zap.Logger
}

// NewDraftHandler constructs a handler for the given draft flow.
func NewDraftHandler[T any](flow *buffalos.DraftFlow[T], logger *zap.Logger) *DraftHandler[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftHandler[T]{flow: flow, logger: logger}
}

// Register mounts the draft routes on group, which must carry the :id param.
func (h *DraftHandler[T]) Register(group *gin.RouterGroup) {
	group.POST("", h.Open)
	group.GET("", h.Get)
	group.DELETE("", h.Discard)
	group.POST("/rows", h.AddRow)
	group.PUT("/rows/:index", h.ReplaceRow)
	group.DELETE("/rows/:index", h.RemoveRow)
	group.POST("/submit", h.Submit)
}

// Open starts a draft from the stored record.
func (h *DraftHandler[T]) Open(c *gin.Context) {
	draft, err := h.flow.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, draft)
}

// Get returns the open draft.
func (h *DraftHandler[T]) Get(c *gin.Context) {
	draft, err := h.flow.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// AddRow appends the posted row.
func (h *DraftHandler[T]) AddRow(c *gin.Context) {
	var row T
	if err := c.ShouldBindJSON(&row); err != nil {
		badBody(c, h.logger, err)
		return
	}

	draft, err := h.flow.AddRow(c.Param("id"), row)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// ReplaceRow overwrites the row at :index.
func (h *DraftHandler[T]) ReplaceRow(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}
	var row T
	if err := c.ShouldBindJSON(&row); err != nil {
		badBody(c, h.logger, err)
		return
	}

	draft, err := h.flow.ReplaceRow(c.Param("id"), index, row)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// RemoveRow drops the row at :index.
func (h *DraftHandler[T]) RemoveRow(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}

	draft, err := h.flow.RemoveRow(c.Param("id"), index)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// Submit persists the draft and closes it.
func (h *DraftHandler[T]) Submit(c *gin.Context) {
	record, err := h.flow.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Discard closes the draft without writing.
func (h *DraftHandler[T]) Discard(c *gin.Context) {
	if err := h.flow.Discard(c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DraftHandler[T]) index(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "row index must be an integer"})
		return 0, false
	}
	return index, true
}
