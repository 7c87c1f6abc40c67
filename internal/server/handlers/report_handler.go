package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/buffalo/internal/scheduler"
)

// ReportRunner builds and dispatches the fleet report on demand.
type ReportRunner interface {
	RunReport(ctx context.Context) (scheduler.Outcome, error)
}

// ReportHandler triggers the fleet report outside the cron schedule.
type ReportHandler struct {
	runner ReportRunner
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(runner ReportRunner, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{runner: runner, logger: logger}
}

// Send runs the report now and returns the per-destination outcome.
func (h *ReportHandler) Send(c *gin.Context) {
	outcome, err := h.runner.RunReport(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}
