package api

import (
	"context"
	"net/http"
	"time"

	"LineSync/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Runner 同步入口，由 service.SyncService 实现
type Runner interface {
	Run(ctx context.Context) *model.RunSummary
}

type SyncHandler struct {
	runner  Runner
	timeout time.Duration
	logger  *logrus.Logger
}

func NewSyncHandler(runner Runner, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{
		runner:  runner,
		timeout: 5 * time.Minute,
		logger:  logger,
	}
}

// RunSync 手动触发一轮同步
// @Summary 触发一轮赔率同步
// @Success 200 {object} model.RunSummary
// @Router /sync/run [post]
func (h *SyncHandler) RunSync(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	summary := h.runner.Run(ctx)
	h.logger.WithFields(logrus.Fields{
		"run_id":    summary.RunID,
		"processed": summary.TotalGamesProcessed,
	}).Info("手动同步完成")

	// 部分运动或单场失败也按成功返回，细节在 results 里
	c.JSON(http.StatusOK, summary)
}
