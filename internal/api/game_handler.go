package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"LineSync/internal/model"
	"LineSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GameQuerier 比赛查询，由 service.GameQueryService 实现
type GameQuerier interface {
	ListGames(ctx context.Context, filter service.GameListFilter, page, pageSize int) (*service.GameListResult, error)
	GetGameDetail(ctx context.Context, gameID string, snapshotLimit int) (*service.GameDetail, error)
}

// GameHandler 提供给展示层的比赛查询接口
type GameHandler struct {
	games  GameQuerier
	logger *logrus.Logger
}

func NewGameHandler(games GameQuerier, logger *logrus.Logger) *GameHandler {
	return &GameHandler{games: games, logger: logger}
}

var validStatus = map[string]bool{
	model.GameStatusUpcoming:    true,
	model.GameStatusClosingSoon: true,
	model.GameStatusInProgress:  true,
	model.GameStatusCompleted:   true,
	model.GameStatusArchived:    true,
}

// ListGames 比赛列表
// GET /api/games?sport=nfl&status=upcoming&page=1&page_size=20
func (h *GameHandler) ListGames(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !validStatus[status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status: " + status})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := service.GameListFilter{
		Sport:  c.Query("sport"),
		Status: status,
	}
	result, err := h.games.ListGames(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListGames failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetGameDetail 单场详情（含开盘账本与最近快照）
// GET /api/games/:game_id?snapshots=20
func (h *GameHandler) GetGameDetail(c *gin.Context) {
	gameID := c.Param("game_id")
	if gameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game_id is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("snapshots", "20"))

	result, err := h.games.GetGameDetail(c.Request.Context(), gameID, limit)
	if errors.Is(err, service.ErrGameNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("GetGameDetail failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Health 存活检查
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
