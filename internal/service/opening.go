package service

import (
	"context"
	"fmt"
	"time"

	"LineSync/internal/model"
	"LineSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// OpeningDecision 开盘检测结果
type OpeningDecision struct {
	Captured bool               // 本轮首次捕获
	Record   *model.OpeningLine // 账本记录，未捕获且账本为空时为 nil
}

// OpeningDetector 开盘线检测：账本里没有且共识有效时写入一次，之后不再变化
type OpeningDetector struct {
	repo   repository.OpeningLineRepository
	logger *logrus.Logger
}

func NewOpeningDetector(repo repository.OpeningLineRepository, logger *logrus.Logger) *OpeningDetector {
	return &OpeningDetector{repo: repo, logger: logger}
}

// Detect 账本已有记录直接返回；否则共识有效才捕获，全零报价留到下一轮再判断
func (d *OpeningDetector) Detect(ctx context.Context, sport, gameID string, consensus *model.ConsensusQuote, now time.Time) (*OpeningDecision, error) {
	existing, err := d.repo.ReadFirst(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("读取开盘账本失败: %w", err)
	}
	if existing != nil {
		return &OpeningDecision{Record: existing}, nil
	}
	if !consensus.IsValidOpening() {
		d.logger.WithFields(logrus.Fields{
			"sport":   sport,
			"game_id": gameID,
		}).Debug("共识全为默认值，暂不记录开盘")
		return &OpeningDecision{}, nil
	}

	record := &model.OpeningLine{
		GameID:         gameID,
		Sport:          sport,
		FirstSeenAt:    now,
		OpeningSpread:  consensus.Spread,
		OpeningTotal:   consensus.Total,
		OpeningMLHome:  consensus.HomeML,
		OpeningMLAway:  consensus.AwayML,
		BookmakerCount: consensus.BookmakerCount,
	}
	if err := d.repo.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("写入开盘账本失败: %w", err)
	}
	d.logger.WithFields(logrus.Fields{
		"sport":   sport,
		"game_id": gameID,
		"spread":  record.OpeningSpread,
		"total":   record.OpeningTotal,
		"books":   record.BookmakerCount,
	}).Info("捕获开盘线")
	return &OpeningDecision{Captured: true, Record: record}, nil
}
