package interfaces

import (
	"context"
	"errors"
	"time"

	"LineSync/internal/config"
	"LineSync/internal/model"

	"github.com/sirupsen/logrus"
)

// ErrNoData 数据源返回 404 或空响应（比赛暂无投注分布、当天无赛程），不算失败
var ErrNoData = errors.New("provider: no data")

// OddsProvider 赔率数据源：返回某运动窗口内所有比赛及各书商原始报价
type OddsProvider interface {
	GetName() string
	FetchOdds(ctx context.Context, sport *config.SportConfig) ([]model.OddsAPIGame, error)
}

// SplitsProvider 公众投注分布数据源
type SplitsProvider interface {
	GetName() string
	// FetchSchedule 拉取 [from, to] 日期范围内的赛程
	FetchSchedule(ctx context.Context, sport *config.SportConfig, from, to time.Time) ([]model.SplitsScheduleGame, error)
	// FetchSplits 拉取单场比赛的投注分布
	FetchSplits(ctx context.Context, sport *config.SportConfig, gameID int64) (*model.SplitsGame, error)
}

// SignalCalculator 外部信号计算器，输出原样挂到比赛行上
type SignalCalculator interface {
	Calculate(in *model.SignalInput) model.SignalSet
}

// OddsFactory / SplitsFactory 数据源工厂函数签名
type OddsFactory func(cfg *config.ProviderConfig, logger *logrus.Logger) OddsProvider

type SplitsFactory func(cfg *config.ProviderConfig, logger *logrus.Logger) SplitsProvider
