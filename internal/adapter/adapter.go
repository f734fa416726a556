package adapter

import (
	"fmt"

	"LineSync/internal/config"
	"LineSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// Providers 本进程使用的数据源实例
type Providers struct {
	Odds   interfaces.OddsProvider
	Splits interfaces.SplitsProvider
}

// NewProviders 按 providers 配置从工厂注册表创建数据源实例。
// 赔率源必须存在；投注分布源缺失时返回 nil，比赛按中性分布处理
func NewProviders(cfg *config.Config, logger *logrus.Logger) (*Providers, error) {
	logger.WithField("factories", ListFactories()).Info("已注册的数据源工厂")

	oddsCfg, ok := cfg.Providers[config.ProviderOdds]
	if !ok {
		return nil, fmt.Errorf("未获取到数据源配置: %s", config.ProviderOdds)
	}
	oddsFactory, ok := oddsFactories[config.ProviderOdds]
	if !ok {
		return nil, fmt.Errorf("未找到数据源%s的工厂函数（init未注册？）", config.ProviderOdds)
	}
	p := &Providers{Odds: oddsFactory(&oddsCfg, logger)}

	splitsCfg, ok := cfg.Providers[config.ProviderSplits]
	if !ok {
		logger.Warnf("未配置%s，公众投注分布将使用中性默认值", config.ProviderSplits)
		return p, nil
	}
	splitsFactory, ok := splitsFactories[config.ProviderSplits]
	if !ok {
		return nil, fmt.Errorf("未找到数据源%s的工厂函数（init未注册？）", config.ProviderSplits)
	}
	p.Splits = splitsFactory(&splitsCfg, logger)
	return p, nil
}
