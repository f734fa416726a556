// internal/adapter/registry.go
package adapter

import (
	"fmt"
	"sort"

	"LineSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// ========== 全局工厂函数注册表 ==========
var (
	oddsFactories   = make(map[string]interfaces.OddsFactory)
	splitsFactories = make(map[string]interfaces.SplitsFactory)
)

// RegisterOdds 供赔率适配器 init 调用
func RegisterOdds(name string, factory interfaces.OddsFactory) {
	if factory == nil {
		panic(fmt.Sprintf("数据源%s的工厂函数不能为nil", name))
	}
	if _, exists := oddsFactories[name]; exists {
		logrus.Warnf("数据源%s已注册，将覆盖原有实现", name)
	}
	oddsFactories[name] = factory
}

// RegisterSplits 供投注分布适配器 init 调用
func RegisterSplits(name string, factory interfaces.SplitsFactory) {
	if factory == nil {
		panic(fmt.Sprintf("数据源%s的工厂函数不能为nil", name))
	}
	if _, exists := splitsFactories[name]; exists {
		logrus.Warnf("数据源%s已注册，将覆盖原有实现", name)
	}
	splitsFactories[name] = factory
}

// ListFactories 列出所有已注册的数据源
func ListFactories() []string {
	var names []string
	for n := range oddsFactories {
		names = append(names, n)
	}
	for n := range splitsFactories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
