package sportsdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"LineSync/internal/adapter"
	"LineSync/internal/config"
	"LineSync/internal/interfaces"
	"LineSync/internal/model"
	"LineSync/internal/utils/httpclient"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.sportsdata.io"

type Adapter struct {
	cfg    *config.ProviderConfig
	client *resty.Client
	logger *logrus.Logger
}

func NewSportsDataAdapter(cfg *config.ProviderConfig, logger *logrus.Logger) interfaces.SplitsProvider {
	return &Adapter{
		cfg:    cfg,
		client: httpclient.NewRestyClient(cfg, logger),
		logger: logger,
	}
}

func (a *Adapter) GetName() string {
	return config.ProviderSplits
}

// FetchSchedule 按天拉取赛程；单日失败只记日志，不影响其它日期
func (a *Adapter) FetchSchedule(ctx context.Context, sport *config.SportConfig, from, to time.Time) ([]model.SplitsScheduleGame, error) {
	endpoint := sport.ScheduleEndpoint
	if endpoint == "" {
		endpoint = "GamesByDate"
	}
	var (
		all      []model.SplitsScheduleGame
		failures int
		days     int
	)
	for day := truncateDay(from); !day.After(truncateDay(to)); day = day.AddDate(0, 0, 1) {
		days++
		url := fmt.Sprintf("%s/v3/%s/scores/json/%s/%s", a.baseURL(), sport.SplitsPath, endpoint, day.Format("2006-01-02"))
		var games []model.SplitsScheduleGame
		if err := a.getJSON(ctx, url, &games); err != nil {
			if errors.Is(err, interfaces.ErrNoData) {
				continue
			}
			failures++
			a.logger.WithError(err).WithFields(logrus.Fields{
				"sport": sport.Sport,
				"date":  day.Format("2006-01-02"),
			}).Warn("拉取赛程失败")
			continue
		}
		all = append(all, games...)
	}
	if days > 0 && failures == days {
		return nil, fmt.Errorf("%s赛程全部拉取失败（%d天）", sport.Sport, days)
	}
	return all, nil
}

// FetchSplits 拉取单场投注分布。NFL 按 ScoreID，其余按 GameID
func (a *Adapter) FetchSplits(ctx context.Context, sport *config.SportConfig, gameID int64) (*model.SplitsGame, error) {
	endpoint := sport.SplitsEndpoint
	if endpoint == "" {
		endpoint = "BettingSplitsByGameId"
	}
	url := fmt.Sprintf("%s/v3/%s/odds/json/%s/%d", a.baseURL(), sport.SplitsPath, endpoint, gameID)
	var splits model.SplitsGame
	if err := a.getJSON(ctx, url, &splits); err != nil {
		return nil, err
	}
	if len(splits.BettingMarketSplits) == 0 {
		return nil, interfaces.ErrNoData
	}
	return &splits, nil
}

func (a *Adapter) getJSON(ctx context.Context, url string, out interface{}) error {
	if a.cfg.AuthKey == "" {
		return fmt.Errorf("%s未配置API Key", a.GetName())
	}
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Ocp-Apim-Subscription-Key", a.cfg.AuthKey).
		Get(url)
	if err != nil {
		return fmt.Errorf("请求%s失败: %w", url, err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return interfaces.ErrNoData
	default:
		return fmt.Errorf("请求%s失败: HTTP %d", url, resp.StatusCode())
	}
	body := resp.Body()
	if len(body) == 0 || string(body) == "null" {
		return interfaces.ErrNoData
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("解析%s响应失败: %w", url, err)
	}
	return nil
}

func (a *Adapter) baseURL() string {
	base := strings.TrimRight(a.cfg.BaseURL, "/")
	if base == "" {
		return defaultBaseURL
	}
	return base
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func init() {
	adapter.RegisterSplits(config.ProviderSplits, NewSportsDataAdapter)
}
