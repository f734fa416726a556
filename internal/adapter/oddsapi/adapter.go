package oddsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"LineSync/internal/adapter"
	"LineSync/internal/config"
	"LineSync/internal/interfaces"
	"LineSync/internal/model"
	"LineSync/internal/utils/httpclient"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.the-odds-api.com"

type Adapter struct {
	cfg    *config.ProviderConfig
	client *resty.Client
	logger *logrus.Logger
}

func NewOddsAPIAdapter(cfg *config.ProviderConfig, logger *logrus.Logger) interfaces.OddsProvider {
	return &Adapter{
		cfg:    cfg,
		client: httpclient.NewRestyClient(cfg, logger),
		logger: logger,
	}
}

// GetName ========== 实现OddsProvider接口 ==========
func (a *Adapter) GetName() string {
	return config.ProviderOdds
}

// FetchOdds 拉取某运动所有比赛的美式赔率（让分、大小分、独赢）
func (a *Adapter) FetchOdds(ctx context.Context, sport *config.SportConfig) ([]model.OddsAPIGame, error) {
	if a.cfg.AuthKey == "" {
		return nil, fmt.Errorf("%s未配置API Key", a.GetName())
	}
	markets := sport.Markets
	if len(markets) == 0 {
		markets = []string{"spreads", "totals", "h2h"}
	}
	regions := a.cfg.Regions
	if regions == "" {
		regions = "us"
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apiKey":     a.cfg.AuthKey,
			"regions":    regions,
			"markets":    strings.Join(markets, ","),
			"oddsFormat": "american",
		}).
		Get(a.oddsURL(sport.OddsKey))
	if err != nil {
		return nil, fmt.Errorf("获取%s赔率失败: %w", sport.Sport, a.redact(err))
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("获取%s赔率失败: HTTP %d: %s", sport.Sport, resp.StatusCode(), truncate(resp.String(), 200))
	}

	var games []model.OddsAPIGame
	if err := json.Unmarshal(resp.Body(), &games); err != nil {
		return nil, fmt.Errorf("解析%s赔率失败: %w", sport.Sport, err)
	}

	a.logger.WithFields(logrus.Fields{
		"sport":              sport.Sport,
		"games":              len(games),
		"requests_remaining": resp.Header().Get("x-requests-remaining"),
	}).Info("赔率拉取完成")
	return games, nil
}

func (a *Adapter) oddsURL(oddsKey string) string {
	base := strings.TrimRight(a.cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	return fmt.Sprintf("%s/v4/sports/%s/odds", base, oddsKey)
}

// redact 传输错误（*url.Error）会带上含 apiKey 的完整 URL，只保留方法和底层错误
func (a *Adapter) redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		err = fmt.Errorf("%s %s: %w", ue.Op, a.oddsPath(ue.URL), ue.Err)
	}
	if a.cfg.AuthKey != "" && strings.Contains(err.Error(), a.cfg.AuthKey) {
		return errors.New(strings.ReplaceAll(err.Error(), a.cfg.AuthKey, "***"))
	}
	return err
}

func (a *Adapter) oddsPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Path
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func init() {
	adapter.RegisterOdds(config.ProviderOdds, NewOddsAPIAdapter)
}
