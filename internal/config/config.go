package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// TeamIDBlockSize 每个运动分配的球队ID区间大小：[floor, floor+TeamIDBlockSize)
const TeamIDBlockSize int64 = 100000

// 数据源名称（providers 配置的 key）
const (
	ProviderOdds   = "theoddsapi"
	ProviderSplits = "sportsdataio"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server    ServerConfig              `mapstructure:"server"`    // 服务器配置
	Database  DatabaseConfig            `mapstructure:"database"`  // PostgreSQL配置
	Redis     RedisConfig               `mapstructure:"redis"`     // Redis缓存配置（可选）
	Sync      SyncConfig                `mapstructure:"sync"`      // 同步调度配置
	Lifecycle LifecycleConfig           `mapstructure:"lifecycle"` // 比赛生命周期阈值
	Providers map[string]ProviderConfig `mapstructure:"providers"` // 数据源独立配置
	Sports    []SportConfig             `mapstructure:"sports"`    // 运动列表
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// DatabaseConfig PostgreSQL数据库配置
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN（URL 形式）
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
	LogSQL          bool          `mapstructure:"log_sql"`           // 是否打印SQL
}

// RedisConfig Redis配置，Addr 为空时不启用缓存
type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	SplitsTTL time.Duration `mapstructure:"splits_ttl"` // 投注分布响应缓存时长
}

// Enabled 是否配置了Redis
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// SyncConfig 同步调度配置
type SyncConfig struct {
	Cron              string `mapstructure:"cron"`               // 全局同步Cron表达式（带秒）
	RunOnStart        bool   `mapstructure:"run_on_start"`       // 启动后立即跑一轮
	SplitsMaxLookups  int    `mapstructure:"splits_max_lookups"` // 每个运动每轮最多查询的投注分布场次
	SplitsConcurrency int    `mapstructure:"splits_concurrency"` // 投注分布并发上限
}

// LifecycleConfig 生命周期阈值
type LifecycleConfig struct {
	ClosingSoonWindow time.Duration `mapstructure:"closing_soon_window"` // 开赛前多久进入 closing_soon
	CompletedAfter    time.Duration `mapstructure:"completed_after"`     // 开赛后多久视为结束
	ArchivedAfter     time.Duration `mapstructure:"archived_after"`      // 开赛后多久归档
}

// ProviderConfig 单个数据源的独立配置
type ProviderConfig struct {
	BaseURL    string `mapstructure:"base_url"`    // API基础地址
	Timeout    int    `mapstructure:"timeout"`     // 请求超时（秒）
	RetryCount int    `mapstructure:"retry_count"` // 重试次数
	AuthKey    string `mapstructure:"auth_key"`    // API Key
	Proxy      string `mapstructure:"proxy"`       // 代理地址
	Regions    string `mapstructure:"regions"`     // 赔率地区（the-odds-api）
}

// SportConfig 单个运动的配置
type SportConfig struct {
	Sport            string   `mapstructure:"sport"`             // 内部运动代码：nfl/nba/nhl/cfb/mlb
	OddsKey          string   `mapstructure:"odds_key"`          // the-odds-api 运动 key
	Markets          []string `mapstructure:"markets"`           // 盘口类型
	Active           bool     `mapstructure:"active"`            // 是否参与同步
	SplitsPath       string   `mapstructure:"splits_path"`       // sportsdata 路径段
	ScheduleEndpoint string   `mapstructure:"schedule_endpoint"` // ScoresByDate / GamesByDate
	SplitsEndpoint   string   `mapstructure:"splits_endpoint"`   // BettingSplitsByScoreId / BettingSplitsByGameId
	SplitsWindowDays int      `mapstructure:"splits_window_days"`
	TeamIDFloor      int64    `mapstructure:"team_id_floor"`     // 球队ID区间下界
	FuzzyTeamNames   bool     `mapstructure:"fuzzy_team_names"`  // 名称不统一的运动（大学体育）启用首词模糊匹配
}

// TeamIDCeiling 球队ID区间上界（不含）
func (s *SportConfig) TeamIDCeiling() int64 {
	return s.TeamIDFloor + TeamIDBlockSize
}

// DefaultSports 未配置 sports 时使用的默认运动列表
func DefaultSports() []SportConfig {
	markets := []string{"spreads", "totals", "h2h"}
	return []SportConfig{
		{Sport: "nfl", OddsKey: "americanfootball_nfl", Markets: markets, Active: true, SplitsPath: "nfl",
			ScheduleEndpoint: "ScoresByDate", SplitsEndpoint: "BettingSplitsByScoreId", SplitsWindowDays: 7, TeamIDFloor: 100000},
		{Sport: "nba", OddsKey: "basketball_nba", Markets: markets, Active: true, SplitsPath: "nba",
			ScheduleEndpoint: "GamesByDate", SplitsEndpoint: "BettingSplitsByGameId", SplitsWindowDays: 3, TeamIDFloor: 200000},
		{Sport: "nhl", OddsKey: "icehockey_nhl", Markets: markets, Active: true, SplitsPath: "nhl",
			ScheduleEndpoint: "GamesByDate", SplitsEndpoint: "BettingSplitsByGameId", SplitsWindowDays: 3, TeamIDFloor: 300000},
		{Sport: "cfb", OddsKey: "americanfootball_ncaaf", Markets: markets, Active: true, SplitsPath: "cfb",
			ScheduleEndpoint: "ScoresByDate", SplitsEndpoint: "BettingSplitsByGameId", SplitsWindowDays: 7, TeamIDFloor: 400000, FuzzyTeamNames: true},
		{Sport: "mlb", OddsKey: "baseball_mlb", Markets: markets, Active: false, SplitsPath: "mlb",
			ScheduleEndpoint: "GamesByDate", SplitsEndpoint: "BettingSplitsByGameId", SplitsWindowDays: 3, TeamIDFloor: 500000},
	}
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在）
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	v.SetTypeByDefaultValue(true)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("redis.splits_ttl", 4*time.Minute)
	v.SetDefault("sync.cron", "0 */5 * * * *")
	v.SetDefault("sync.splits_max_lookups", 40)
	v.SetDefault("sync.splits_concurrency", 4)
	v.SetDefault("lifecycle.closing_soon_window", 30*time.Minute)
	v.SetDefault("lifecycle.completed_after", 4*time.Hour)
	v.SetDefault("lifecycle.archived_after", 7*24*time.Hour)
}

// applyDefaults 补齐 yaml 里缺失的列表型/零值配置
func (c *Config) applyDefaults() {
	if len(c.Sports) == 0 {
		c.Sports = DefaultSports()
	}
	for i := range c.Sports {
		if len(c.Sports[i].Markets) == 0 {
			c.Sports[i].Markets = []string{"spreads", "totals", "h2h"}
		}
		if c.Sports[i].SplitsWindowDays <= 0 {
			c.Sports[i].SplitsWindowDays = 3
		}
	}
	if c.Sync.SplitsConcurrency <= 0 {
		c.Sync.SplitsConcurrency = 4
	}
	if c.Lifecycle.ClosingSoonWindow <= 0 {
		c.Lifecycle.ClosingSoonWindow = 30 * time.Minute
	}
	if c.Lifecycle.CompletedAfter <= 0 {
		c.Lifecycle.CompletedAfter = 4 * time.Hour
	}
	if c.Lifecycle.ArchivedAfter <= 0 {
		c.Lifecycle.ArchivedAfter = 7 * 24 * time.Hour
	}
}

// Validate 校验运动配置：运动代码唯一、球队ID区间互不重叠
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Sports))
	sports := make([]SportConfig, len(c.Sports))
	copy(sports, c.Sports)
	for _, s := range sports {
		if s.Sport == "" {
			return fmt.Errorf("运动配置缺少 sport 字段")
		}
		if seen[s.Sport] {
			return fmt.Errorf("运动%s重复配置", s.Sport)
		}
		seen[s.Sport] = true
		if s.TeamIDFloor <= 0 {
			return fmt.Errorf("运动%s的 team_id_floor 必须为正数", s.Sport)
		}
	}
	sort.Slice(sports, func(i, j int) bool { return sports[i].TeamIDFloor < sports[j].TeamIDFloor })
	for i := 1; i < len(sports); i++ {
		if sports[i].TeamIDFloor < sports[i-1].TeamIDCeiling() {
			return fmt.Errorf("运动%s与%s的球队ID区间重叠", sports[i-1].Sport, sports[i].Sport)
		}
	}
	return nil
}

// ActiveSports 返回参与同步的运动
func (c *Config) ActiveSports() []SportConfig {
	var out []SportConfig
	for _, s := range c.Sports {
		if s.Active {
			out = append(out, s)
		}
	}
	return out
}

// Sport 按运动代码查找配置
func (c *Config) Sport(code string) (*SportConfig, bool) {
	for i := range c.Sports {
		if c.Sports[i].Sport == code {
			return &c.Sports[i], true
		}
	}
	return nil, false
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	if p, ok := cfg.Providers[ProviderOdds]; ok {
		if v := os.Getenv("ODDS_API_KEY"); v != "" {
			p.AuthKey = v
		}
		if v := os.Getenv("ODDS_API_PROXY"); v != "" {
			p.Proxy = v
		}
		cfg.Providers[ProviderOdds] = p
	}
	if p, ok := cfg.Providers[ProviderSplits]; ok {
		if v := os.Getenv("SPORTSDATA_API_KEY"); v != "" {
			p.AuthKey = v
		}
		cfg.Providers[ProviderSplits] = p
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
}
