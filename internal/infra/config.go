package infra

import (
	"errors"
	"fmt"
	"os"
	"time"

	"entropy_go/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config는 스위프 실행에 필요한 모든 설정을 담습니다.
// LoadConfig로 로드된 후에 환경 변수를 통해 일부 값을 덮어씁니다.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Data struct {
		Source  string `yaml:"source"` // csv | sqlite | ws
		CSVPath string `yaml:"csv_path"`
		Symbol  string `yaml:"symbol"`
		WS      struct {
			URL     string `yaml:"url"`
			Symbol  string `yaml:"symbol"`
			MaxBars int    `yaml:"max_bars"`
		} `yaml:"ws"`
	} `yaml:"data"`

	Sweep struct {
		Bits             int             `yaml:"bits"`
		Periods          []int           `yaml:"periods"`
		ZScoreThresholds []*float64      `yaml:"zscore_thresholds"` // null entry = unfiltered run
		FeeBps           []float64       `yaml:"fee_bps"`
		InitialCapital   decimal.Decimal `yaml:"initial_capital"`
		BarResolution    string          `yaml:"bar_resolution"` // Go duration, e.g. "1h"
		Workers          int             `yaml:"workers"`        // 0 = GOMAXPROCS
		TopN             int             `yaml:"top_n"`
	} `yaml:"sweep"`

	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`

	Chart struct {
		Path   string `yaml:"path"`
		Width  int    `yaml:"width"`
		Height int    `yaml:"height"`
	} `yaml:"chart"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig는 설정 파일을 읽고 파싱합니다.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// 환경 변수 오버라이드 지원
	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	// Data source
	switch c.Data.Source {
	case "csv":
		if c.Data.CSVPath == "" {
			return domain.NewConfigError("data.csv_path", errors.New("required for csv source"))
		}
	case "sqlite":
		if c.Storage.Path == "" {
			return domain.NewConfigError("storage.path", errors.New("required for sqlite source"))
		}
	case "ws":
		if !hasPrefix(c.Data.WS.URL, "ws://") && !hasPrefix(c.Data.WS.URL, "wss://") {
			return domain.NewConfigError("data.ws.url", fmt.Errorf("invalid WS URL: %s", c.Data.WS.URL))
		}
		if c.Data.WS.MaxBars <= 0 {
			return domain.NewConfigError("data.ws.max_bars", errors.New("must be positive"))
		}
	default:
		return domain.NewConfigError("data.source", fmt.Errorf("unknown source: %s", c.Data.Source))
	}

	// Sweep grid
	if c.Sweep.Bits < 1 || c.Sweep.Bits > 8 {
		return domain.NewConfigError("sweep.bits", errors.New("must be in [1,8]"))
	}
	if len(c.Sweep.Periods) == 0 {
		return domain.NewConfigError("sweep.periods", domain.ErrEmptyGrid)
	}
	for _, p := range c.Sweep.Periods {
		if p <= 0 {
			return domain.NewConfigError("sweep.periods", errors.New("must be positive"))
		}
	}
	if len(c.Sweep.FeeBps) == 0 {
		return domain.NewConfigError("sweep.fee_bps", domain.ErrEmptyGrid)
	}
	for _, fee := range c.Sweep.FeeBps {
		if fee < 0 {
			return domain.NewConfigError("sweep.fee_bps", errors.New("must be >= 0"))
		}
	}
	if len(c.Sweep.ZScoreThresholds) == 0 {
		return domain.NewConfigError("sweep.zscore_thresholds", domain.ErrEmptyGrid)
	}
	for _, t := range c.Sweep.ZScoreThresholds {
		if t != nil && *t < 0 {
			return domain.NewConfigError("sweep.zscore_thresholds", errors.New("must be >= 0"))
		}
	}
	if !c.Sweep.InitialCapital.IsPositive() {
		return domain.NewConfigError("sweep.initial_capital", errors.New("must be > 0"))
	}
	if _, err := c.Resolution(); err != nil {
		return err
	}
	if c.Sweep.Workers < 0 {
		return domain.NewConfigError("sweep.workers", errors.New("must be >= 0"))
	}

	return nil
}

// Resolution parses the configured bar resolution.
func (c *Config) Resolution() (time.Duration, error) {
	d, err := time.ParseDuration(c.Sweep.BarResolution)
	if err != nil {
		return 0, domain.NewConfigError("sweep.bar_resolution", err)
	}
	if d <= 0 {
		return 0, domain.NewConfigError("sweep.bar_resolution", errors.New("must be positive"))
	}
	return d, nil
}

// TopRows returns the number of rows to print per ranked view.
func (c *Config) TopRows() int {
	if c.Sweep.TopN <= 0 {
		return 5
	}
	return c.Sweep.TopN
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv는 환경 변수가 존재할 경우 설정 값을 덮어씁니다.
func overrideWithEnv(cfg *Config) {
	if path := os.Getenv("ENTROPY_CSV_PATH"); path != "" {
		cfg.Data.CSVPath = path
	}
	if path := os.Getenv("ENTROPY_DB_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if url := os.Getenv("ENTROPY_WS_URL"); url != "" {
		cfg.Data.WS.URL = url
	}
}
