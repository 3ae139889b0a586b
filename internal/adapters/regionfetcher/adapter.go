package regionfetcher

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
)

// Config - параметры доступа к справочнику регионов.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Delay     time.Duration
	UserAgent string
}

// RegionFetcherAdapter загружает списки регионов из внешнего JSON-справочника.
type RegionFetcherAdapter struct {
	// родительский коллектор, клоны наследуют лимиты
	collector *colly.Collector
	baseURL   *url.URL
}

// NewRegionFetcherAdapter - конструктор
func NewRegionFetcherAdapter(cfg Config) (*RegionFetcherAdapter, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("RegionFetcherAdapter: invalid base URL %q", cfg.BaseURL)
	}

	options := []colly.CollectorOption{
		colly.AllowedDomains(base.Hostname()),
		colly.AllowURLRevisit(),
	}
	if cfg.UserAgent != "" {
		options = append(options, colly.UserAgent(cfg.UserAgent))
	}
	c := colly.NewCollector(options...)

	if cfg.Timeout > 0 {
		c.SetRequestTimeout(cfg.Timeout)
	}

	err = c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		RandomDelay: cfg.Delay,
	})
	if err != nil {
		return nil, fmt.Errorf("RegionFetcherAdapter: failed to set limit rule: %w", err)
	}

	return &RegionFetcherAdapter{
		collector: c,
		baseURL:   base,
	}, nil
}
