package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"stihirus-reader/internal/scrapers/stihirus"
	"stihirus-reader/lib/configutil"

	"github.com/joho/godotenv"
)

// fileConfig is the shape of config.json5. Fields where zero is a
// meaningful setting are pointers so an absent key keeps the default.
type fileConfig struct {
	BaseUrl            string `json:"base_url"`
	UserAgent          string `json:"user_agent"`
	PageSize           int    `json:"page_size"`
	RequestDelayMs     *int   `json:"request_delay_ms"`
	TimeoutMs          int    `json:"timeout_ms"`
	CloudflareBypass   *bool  `json:"cloudflare_bypass"`
	MaxConcurrentPages *int   `json:"max_concurrent_pages"`
	MaxFanOutPages     int    `json:"max_fan_out_pages"`
	FanOutPacingMs     *int   `json:"fan_out_pacing_ms"`
	FanOutBurst        int    `json:"fan_out_burst"`
	Listen             string `json:"listen"`
}

type appConfig struct {
	Scraper stihirus.Config
	Listen  string
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func (f fileConfig) apply(cfg *appConfig) {
	s := &cfg.Scraper
	if f.BaseUrl != "" {
		s.BaseUrl = f.BaseUrl
	}
	if f.UserAgent != "" {
		s.UserAgent = f.UserAgent
	}
	if f.PageSize > 0 {
		s.PageSize = f.PageSize
	}
	if f.RequestDelayMs != nil {
		s.RequestDelay = millis(*f.RequestDelayMs)
	}
	if f.TimeoutMs > 0 {
		s.Timeout = millis(f.TimeoutMs)
	}
	if f.CloudflareBypass != nil {
		s.CloudflareBypass = *f.CloudflareBypass
	}
	if f.MaxConcurrentPages != nil {
		s.MaxConcurrentPages = *f.MaxConcurrentPages
	}
	if f.MaxFanOutPages > 0 {
		s.MaxFanOutPages = f.MaxFanOutPages
	}
	if f.FanOutPacingMs != nil {
		s.FanOutPacing = millis(*f.FanOutPacingMs)
	}
	if f.FanOutBurst > 0 {
		s.FanOutBurst = f.FanOutBurst
	}
	if f.Listen != "" {
		cfg.Listen = f.Listen
	}
}

func applyEnv(cfg *appConfig) error {
	if v := os.Getenv("STIHIRUS_BASE_URL"); v != "" {
		cfg.Scraper.BaseUrl = v
	}
	if v := os.Getenv("STIHIRUS_USER_AGENT"); v != "" {
		cfg.Scraper.UserAgent = v
	}
	if v := os.Getenv("STIHIRUS_REQUEST_DELAY_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return fmt.Errorf("STIHIRUS_REQUEST_DELAY_MS must be a non-negative integer, got %q", v)
		}
		cfg.Scraper.RequestDelay = millis(ms)
	}
	return nil
}

// loadConfig layers the defaults, the config file (and its .local
// sibling), a .env file and the environment, later layers win.
func loadConfig(path string) (appConfig, error) {
	cfg := appConfig{
		Scraper: stihirus.DefaultConfig(),
		Listen:  ":8080",
	}

	file, err := configutil.ReadConfig(path, fileConfig{})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return appConfig{}, err
	}
	if err == nil {
		slog.Debug("loaded config file", "path", path)
	}
	file.apply(&cfg)

	err = godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return appConfig{}, fmt.Errorf("load .env: %w", err)
	}
	err = applyEnv(&cfg)
	if err != nil {
		return appConfig{}, err
	}
	return cfg, nil
}
