package stihirus

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is passed to the transport and the scraper at construction, nothing
// in this package reads global settings.
type Config struct {
	BaseUrl   string
	UserAgent string
	// number of poem records the api returns per page
	PageSize         int
	RequestDelay     time.Duration
	Timeout          time.Duration
	CloudflareBypass bool

	// 0 disables concurrent page requests
	MaxConcurrentPages int
	MaxFanOutPages     int
	// a token is refilled every FanOutPacing, FanOutBurst tokens at most
	FanOutPacing time.Duration
	FanOutBurst  int
}

func DefaultConfig() Config {
	return Config{
		BaseUrl:            "https://stihirus.ru",
		UserAgent:          "Mozilla/5.0 (compatible) stihirus-reader/1.5.0",
		PageSize:           20,
		RequestDelay:       200 * time.Millisecond,
		Timeout:            30 * time.Second,
		CloudflareBypass:   true,
		MaxConcurrentPages: 5,
		MaxFanOutPages:     100,
		FanOutPacing:       10 * time.Millisecond,
		FanOutBurst:        5,
	}
}

// site is the parsed view of Config.BaseUrl that url builders work with.
type site struct {
	base   *url.URL
	domain string
}

func newSite(baseUrl string) (site, error) {
	parsed, err := url.Parse(strings.TrimRight(baseUrl, "/"))
	if err != nil {
		return site{}, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return site{}, fmt.Errorf("base url %q must be absolute", baseUrl)
	}
	domain := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	return site{base: parsed, domain: domain}, nil
}

func (s site) origin() string {
	return fmt.Sprintf("%s://%s", s.base.Scheme, s.base.Host)
}

func (s site) hostWithPort(host string) string {
	if port := s.base.Port(); port != "" {
		return host + ":" + port
	}
	return host
}

func (s site) apiUrl(endpoint string) string {
	return fmt.Sprintf("%s/-zbb/api/%s", s.origin(), endpoint)
}

// pathProfileUrl is the path form: https://stihirus.ru/avtor/<username>
func (s site) pathProfileUrl(username string) string {
	return fmt.Sprintf("%s/avtor/%s", s.origin(), url.PathEscape(username))
}

// subdomainProfileUrl is the subdomain form: https://<username>.stihirus.ru/
func (s site) subdomainProfileUrl(username string) string {
	return fmt.Sprintf("%s://%s/", s.base.Scheme, s.hostWithPort(username+"."+s.domain))
}

func (s site) poemUrl(id int64) string {
	return fmt.Sprintf("%s/proizv/%d", s.origin(), id)
}

func (s site) rubricUrl(slug string) string {
	return fmt.Sprintf("%s/razdel/%s", s.origin(), slug)
}
