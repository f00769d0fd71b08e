package stihirus

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"

	"stihirus-reader/internal/telemetry"

	"github.com/PuerkitoBio/goquery"
)

type apiCall struct {
	Endpoint string
	Form     map[string]string
	Referer  string
}

type apiHandler func(endpoint Endpoint, form map[string]string) (ApiResult, error)

// fakeTransport serves documents by url and api calls through a handler,
// recording every call.
type fakeTransport struct {
	mu        sync.Mutex
	documents map[string]string
	api       apiHandler

	documentCalls []string
	apiCalls      []apiCall
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{documents: map[string]string{}}
}

func (f *fakeTransport) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	f.mu.Lock()
	f.documentCalls = append(f.documentCalls, url)
	html, ok := f.documents[url]
	f.mu.Unlock()

	if !ok {
		return nil, notFound(nil, "page not found: %s", url)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (f *fakeTransport) CallApi(ctx context.Context, endpoint Endpoint, form map[string]string, referer string) (ApiResult, error) {
	f.mu.Lock()
	f.apiCalls = append(f.apiCalls, apiCall{Endpoint: endpoint.Name, Form: form, Referer: referer})
	handler := f.api
	f.mu.Unlock()

	if handler == nil {
		return nil, upstreamError(500, nil, "api endpoint %s: http 500", endpoint.Name)
	}
	return handler(endpoint, form)
}

func (f *fakeTransport) calls() (documents int, api int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.documentCalls), len(f.apiCalls)
}

func toApiResult(t testing.TB, value any) ApiResult {
	t.Helper()
	encoded, err := json.Marshal(value)
	if err != nil {
		t.Fatal(err)
	}
	var result ApiResult
	err = json.Unmarshal(encoded, &result)
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func rawPoemRecord(id int, authorId int64) map[string]any {
	return map[string]any{
		"id":             strconv.Itoa(id),
		"title":          fmt.Sprintf("Стих %d", id),
		"body":           "строка<br>строка",
		"rating":         "1",
		"comments_count": "0",
		"razd_name":      "Лирика",
		"razd_url":       "lirika",
		"urazd_name":     sentinelNoCollection,
		"text_unique":    "1",
		"podarki":        sentinelDefaultGift,
		"avtor_id":       strconv.FormatInt(authorId, 10),
		"useruri":        "oreh-orehov",
	}
}

// poemPages serves the poem ids of an author page by page like the site's
// api does, ids is the full ordered listing.
func poemPages(t testing.TB, authorId int64, pageSize int, ids []int) apiHandler {
	return func(endpoint Endpoint, form map[string]string) (ApiResult, error) {
		if endpoint.Name != endpointReadAuthorName {
			return nil, upstreamError(0, nil, "unexpected endpoint %s", endpoint.Name)
		}
		if form["id"] != strconv.FormatInt(authorId, 10) {
			return toApiResult(t, map[string]any{"data": []any{}}), nil
		}
		from, err := strconv.Atoi(form["from"])
		if err != nil {
			return nil, upstreamError(0, err, "bad offset")
		}
		records := []any{}
		for i := from; i < len(ids) && i < from+pageSize; i++ {
			records = append(records, rawPoemRecord(ids[i], authorId))
		}
		return toApiResult(t, map[string]any{"data": records}), nil
	}
}

func sequentialIds(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = 1000 + i
	}
	return ids
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RequestDelay = 0
	cfg.FanOutPacing = 0
	cfg.CloudflareBypass = false
	return cfg
}

func newTestScraper(t testing.TB, cfg Config, transport Transport) (*Scraper, *telemetry.RecorderAPI) {
	t.Helper()
	tel := &telemetry.RecorderAPI{}
	scraper, err := NewScraper(cfg, transport, tel)
	if err != nil {
		t.Fatal(err)
	}
	return scraper, tel
}
