package stihirus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"stihirus-reader/internal/assert"
	"stihirus-reader/internal/telemetry"
	"stihirus-reader/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	report_transport_fetch_document = "transport.fetch-document"
	report_transport_call_api       = "transport.call-api"
)

// Transport is everything the scraper needs from the network. Failures are
// always returned as *Error.
//
// note: fault injection point
type Transport interface {
	FetchDocument(ctx context.Context, url string) (*goquery.Document, error)
	CallApi(ctx context.Context, endpoint Endpoint, form map[string]string, referer string) (ApiResult, error)
}

// Endpoint describes how a response of one api endpoint is checked.
type Endpoint struct {
	Name string
	// top level keys that must hold arrays
	RequiredArrays []string
}

var (
	// poem pages and the reverse id lookup, reports its data without a status field
	EndpointReadAuthor = Endpoint{Name: endpointReadAuthorName}
	EndpointFilters    = Endpoint{
		Name:           endpointFiltersName,
		RequiredArrays: []string{"razd", "year_month"},
	}
)

// ApiResult is the loosely typed top level object the api responds with.
type ApiResult map[string]json.RawMessage

func (r ApiResult) Has(key string) bool {
	raw, ok := r[key]
	return ok && string(raw) != "null"
}

// Decode unmarshals the value under key into out, a missing key leaves out
// untouched.
func (r ApiResult) Decode(key string, out any) error {
	raw, ok := r[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	err := json.Unmarshal(raw, out)
	if err != nil {
		return fmt.Errorf("decode %q: %w", key, err)
	}
	return nil
}

func (r ApiResult) str(key string) string {
	var s looseString
	if r.Decode(key, &s) != nil {
		return ""
	}
	return string(s)
}

func (r ApiResult) isArray(key string) bool {
	raw, ok := r[key]
	return ok && len(bytes.TrimSpace(raw)) > 0 && bytes.TrimSpace(raw)[0] == '['
}

// RestyTransport is the Transport used against the real site.
type RestyTransport struct {
	http *resty.Client
	site site
	tel  telemetry.API
}

// NewRestyTransport builds a client from cfg, `dump` can be nil.
func NewRestyTransport(cfg Config, tel telemetry.API, dump restyutil.InstrumentOutput) (*RestyTransport, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("stihirus_transport", tel)

	s, err := newSite(cfg.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetHeader("user-agent", cfg.UserAgent)
	client.SetTimeout(cfg.Timeout)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	if cfg.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	telemetry.InstrumentResty(client, tel, dump)

	return &RestyTransport{http: client, site: s, tel: tel}, nil
}

func (t *RestyTransport) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	res, err := t.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, networkError(err, "fetch %s", url)
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, notFound(nil, "page not found: %s", url)
	}
	if !res.IsSuccess() {
		return nil, upstreamError(res.StatusCode(), nil, "fetch %s: http %d", url, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		t.tel.ReportBroken(report_transport_fetch_document, fmt.Errorf("parse document: %w", err), url)
		return nil, parsingError(err, "parse document %s", url)
	}
	return doc, nil
}

func (t *RestyTransport) CallApi(ctx context.Context, endpoint Endpoint, form map[string]string, referer string) (ApiResult, error) {
	if referer == "" {
		referer = t.site.origin()
	}
	t.tel.ReportDebug(report_transport_call_api, endpoint.Name, form)

	res, err := t.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetHeader("content-type", "application/x-www-form-urlencoded; charset=UTF-8").
		SetHeader("x-requested-with", "XMLHttpRequest").
		SetHeader("referer", referer).
		SetHeader("origin", t.site.origin()).
		Post(t.site.apiUrl(endpoint.Name))
	if err != nil {
		return nil, networkError(err, "call %s", endpoint.Name)
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, notFound(nil, "api endpoint %s: http 404", endpoint.Name)
	}
	if !res.IsSuccess() {
		return nil, upstreamError(res.StatusCode(), nil, "api endpoint %s: http %d", endpoint.Name, res.StatusCode())
	}

	var result ApiResult
	err = json.Unmarshal(res.Body(), &result)
	if err != nil {
		t.tel.ReportBroken(report_transport_call_api, fmt.Errorf("unmarshal response: %w", err), endpoint.Name)
		return nil, upstreamError(0, err, "malformed response from %s", endpoint.Name)
	}
	return checkApiResult(endpoint, result)
}

// checkApiResult applies the endpoint's response contract.
func checkApiResult(endpoint Endpoint, result ApiResult) (ApiResult, error) {
	if result == nil {
		return nil, upstreamError(0, nil, "empty response from %s", endpoint.Name)
	}

	if result.str("status") == apiStatusError {
		msg := result.str("message")
		if msg == "" {
			msg = "unknown api error"
		}
		lower := strings.ToLower(msg)
		if strings.Contains(lower, apiDeniedMessage) || strings.Contains(lower, apiDeniedMessageRu) {
			return nil, notFound(errors.New(msg), "access denied or content not found")
		}
		return nil, upstreamError(0, nil, "api error: %s", msg)
	}
	for _, key := range endpoint.RequiredArrays {
		if !result.isArray(key) {
			return nil, upstreamError(0, nil, "api endpoint %s: missing %q array", endpoint.Name, key)
		}
	}
	return result, nil
}

// looseString accepts any json scalar, the api is inconsistent about quoting
// numbers.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		err := json.Unmarshal(b, &v)
		if err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		return fmt.Errorf("expected scalar, got %s", string(b[:1]))
	}
	*s = looseString(b)
	return nil
}

// RawPoem is one poem record as the api returns it.
type RawPoem struct {
	Id              looseString `json:"id"`
	Title           looseString `json:"title"`
	Body            looseString `json:"body"`
	Created         looseString `json:"created"`
	Rating          looseString `json:"rating"`
	CommentsCount   looseString `json:"comments_count"`
	RubricName      looseString `json:"razd_name"`
	RubricSlug      looseString `json:"razd_url"`
	CollectionName  looseString `json:"urazd_name"`
	Background      looseString `json:"background"`
	TextUnique      looseString `json:"text_unique"`
	HaveCertificate looseString `json:"have_certificate"`
	Gifts           looseString `json:"podarki"`
	ContestId       looseString `json:"contest_id"`
	ContestName     looseString `json:"contest_name"`
	AuthorId        looseString `json:"avtor_id"`
	UserId          looseString `json:"user_id"`
	Username        looseString `json:"username"`
	UserUri         looseString `json:"useruri"`
}
