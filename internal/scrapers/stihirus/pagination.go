package stihirus

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	report_pagination_fetch_page = "pagination.fetch-page"
	report_pagination_collect    = "pagination.collect"
	report_pagination_skip       = "pagination.skip-record"
)

type pageKind int

const (
	pageAll pageKind = iota
	pageProfileOnly
	pageSingle
)

// PageSpec selects which poems are fetched along with a profile. The zero
// value is AllPages.
type PageSpec struct {
	kind pageKind
	page int
}

func AllPages() PageSpec {
	return PageSpec{kind: pageAll}
}

func ProfileOnly() PageSpec {
	return PageSpec{kind: pageProfileOnly}
}

// SinglePage is the 1-based page n.
func SinglePage(n int) PageSpec {
	return PageSpec{kind: pageSingle, page: n}
}

// PageFromInt maps the loosely typed page argument: nil is every page, 0 is
// the profile alone and n > 0 is page n.
func PageFromInt(page *int) (PageSpec, error) {
	switch {
	case page == nil:
		return AllPages(), nil
	case *page == 0:
		return ProfileOnly(), nil
	case *page > 0:
		return SinglePage(*page), nil
	}
	return PageSpec{}, invalidInput("invalid page %d, expected a non-negative integer", *page)
}

func (p PageSpec) IsProfileOnly() bool {
	return p.kind == pageProfileOnly
}

func (p PageSpec) Validate() error {
	if p.kind == pageSingle && p.page < 1 {
		return invalidInput("invalid page %d, expected a positive integer", p.page)
	}
	return nil
}

func (p PageSpec) String() string {
	switch p.kind {
	case pageProfileOnly:
		return "profile-only"
	case pageSingle:
		return fmt.Sprintf("page %d", p.page)
	default:
		return "all"
	}
}

// pageCursor is the pagination state: where the next page starts, what has
// been collected so far, and whether collection is over. It knows nothing
// about how pages are requested.
type pageCursor struct {
	pageSize int
	offset   int
	fetched  int
	done     bool

	order []int64
	byId  map[int64]RawPoem
}

func newPageCursor(pageSize int) *pageCursor {
	return &pageCursor{
		pageSize: pageSize,
		byId:     map[int64]RawPoem{},
	}
}

// merge adds records keyed by id, a repeated id replaces the earlier record
// and keeps its position. It returns the number of ids not seen before and
// the number of records without a usable id.
func (c *pageCursor) merge(records []RawPoem) (added int, skipped int) {
	for _, r := range records {
		id := parseId(string(r.Id))
		if id == 0 {
			skipped++
			continue
		}
		if _, seen := c.byId[id]; !seen {
			c.order = append(c.order, id)
			added++
		}
		c.byId[id] = r
	}
	return added, skipped
}

// advance applies the outcome of requesting the page at the current offset.
// A failed or empty page ends collection, a short page is the last one and
// so is a page that brings no new ids.
func (c *pageCursor) advance(records []RawPoem, err error) int {
	c.fetched++
	if err != nil || len(records) == 0 {
		c.done = true
		return 0
	}
	added, skipped := c.merge(records)
	c.offset += len(records)
	if len(records) < c.pageSize || added == 0 {
		c.done = true
	}
	return skipped
}

func (c *pageCursor) records() []RawPoem {
	out := make([]RawPoem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byId[id])
	}
	return out
}

// CollectOptions is one request to the pagination engine.
type CollectOptions struct {
	AuthorId int64
	// the author's profile url, sent as referer
	Referer string
	Page    PageSpec
	Filters FilterOptions
	Delay   time.Duration
	// the profile's own poem count, 0 when unknown
	Declared int
}

// Collect gathers raw poem records for an author. Failures of individual
// page requests never fail the call, they only shorten the result.
func (s *Scraper) Collect(ctx context.Context, opts CollectOptions) []RawPoem {
	var records []RawPoem
	switch opts.Page.kind {
	case pageProfileOnly:
		return []RawPoem{}
	case pageSingle:
		records = s.collectSingle(ctx, opts)
	default:
		if !opts.Filters.Active() && opts.Declared > 0 && s.cfg.MaxConcurrentPages > 0 {
			records = s.collectFanOut(ctx, opts)
		} else {
			cursor := newPageCursor(s.cfg.PageSize)
			s.collectSequential(ctx, opts, cursor)
			records = cursor.records()
		}
	}
	s.tel.ReportCount(report_pagination_collect, int64(len(records)))
	return records
}

func (s *Scraper) collectSingle(ctx context.Context, opts CollectOptions) []RawPoem {
	if opts.Page.page < 1 || opts.Page.page-1 > math.MaxInt32/s.cfg.PageSize {
		return []RawPoem{}
	}
	records, err := s.fetchPage(ctx, opts, (opts.Page.page-1)*s.cfg.PageSize)
	if err != nil {
		return []RawPoem{}
	}
	cursor := newPageCursor(s.cfg.PageSize)
	_, skipped := cursor.merge(records)
	s.reportSkipped(skipped)
	return cursor.records()
}

// collectSequential requests pages one after another from the cursor's
// offset until the cursor is done, waiting opts.Delay between requests.
func (s *Scraper) collectSequential(ctx context.Context, opts CollectOptions, cursor *pageCursor) {
	first := true
	for !cursor.done {
		if !first && !sleepContext(ctx, opts.Delay) {
			return
		}
		first = false
		records, err := s.fetchPage(ctx, opts, cursor.offset)
		s.reportSkipped(cursor.advance(records, err))
	}
}

// collectFanOut requests every page the declared count implies at once,
// bounded and paced. If the last of them was full the site holds more than
// it declared and collection continues sequentially.
func (s *Scraper) collectFanOut(ctx context.Context, opts CollectOptions) []RawPoem {
	pageSize := s.cfg.PageSize
	pages := (opts.Declared + pageSize - 1) / pageSize
	pages = max(1, min(pages, s.cfg.MaxFanOutPages))

	results := make([][]RawPoem, pages)
	limiter := rate.NewLimiter(rate.Every(s.cfg.FanOutPacing), max(1, s.cfg.FanOutBurst))

	var group errgroup.Group
	group.SetLimit(s.cfg.MaxConcurrentPages)
	for i := range pages {
		err := limiter.Wait(ctx)
		if err != nil {
			break
		}
		group.Go(func() error {
			records, err := s.fetchPage(ctx, opts, i*pageSize)
			if err == nil {
				results[i] = records
			}
			return nil
		})
	}
	_ = group.Wait()

	cursor := newPageCursor(pageSize)
	for _, records := range results {
		_, skipped := cursor.merge(records)
		s.reportSkipped(skipped)
	}
	if len(results[pages-1]) == pageSize {
		cursor.offset = pages * pageSize
		s.collectSequential(ctx, opts, cursor)
	}
	return cursor.records()
}

// fetchPage requests one page of records starting at offset.
func (s *Scraper) fetchPage(ctx context.Context, opts CollectOptions, offset int) ([]RawPoem, error) {
	form := map[string]string{
		"id":   strconv.FormatInt(opts.AuthorId, 10),
		"from": strconv.Itoa(offset),
	}
	if opts.Filters.RubricId > 0 {
		form["razdel_id"] = strconv.FormatInt(opts.Filters.RubricId, 10)
	}
	if opts.Filters.Year > 0 {
		form["year"] = strconv.Itoa(opts.Filters.Year)
	}
	if opts.Filters.Month > 0 {
		form["month"] = strconv.Itoa(opts.Filters.Month)
	}

	records, err := s.requestPage(ctx, form, opts.Referer)
	s.pages.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("ok", err == nil),
		attribute.Bool("filtered", opts.Filters.Active()),
	))
	if err != nil {
		s.tel.ReportWarning(report_pagination_fetch_page, opts.AuthorId, offset, err)
		return nil, err
	}
	return records, nil
}

func (s *Scraper) requestPage(ctx context.Context, form map[string]string, referer string) ([]RawPoem, error) {
	result, err := s.transport.CallApi(ctx, EndpointReadAuthor, form, referer)
	if err != nil {
		return nil, err
	}
	if !result.isArray("data") {
		return []RawPoem{}, nil
	}
	var records []RawPoem
	err = result.Decode("data", &records)
	if err != nil {
		return nil, parsingError(err, "decode poem page")
	}
	return records, nil
}

func (s *Scraper) reportSkipped(skipped int) {
	if skipped > 0 {
		s.tel.ReportWarning(report_pagination_skip, "records without id", skipped)
	}
}

// sleepContext waits d, it returns false if ctx ended first.
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
