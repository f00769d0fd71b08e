package stihirus

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"stihirus-reader/internal/assert"
	"stihirus-reader/internal/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	report_scraper_author       = "scraper.author"
	report_scraper_poem_by_id   = "scraper.poem-by-id"
	report_scraper_author_id    = "scraper.author-id-mismatch"
	report_scraper_fetch_author = "scraper.fetch-profile"
)

// Scraper reads authors, poems and the homepage off the site. It holds no
// per-call state and is safe for concurrent use.
type Scraper struct {
	cfg       Config
	site      site
	transport Transport
	tel       telemetry.API
	pages     metric.Int64Counter
}

func NewScraper(cfg Config, transport Transport, tel telemetry.API) (*Scraper, error) {
	assert.NotNil(transport)
	assert.NotNil(tel)
	assert.Positive("page size", cfg.PageSize)

	s, err := newSite(cfg.BaseUrl)
	if err != nil {
		return nil, err
	}
	pages, err := otel.Meter("stihirus-reader/stihirus").Int64Counter(
		"stihirus.api.pages",
		metric.WithDescription("poem page requests made to the site's api"),
	)
	if err != nil {
		return nil, fmt.Errorf("create page counter: %w", err)
	}

	return &Scraper{
		cfg:       cfg,
		site:      s,
		transport: transport,
		tel:       telemetry.NewScopedAPI("stihirus_scraper", tel),
		pages:     pages,
	}, nil
}

// AuthorOptions controls which poems come with a profile.
type AuthorOptions struct {
	Page PageSpec
	// 0 uses the configured delay
	RequestDelay time.Duration
	Filters      FilterOptions
}

func (o AuthorOptions) Validate() error {
	if err := o.Page.Validate(); err != nil {
		return err
	}
	if o.RequestDelay < 0 {
		return invalidInput("invalid request delay %s", o.RequestDelay)
	}
	return o.Filters.Validate()
}

// Author resolves ident and returns the profile with the poems selected by
// opts.Page.
func (s *Scraper) Author(ctx context.Context, ident Identifier, opts AuthorOptions) (AuthorProfile, error) {
	err := opts.Validate()
	if err != nil {
		return AuthorProfile{}, err
	}

	res, err := s.Resolve(ctx, ident)
	if err != nil {
		return AuthorProfile{}, err
	}
	identity := res.Identity

	doc := res.Document
	if doc == nil {
		doc, err = s.transport.FetchDocument(ctx, identity.CanonicalProfileUrl)
		if err != nil {
			s.tel.ReportDebug(report_scraper_fetch_author, identity.CanonicalProfileUrl, err)
			return AuthorProfile{}, err
		}
		if pageId, err := extractAuthorId(doc); err == nil && pageId != identity.AuthorId {
			s.tel.ReportWarning(report_scraper_author_id, identity.AuthorId, pageId)
		}
	}

	fields, err := s.site.ExtractProfile(doc)
	if err != nil {
		return AuthorProfile{}, err
	}
	if fields.DisplayName == "" {
		fields.DisplayName = identity.Username
	}

	profile := AuthorProfile{
		AuthorIdentity:    identity,
		CanonicalUsername: identity.Username,
		ProfileFields:     fields,
		Poems:             []Poem{},
	}
	if opts.Page.IsProfileOnly() {
		return profile, nil
	}

	delay := opts.RequestDelay
	if delay == 0 {
		delay = s.cfg.RequestDelay
	}
	records := s.Collect(ctx, CollectOptions{
		AuthorId: identity.AuthorId,
		Referer:  identity.CanonicalProfileUrl,
		Page:     opts.Page,
		Filters:  opts.Filters,
		Delay:    delay,
		Declared: fields.Stats.PoemsDeclared,
	})
	for _, r := range records {
		profile.Poems = append(profile.Poems, s.site.MapApiPoem(r))
	}

	s.tel.ReportDebug(
		report_scraper_author,
		identity.AuthorId,
		opts.Page.String(),
		len(profile.Poems),
		fields.Stats.PoemsDeclared,
	)
	return profile, nil
}

// PoemById reads a single poem off its own page. When the page renders
// without a poem on it the api record is used instead.
func (s *Scraper) PoemById(ctx context.Context, id int64) (Poem, error) {
	if id <= 0 {
		return Poem{}, invalidInput("invalid poem id %d", id)
	}

	doc, err := s.transport.FetchDocument(ctx, s.site.poemUrl(id))
	if err != nil {
		return Poem{}, err
	}
	poem, err := s.site.MapPoemDocument(doc, id)
	if err == nil {
		return poem, nil
	}
	s.tel.ReportWarning(report_scraper_poem_by_id, id, err)

	poem, apiErr := s.poemFromApi(ctx, id)
	if apiErr != nil {
		if IsKind(apiErr, ErrNetwork) {
			return Poem{}, apiErr
		}
		return Poem{}, notFound(apiErr, "poem %d not found", id)
	}
	return poem, nil
}

func (s *Scraper) poemFromApi(ctx context.Context, id int64) (Poem, error) {
	result, err := s.transport.CallApi(ctx, EndpointReadAuthor, map[string]string{
		"proizv_id": strconv.FormatInt(id, 10),
	}, s.site.poemUrl(id))
	if err != nil {
		return Poem{}, err
	}
	var records []RawPoem
	err = result.Decode("data", &records)
	if err != nil {
		return Poem{}, parsingError(err, "decode poem record")
	}
	if len(records) == 0 {
		return Poem{}, notFound(nil, "poem %d not found", id)
	}
	return s.site.MapApiPoem(records[0]), nil
}
