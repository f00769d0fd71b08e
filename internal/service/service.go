package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stihirus-reader/internal/assert"
	"stihirus-reader/internal/scrapers/stihirus"
	"stihirus-reader/internal/telemetry"
)

const (
	report_service_author_data    = "service.get-author-data"
	report_service_author_filters = "service.get-author-filters"
	report_service_poem_by_id     = "service.get-poem-by-id"
	report_service_homepage       = "service.get-homepage"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type ErrorInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// the underlying failure, only when it says more than Message
	OriginalMessage string `json:"originalMessage,omitempty"`
}

// Response is the envelope every operation returns, exactly one of Data and
// Error is set.
type Response[T any] struct {
	Status string     `json:"status"`
	Data   *T         `json:"data,omitempty"`
	Error  *ErrorInfo `json:"error,omitempty"`
}

func (r Response[T]) Ok() bool {
	return r.Status == StatusSuccess
}

// HttpStatus is the status code the envelope is served with.
func (r Response[T]) HttpStatus() int {
	if r.Error != nil {
		return r.Error.Code
	}
	return http.StatusOK
}

func success[T any](data T) Response[T] {
	return Response[T]{Status: StatusSuccess, Data: &data}
}

func Failure[T any](err error) Response[T] {
	info := FromError(err)
	return Response[T]{Status: StatusError, Error: &info}
}

// FromError classifies any error into the public error shape.
func FromError(err error) ErrorInfo {
	var e *stihirus.Error
	if errors.As(err, &e) {
		info := ErrorInfo{Code: e.Code(), Message: e.Message}
		if full := err.Error(); full != e.Message {
			info.OriginalMessage = full
		}
		return info
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorInfo{
			Code:            http.StatusServiceUnavailable,
			Message:         "request cancelled",
			OriginalMessage: err.Error(),
		}
	}
	return ErrorInfo{
		Code:            http.StatusInternalServerError,
		Message:         "unknown error",
		OriginalMessage: err.Error(),
	}
}

func invalidInput(format string, args ...any) error {
	return &stihirus.Error{Kind: stihirus.ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// ParsePositiveId parses an id given as text, anything but a positive
// integer is invalid input.
func ParsePositiveId(name, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidInput("invalid %s %q, expected a positive integer", name, raw)
	}
	return id, nil
}

// Service is the read facade over the scraper. None of its operations
// return an error, failures are reported in the envelope.
type Service struct {
	scraper *stihirus.Scraper
	tel     telemetry.API
}

func NewService(scraper *stihirus.Scraper, tel telemetry.API) Service {
	assert.NotNil(scraper)
	assert.NotNil(tel)
	return Service{
		scraper: scraper,
		tel:     telemetry.NewScopedAPI("service", tel),
	}
}

// run executes one operation and turns its outcome, a panic included, into
// an envelope.
func run[T any](s Service, id string, op func() (T, error)) (res Response[T]) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			s.tel.ReportBroken(id, err)
			res = Failure[T](err)
		}
	}()

	data, err := op()
	if err != nil {
		res = Failure[T](err)
		if res.Error.Code >= http.StatusInternalServerError {
			s.tel.ReportWarning(id, err)
		} else {
			s.tel.ReportDebug(id, err)
		}
		return res
	}
	return success(data)
}

type AuthorDataOptions struct {
	// nil fetches every page, 0 the profile alone, n > 0 page n
	Page *int
	// 0 uses the configured delay
	RequestDelay time.Duration
	Filters      stihirus.FilterOptions
}

func (s Service) GetAuthorData(ctx context.Context, ident stihirus.Identifier, opts AuthorDataOptions) Response[stihirus.AuthorProfile] {
	return run(s, report_service_author_data, func() (stihirus.AuthorProfile, error) {
		page, err := stihirus.PageFromInt(opts.Page)
		if err != nil {
			return stihirus.AuthorProfile{}, err
		}
		return s.scraper.Author(ctx, ident, stihirus.AuthorOptions{
			Page:         page,
			RequestDelay: opts.RequestDelay,
			Filters:      opts.Filters,
		})
	})
}

func (s Service) GetAuthorFilters(ctx context.Context, ident stihirus.Identifier) Response[stihirus.AuthorFilters] {
	return run(s, report_service_author_filters, func() (stihirus.AuthorFilters, error) {
		return s.scraper.Filters(ctx, ident)
	})
}

func (s Service) GetPoemById(ctx context.Context, poemId int64) Response[stihirus.Poem] {
	return run(s, report_service_poem_by_id, func() (stihirus.Poem, error) {
		return s.scraper.PoemById(ctx, poemId)
	})
}

func (s Service) GetRecommendedAuthors(ctx context.Context) Response[[]stihirus.HomepageAuthor] {
	return s.homepageAuthors(ctx, stihirus.SectionRecommendedAuthors)
}

func (s Service) GetWeeklyRatedAuthors(ctx context.Context) Response[[]stihirus.HomepageAuthor] {
	return s.homepageAuthors(ctx, stihirus.SectionWeeklyRatedAuthors)
}

func (s Service) GetActiveAuthors(ctx context.Context) Response[[]stihirus.HomepageAuthor] {
	return s.homepageAuthors(ctx, stihirus.SectionActiveAuthors)
}

func (s Service) homepageAuthors(ctx context.Context, section stihirus.HomepageSection) Response[[]stihirus.HomepageAuthor] {
	return run(s, report_service_homepage, func() ([]stihirus.HomepageAuthor, error) {
		return s.scraper.HomepageAuthors(ctx, section)
	})
}

func (s Service) GetPromoPoems(ctx context.Context) Response[[]stihirus.HomepagePoem] {
	return run(s, report_service_homepage, func() ([]stihirus.HomepagePoem, error) {
		return s.scraper.PromoPoems(ctx)
	})
}

// GetHomepage returns every homepage section from a single page fetch.
func (s Service) GetHomepage(ctx context.Context) Response[stihirus.Homepage] {
	return run(s, report_service_homepage, func() (stihirus.Homepage, error) {
		return s.scraper.Homepage(ctx)
	})
}
