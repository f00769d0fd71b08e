package service

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stihirus-reader/internal/scrapers/stihirus"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const report_http_write = "http.write-json"

// Router exposes the service over http. Every response body is an envelope
// and the http status equals the envelope code.
func (s Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Route("/authors/{identifier}", func(r chi.Router) {
		r.Get("/", s.handleAuthor)
		r.Get("/filters", s.handleAuthorFilters)
	})
	r.Get("/poems/{id}", s.handlePoem)
	r.Route("/homepage", func(r chi.Router) {
		r.Get("/", s.handleHomepage)
		r.Get("/recommended-authors", func(w http.ResponseWriter, req *http.Request) {
			s.writeJSON(w, s.GetRecommendedAuthors(req.Context()))
		})
		r.Get("/weekly-rated-authors", func(w http.ResponseWriter, req *http.Request) {
			s.writeJSON(w, s.GetWeeklyRatedAuthors(req.Context()))
		})
		r.Get("/active-authors", func(w http.ResponseWriter, req *http.Request) {
			s.writeJSON(w, s.GetActiveAuthors(req.Context()))
		})
		r.Get("/promo-poems", func(w http.ResponseWriter, req *http.Request) {
			s.writeJSON(w, s.GetPromoPoems(req.Context()))
		})
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

type envelope interface {
	HttpStatus() int
}

func (s Service) writeJSON(w http.ResponseWriter, res envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(res.HttpStatus())
	err := json.NewEncoder(w).Encode(res)
	if err != nil {
		s.tel.ReportWarning(report_http_write, err)
	}
}

// identifierParam turns the path segment into an identifier, a url
// identifier arrives path-escaped.
func identifierParam(req *http.Request) stihirus.Identifier {
	raw := chi.URLParam(req, "identifier")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	return stihirus.ParseIdentifier(raw)
}

// optionalInt reads an integer query parameter, nil when absent.
func optionalInt(req *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(req.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, invalidInput("invalid %s %q, expected an integer", name, raw)
	}
	return &value, nil
}

func authorDataOptions(req *http.Request) (AuthorDataOptions, error) {
	var opts AuthorDataOptions

	page, err := optionalInt(req, "page")
	if err != nil {
		return opts, err
	}
	opts.Page = page

	delay, err := optionalInt(req, "delay_ms")
	if err != nil {
		return opts, err
	}
	if delay != nil {
		if *delay < 0 {
			return opts, invalidInput("invalid delay_ms %d, expected a non-negative integer", *delay)
		}
		opts.RequestDelay = time.Duration(*delay) * time.Millisecond
	}

	for name, target := range map[string]*int{"year": &opts.Filters.Year, "month": &opts.Filters.Month} {
		value, err := optionalInt(req, name)
		if err != nil {
			return opts, err
		}
		if value != nil {
			*target = *value
		}
	}

	if raw := req.URL.Query().Get("rubric_id"); raw != "" {
		rubric, err := ParsePositiveId("rubric_id", raw)
		if err != nil {
			return opts, err
		}
		opts.Filters.RubricId = rubric
	}
	return opts, nil
}

func (s Service) handleAuthor(w http.ResponseWriter, req *http.Request) {
	opts, err := authorDataOptions(req)
	if err != nil {
		s.writeJSON(w, Failure[stihirus.AuthorProfile](err))
		return
	}
	s.writeJSON(w, s.GetAuthorData(req.Context(), identifierParam(req), opts))
}

func (s Service) handleAuthorFilters(w http.ResponseWriter, req *http.Request) {
	s.writeJSON(w, s.GetAuthorFilters(req.Context(), identifierParam(req)))
}

func (s Service) handlePoem(w http.ResponseWriter, req *http.Request) {
	id, err := ParsePositiveId("poem id", chi.URLParam(req, "id"))
	if err != nil {
		s.writeJSON(w, Failure[stihirus.Poem](err))
		return
	}
	s.writeJSON(w, s.GetPoemById(req.Context(), id))
}

func (s Service) handleHomepage(w http.ResponseWriter, req *http.Request) {
	s.writeJSON(w, s.GetHomepage(req.Context()))
}
