package stihirus

import (
	"context"
	"strconv"
	"strings"
)

const report_filters_skip_date = "filters.skip-date"

type rawRubricFilter struct {
	Id    looseString `json:"id"`
	Name  looseString `json:"razd_name"`
	Count looseString `json:"cnt"`
}

type rawDateFilter struct {
	Year  looseString `json:"year"`
	Month looseString `json:"month"`
	Count looseString `json:"cnt"`
}

// Filters returns the rubrics and months an author's poems can be narrowed
// down by.
func (s *Scraper) Filters(ctx context.Context, ident Identifier) (AuthorFilters, error) {
	res, err := s.Resolve(ctx, ident)
	if err != nil {
		return AuthorFilters{}, err
	}

	result, err := s.transport.CallApi(ctx, EndpointFilters, map[string]string{
		"for_user_id": strconv.FormatInt(res.Identity.AuthorId, 10),
	}, res.Identity.CanonicalProfileUrl)
	if err != nil {
		return AuthorFilters{}, err
	}
	return s.mapFilters(result)
}

func (s *Scraper) mapFilters(result ApiResult) (AuthorFilters, error) {
	var rubrics []rawRubricFilter
	err := result.Decode("razd", &rubrics)
	if err != nil {
		return AuthorFilters{}, parsingError(err, "decode rubric filters")
	}
	var dates []rawDateFilter
	err = result.Decode("year_month", &dates)
	if err != nil {
		return AuthorFilters{}, parsingError(err, "decode date filters")
	}

	filters := AuthorFilters{
		Rubrics: make([]RubricFilter, 0, len(rubrics)),
		Dates:   make([]DateFilter, 0, len(dates)),
	}
	for _, r := range rubrics {
		id, _ := strconv.ParseInt(strings.TrimSpace(string(r.Id)), 10, 64)
		filters.Rubrics = append(filters.Rubrics, RubricFilter{
			Id:    id,
			Name:  strings.TrimSpace(string(r.Name)),
			Count: parseCount(string(r.Count)),
		})
	}
	for _, d := range dates {
		year, yerr := strconv.Atoi(strings.TrimSpace(string(d.Year)))
		month, merr := strconv.Atoi(strings.TrimSpace(string(d.Month)))
		if yerr != nil || merr != nil || month < 1 || month > 12 {
			s.tel.ReportWarning(report_filters_skip_date, string(d.Year), string(d.Month))
			continue
		}
		filters.Dates = append(filters.Dates, DateFilter{
			Year:  year,
			Month: month,
			Count: parseCount(string(d.Count)),
		})
	}
	return filters, nil
}
