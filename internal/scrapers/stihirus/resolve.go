package stihirus

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_resolver_lookup_id     = "resolver.lookup-id"
	report_resolver_fetch_profile = "resolver.fetch-profile"
)

// Resolution is a resolved identity and, when resolution had to fetch it,
// the profile document it was read from.
type Resolution struct {
	Identity AuthorIdentity
	Document *goquery.Document
}

// Resolve turns any accepted identifier into the author's canonical
// identity. It fails with ErrInvalidInput before any request for malformed
// input and with ErrNotFound when the author cannot be located.
func (s *Scraper) Resolve(ctx context.Context, ident Identifier) (Resolution, error) {
	c, err := s.site.classify(ident)
	if err != nil {
		return Resolution{}, err
	}
	if c.kind == kindNumeric {
		return s.resolveId(ctx, c.authorId)
	}
	return s.resolveUsername(ctx, c.username, c.candidate)
}

func (s *Scraper) resolveId(ctx context.Context, authorId int64) (Resolution, error) {
	username, err := s.lookupUsername(ctx, authorId)
	if err != nil {
		s.tel.ReportDebug(report_resolver_lookup_id, authorId, err)
		return Resolution{}, notFound(err, "author id %d not found", authorId)
	}
	return Resolution{
		Identity: AuthorIdentity{
			AuthorId:            authorId,
			Username:            username,
			CanonicalProfileUrl: s.site.pathProfileUrl(username),
		},
	}, nil
}

// lookupUsername recovers an author's username from their first page of
// poems.
func (s *Scraper) lookupUsername(ctx context.Context, authorId int64) (string, error) {
	result, err := s.transport.CallApi(ctx, EndpointReadAuthor, map[string]string{
		"id":   strconv.FormatInt(authorId, 10),
		"from": "0",
	}, "")
	if err != nil {
		return "", err
	}

	var records []struct {
		UserUri looseString `json:"useruri"`
	}
	err = result.Decode("data", &records)
	if err != nil {
		return "", parsingError(err, "decode lookup response")
	}
	if len(records) == 0 || records[0].UserUri == "" {
		return "", errors.New("lookup returned no username")
	}
	return string(records[0].UserUri), nil
}

func (s *Scraper) resolveUsername(ctx context.Context, username, candidate string) (Resolution, error) {
	doc, authorId, err := s.fetchProfile(ctx, candidate)
	if err == nil {
		return s.resolution(username, candidate, authorId, doc), nil
	}

	fallback := s.site.pathProfileUrl(username)
	if fallback == candidate {
		return Resolution{}, notFound(err, "author %q not found", username)
	}
	s.tel.ReportWarning(report_resolver_fetch_profile, candidate, err)

	doc, authorId, fallbackErr := s.fetchProfile(ctx, fallback)
	if fallbackErr != nil {
		return Resolution{}, notFound(errors.Join(err, fallbackErr), "author %q not found", username)
	}
	return s.resolution(username, fallback, authorId, doc), nil
}

func (s *Scraper) resolution(username, profileUrl string, authorId int64, doc *goquery.Document) Resolution {
	return Resolution{
		Identity: AuthorIdentity{
			AuthorId:            authorId,
			Username:            username,
			CanonicalProfileUrl: profileUrl,
		},
		Document: doc,
	}
}

func (s *Scraper) fetchProfile(ctx context.Context, profileUrl string) (*goquery.Document, int64, error) {
	doc, err := s.transport.FetchDocument(ctx, profileUrl)
	if err != nil {
		return nil, 0, err
	}
	authorId, err := extractAuthorId(doc)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", profileUrl, err)
	}
	return doc, authorId, nil
}
