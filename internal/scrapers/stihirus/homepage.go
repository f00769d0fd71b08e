package stihirus

import (
	"context"
	"regexp"
	"strings"

	"stihirus-reader/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// HomepageSection names one of the lists on the landing page.
type HomepageSection int

const (
	SectionRecommendedAuthors HomepageSection = iota
	SectionWeeklyRatedAuthors
	SectionActiveAuthors
	SectionPromoPoems
)

// the number in an author card's badge is a rating in the weekly rating
// list and a poem count everywhere else
type badgeKind int

const (
	badgePoemsCount badgeKind = iota
	badgeRating
)

var backgroundUrlPattern = regexp.MustCompile(`url\(([^)]+)\)`)

func (s *Scraper) fetchHomepage(ctx context.Context) (*goquery.Document, error) {
	return s.transport.FetchDocument(ctx, s.site.origin()+"/")
}

// Homepage reads every section from a single fetch of the landing page.
func (s *Scraper) Homepage(ctx context.Context) (Homepage, error) {
	doc, err := s.fetchHomepage(ctx)
	if err != nil {
		return Homepage{}, err
	}
	return s.site.extractHomepage(doc), nil
}

// HomepageAuthors fetches the landing page and reads one author section.
func (s *Scraper) HomepageAuthors(ctx context.Context, section HomepageSection) ([]HomepageAuthor, error) {
	doc, err := s.fetchHomepage(ctx)
	if err != nil {
		return nil, err
	}
	switch section {
	case SectionRecommendedAuthors:
		return s.site.extractHomepageAuthors(doc, selHomeRecommended, badgePoemsCount), nil
	case SectionWeeklyRatedAuthors:
		return s.site.extractHomepageAuthors(doc, selHomeWeeklyRating, badgeRating), nil
	case SectionActiveAuthors:
		return s.site.extractHomepageAuthors(doc, selHomeActive, badgePoemsCount), nil
	}
	return nil, invalidInput("section %d is not an author section", section)
}

// PromoPoems fetches the landing page and reads the promoted poems.
func (s *Scraper) PromoPoems(ctx context.Context) ([]HomepagePoem, error) {
	doc, err := s.fetchHomepage(ctx)
	if err != nil {
		return nil, err
	}
	return s.site.extractPromoPoems(doc), nil
}

func (s site) extractHomepage(doc *goquery.Document) Homepage {
	return Homepage{
		RecommendedAuthors: s.extractHomepageAuthors(doc, selHomeRecommended, badgePoemsCount),
		WeeklyRatedAuthors: s.extractHomepageAuthors(doc, selHomeWeeklyRating, badgeRating),
		ActiveAuthors:      s.extractHomepageAuthors(doc, selHomeActive, badgePoemsCount),
		PromoPoems:         s.extractPromoPoems(doc),
	}
}

func (s site) extractHomepageAuthors(doc *goquery.Document, section string, badge badgeKind) []HomepageAuthor {
	authors := []HomepageAuthor{}
	doc.Find(section).Find(selHomeFriendCard).Each(func(_ int, card *goquery.Selection) {
		profileUrl := htmlutil.AbsoluteUrl(s.base, attr(card.Find("a").First(), "href"))
		if profileUrl == "" {
			return
		}

		author := HomepageAuthor{
			Username:   htmlutil.SelectionText(card.Find(selHomeFriendName).First()),
			ProfileUrl: profileUrl,
		}
		author.CanonicalUsername = s.usernameFromProfileUrl(profileUrl)
		if author.CanonicalUsername == "" {
			author.CanonicalUsername = author.Username
		}

		match := backgroundUrlPattern.FindStringSubmatch(attr(card.Find(selHomeAvatar).First(), "style"))
		if len(match) == 2 {
			raw := strings.Trim(strings.TrimSpace(match[1]), `'"`)
			author.AvatarUrl = s.optionalUrl(raw, func(raw string) bool { return raw == sentinelNoAvatar })
		}

		count := parseCountPtr(htmlutil.SelectionText(card.Find(selHomeBadge).First()))
		switch badge {
		case badgeRating:
			author.Rating = count
		default:
			author.PoemsCount = count
		}

		authors = append(authors, author)
	})
	return authors
}

func (s site) extractPromoPoems(doc *goquery.Document) []HomepagePoem {
	poems := []HomepagePoem{}
	doc.Find(selHomePromoPoems).Each(func(_ int, el *goquery.Selection) {
		link := el.Find(selHomePromoLink).First()
		id := parseId(attr(link, attrHomePromoId))
		if id == 0 {
			return
		}

		authorBlock := el.Find(selHomePromoAuthor).First()
		poem := HomepagePoem{
			Id:             id,
			Title:          htmlutil.SelectionText(link),
			Url:            s.poemUrl(id),
			AuthorUsername: htmlutil.SelectionText(authorBlock),
		}
		poem.AuthorProfileUrl = htmlutil.AbsoluteUrl(s.base, attr(authorBlock.Find("a").First(), "href"))
		if poem.AuthorProfileUrl == "" && poem.AuthorUsername != "" {
			poem.AuthorProfileUrl = s.pathProfileUrl(poem.AuthorUsername)
		}

		el.Find(selHomePromoCounter).Each(func(_ int, counter *goquery.Selection) {
			icon := counter.Find("i")
			value := parseCount(htmlutil.SelectionText(counter))
			switch {
			case icon.HasClass(classHeartOutlineIcon) || icon.HasClass(classHeartIcon):
				poem.Rating = ptr(value)
			case icon.HasClass(classCommentsIcon):
				poem.CommentsCount = ptr(value)
			}
		})

		poems = append(poems, poem)
	})
	return poems
}
