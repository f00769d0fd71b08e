package stihirus

import (
	"strings"

	"stihirus-reader/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// extractAuthorId reads the numeric author id off a profile page. A
// document without the profile block is not a profile page, whatever user
// ids it carries.
func extractAuthorId(doc *goquery.Document) (int64, error) {
	info := doc.Find(selProfileInfo).First()
	if info.Length() == 0 {
		return 0, parsingError(nil, "document is not a profile page")
	}
	if id := parseId(attr(info, attrProfileUserId)); id > 0 {
		return id, nil
	}
	if id := parseId(attr(doc.Find(selProfileAnyUserId).First(), attrProfileUserId)); id > 0 {
		return id, nil
	}
	return 0, parsingError(nil, "no author id on profile page")
}

// ExtractProfile reads every profile field off a profile page. Only a
// document that is not a profile page at all is an error, missing fields
// degrade to their zero value.
func (s site) ExtractProfile(doc *goquery.Document) (ProfileFields, error) {
	info := doc.Find(selProfileInfo).First()
	if info.Length() == 0 {
		return ProfileFields{}, parsingError(nil, "document is not a profile page")
	}

	fields := ProfileFields{
		DisplayName: htmlutil.SelectionText(doc.Find(selProfileDisplayName).First()),
		Description: htmlutil.SelectionText(doc.Find(selProfileDescription).First()),
		Collections: []Collection{},
	}
	if fields.DisplayName == "" {
		fields.DisplayName = htmlutil.SelectionText(doc.Find(selProfileTitle).First())
	}

	isNoAvatar := func(raw string) bool { return raw == sentinelNoAvatar }
	fields.AvatarUrl = s.optionalUrl(attr(doc.Find(selProfileAvatar).First(), "src"), isNoAvatar)
	if fields.AvatarUrl == nil {
		fields.AvatarUrl = s.optionalUrl(attr(doc.Find(selProfileAvatarAlt).First(), "src"), isNoAvatar)
	}
	fields.HeaderUrl = s.optionalUrl(
		attr(doc.Find(selProfileHeader).First(), "src"),
		func(raw string) bool { return strings.Contains(raw, sentinelNoHeader) },
	)

	fields.Stats = extractStats(doc)

	for _, a := range htmlutil.GetAnchors(s.base, doc.Find(selCollectionLinks)) {
		if a.Name == "" {
			continue
		}
		fields.Collections = append(fields.Collections, Collection{
			Name: a.Name,
			Url:  a.Url.String(),
		})
	}

	doc.Find(selProfileFooterSmall).Each(func(_ int, el *goquery.Selection) {
		text := htmlutil.SelectionText(el)
		if idx := strings.Index(text, markerLastVisit); idx >= 0 {
			fields.LastVisitText = strings.TrimSpace(text[idx+len(markerLastVisit):])
		}
		if strings.Contains(text, markerStatus) {
			status := htmlutil.SelectionText(el.Find("b"))
			if status == "" {
				status = strings.TrimSpace(text[strings.Index(text, markerStatus)+len(markerStatus):])
			}
			fields.Status = status
		}
		if strings.Contains(text, markerPremium) {
			fields.IsPremium = true
		}
	})

	return fields, nil
}

// extractStats reads the three progress bars of the statistics card in
// order: poems, reviews sent, reviews received.
func extractStats(doc *goquery.Document) AuthorStats {
	bars := doc.Find(selStatsCard).Find(selStatsBar)
	if bars.Length() < 3 {
		return AuthorStats{}
	}
	values := make([]int, 3)
	for i := range values {
		bar := bars.Eq(i)
		raw, ok := bar.Attr(attrStatsValue)
		if !ok || strings.TrimSpace(raw) == "" {
			raw = htmlutil.SelectionText(bar)
		}
		values[i] = parseCount(raw)
	}
	return AuthorStats{
		PoemsDeclared:   values[0],
		ReviewsSent:     values[1],
		ReviewsReceived: values[2],
	}
}
