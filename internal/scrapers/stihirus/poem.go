package stihirus

import (
	"regexp"
	"strings"

	"stihirus-reader/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?>`)

// normalizeBody turns line break markup into newlines and trims the result.
func normalizeBody(body string) string {
	body = lineBreakTag.ReplaceAllString(body, "\n")
	body = strings.ReplaceAll(body, "\r\n", "\n")
	return strings.TrimSpace(body)
}

func titleOrPlaceholder(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return placeholderTitle
	}
	return title
}

func collectionName(name string) *string {
	name = strings.TrimSpace(name)
	if name == "" || name == sentinelNoCollection {
		return nil
	}
	return &name
}

// MapApiPoem normalizes one api poem record. It performs no I/O.
func (s site) MapApiPoem(raw RawPoem) Poem {
	poem := Poem{
		Id:               parseId(string(raw.Id)),
		Title:            titleOrPlaceholder(string(raw.Title)),
		Text:             normalizeBody(string(raw.Body)),
		CreatedText:      strings.TrimSpace(string(raw.Created)),
		CollectionName:   collectionName(string(raw.CollectionName)),
		Rating:           parseCount(string(raw.Rating)),
		CommentsCount:    parseCount(string(raw.CommentsCount)),
		ImageUrl:         s.optionalUrl(string(raw.Background), nil),
		HasCertificate:   raw.HaveCertificate == "1" || raw.HaveCertificate == "true",
		Gifts:            parseGifts(string(raw.Gifts)),
		UniquenessStatus: parseUniqueness(string(raw.TextUnique)),
	}

	rubricName := strings.TrimSpace(string(raw.RubricName))
	poem.Rubric = Rubric{Name: rubricName}
	slug := strings.TrimSpace(string(raw.RubricSlug))
	if slug != "" && rubricName != sentinelNoRubricName {
		poem.Rubric.Url = ptr(s.rubricUrl(slug))
	}

	if contestId := parseId(string(raw.ContestId)); contestId > 0 {
		poem.Contest = &Contest{
			Id:   contestId,
			Name: strings.TrimSpace(string(raw.ContestName)),
		}
	}

	authorId := parseId(string(raw.AuthorId))
	if authorId == 0 {
		authorId = parseId(string(raw.UserId))
	}
	username := strings.TrimSpace(string(raw.Username))
	uri := strings.TrimSpace(string(raw.UserUri))
	if authorId > 0 || username != "" || uri != "" {
		poem.Author = &PoemAuthor{Id: authorId, Username: username}
		if uri != "" {
			poem.Author.ProfileUrl = ptr(s.pathProfileUrl(uri))
		}
	}

	return poem
}

// MapPoemDocument normalizes the poem shown on a single poem page. A page
// without this poem on it is ErrNotFound, a container that carries no id is
// taken to be the requested poem.
func (s site) MapPoemDocument(doc *goquery.Document, id int64) (Poem, error) {
	containers := doc.Find(selPoem)
	container := containers.FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return parseId(attr(sel, attrPoemId)) == id
	}).First()
	if container.Length() == 0 {
		container = containers.FilterFunction(func(_ int, sel *goquery.Selection) bool {
			return parseId(attr(sel, attrPoemId)) == 0
		}).First()
	}
	if container.Length() == 0 {
		return Poem{}, notFound(nil, "poem %d not found", id)
	}

	poem := Poem{
		Id:               parseId(attr(container, attrPoemId)),
		CreatedText:      htmlutil.SelectionText(container.Find(selPoemDate).First()),
		CollectionName:   collectionName(htmlutil.SelectionText(container.Find(selPoemCollection).First())),
		Rating:           parseCount(htmlutil.SelectionText(container.Find(selPoemLikes).First())),
		CommentsCount:    parseCount(htmlutil.SelectionText(container.Find(selPoemComments).First())),
		HasCertificate:   container.Find(selPoemCertificate).Length() > 0,
		Gifts:            parseGifts(attr(container, attrPoemGifts)),
		UniquenessStatus: parseUniqueness(attr(container, attrPoemUnique)),
	}
	if poem.Id == 0 {
		poem.Id = id
	}

	title := htmlutil.SelectionText(container.Find(selPoemTitle).First())
	if title == "" {
		title = htmlutil.SelectionText(doc.Find("h1").First())
	}
	poem.Title = titleOrPlaceholder(title)

	if text := container.Find(selPoemText).First(); text.Length() > 0 {
		poem.Text = normalizeBody(htmlutil.GetTextWithBreaks(text.Get(0)))
	}

	poem.Rubric = s.documentRubric(container)

	poem.ImageUrl = s.optionalUrl(attr(container.Find(selPoemImage).First(), "src"), nil)
	if poem.ImageUrl == nil {
		poem.ImageUrl = s.optionalUrl(attr(container, attrPoemBackground), nil)
	}

	if contest := container.Find(selPoemContest).First(); contest.Length() > 0 {
		if contestId := parseId(attr(contest, attrPoemContestId)); contestId > 0 {
			poem.Contest = &Contest{Id: contestId, Name: htmlutil.SelectionText(contest)}
		}
	}

	if holiday := container.Find(selPoemHoliday).First(); holiday.Length() > 0 {
		if holidayId := parseId(attr(holiday, attrPoemHolidayId)); holidayId > 0 {
			poem.HolidaySection = &HolidaySection{
				Id:    holidayId,
				Url:   s.optionalUrl(attr(holiday, "href"), nil),
				Title: htmlutil.SelectionText(holiday),
			}
		}
	}

	poem.Author = s.documentAuthor(doc, container)
	return poem, nil
}

func (s site) documentRubric(container *goquery.Selection) Rubric {
	link := container.Find(selPoemRubric).First()
	name := htmlutil.SelectionText(link)
	if name == "" {
		name = htmlutil.SelectionText(container.Find(selPoemRubricText).First())
	}
	rubric := Rubric{Name: name}
	if name != sentinelNoRubricName {
		rubric.Url = s.optionalUrl(attr(link, "href"), nil)
	}
	return rubric
}

// documentAuthor is best effort, a page without an author block yields nil.
func (s site) documentAuthor(doc *goquery.Document, container *goquery.Selection) *PoemAuthor {
	block := container.Find(selPoemAuthor).First()
	if block.Length() == 0 {
		block = doc.Find(selPoemAuthor).First()
	}

	link := block.Find(selPoemAuthorLink).First()
	if link.Length() == 0 {
		link = container.Find(selPoemAuthorLinkAlt).First()
	}
	if block.Length() == 0 && link.Length() == 0 {
		return nil
	}

	author := &PoemAuthor{Id: parseId(attr(block, attrPoemAuthorId))}
	if author.Id == 0 {
		author.Id = parseId(attr(link, attrPoemAuthorId))
	}
	if href := htmlutil.AbsoluteUrl(s.base, attr(link, "href")); href != "" {
		author.ProfileUrl = &href
		author.Username = s.usernameFromProfileUrl(href)
	}
	if author.Username == "" {
		author.Username = htmlutil.SelectionText(link)
	}
	if author.Id == 0 && author.Username == "" && author.ProfileUrl == nil {
		return nil
	}
	return author
}

// usernameFromProfileUrl extracts the username from either profile url
// form, "" when the url is neither.
func (s site) usernameFromProfileUrl(profileUrl string) string {
	c, err := s.classify(IdentifierFromString(profileUrl))
	if err != nil {
		return ""
	}
	switch c.kind {
	case kindPathUrl, kindSubdomainUrl:
		return c.username
	}
	return ""
}
