package stihirus

import (
	"strings"
	"testing"

	"stihirus-reader/internal/testutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func loadDocument(t testing.TB, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestExtractProfile(t *testing.T) {
	doc := loadDocument(t, testutil.ReadFixture(t, "profile.html"))

	id, err := extractAuthorId(doc)
	require.NoError(t, err)
	require.Equal(t, int64(14260), id)

	fields, err := testSite(t).ExtractProfile(doc)
	require.NoError(t, err)

	expected := ProfileFields{
		DisplayName:   "Орех Орехов",
		Description:   "Пишу о лесе, о реке и о доме.",
		AvatarUrl:     ptr("https://stihirus.ru/img/profile/14260.jpg"),
		HeaderUrl:     nil,
		Status:        "Автор",
		LastVisitText: "12.03.2024 18:40",
		IsPremium:     true,
		Stats: AuthorStats{
			PoemsDeclared:   42,
			ReviewsSent:     1204,
			ReviewsReceived: 7,
		},
		Collections: []Collection{
			{Name: "Лесные песни", Url: "https://stihirus.ru/sbornik/101"},
			{Name: "Река", Url: "https://stihirus.ru/sbornik/102"},
		},
	}
	if diff := cmp.Diff(expected, fields); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractProfileDegrades(t *testing.T) {
	doc := loadDocument(t, `
		<h1>Просто Имя</h1>
		<div class="avtorinfo" data-userid="7">
			<img class="avatar" src="//cdn.stihirus.ru/a/7.png">
		</div>
		<img class="page_avatar_img" src="/img/profile/none.jpg">
		<img class="page_header_img" src="/img/header/7.jpg">
		<div id="show_stat"><div class="progress-bar" aria-valuenow="3"></div></div>`)

	fields, err := testSite(t).ExtractProfile(doc)
	require.NoError(t, err)
	require.Equal(t, "Просто Имя", fields.DisplayName)
	require.Equal(t, "https://cdn.stihirus.ru/a/7.png", *fields.AvatarUrl)
	require.Equal(t, "https://stihirus.ru/img/header/7.jpg", *fields.HeaderUrl)
	require.Equal(t, AuthorStats{}, fields.Stats)
	require.Empty(t, fields.Collections)
	require.NotNil(t, fields.Collections)
	require.False(t, fields.IsPremium)
}

func TestExtractProfileRejectsOtherPages(t *testing.T) {
	doc := loadDocument(t, testutil.ReadFixture(t, "homepage.html"))

	_, err := testSite(t).ExtractProfile(doc)
	require.Equal(t, ErrParsing, KindOf(err))

	_, err = extractAuthorId(doc)
	require.Equal(t, ErrParsing, KindOf(err))
}

func TestExtractAuthorIdFallback(t *testing.T) {
	doc := loadDocument(t, `<div class="avtorinfo"></div><span data-userid="99"></span>`)
	id, err := extractAuthorId(doc)
	require.NoError(t, err)
	require.Equal(t, int64(99), id)
}

func TestExtractAuthorIdRequiresProfile(t *testing.T) {
	doc := loadDocument(t, `<div data-userid="777">перенаправление</div>`)
	_, err := extractAuthorId(doc)
	require.Equal(t, ErrParsing, KindOf(err))
}
