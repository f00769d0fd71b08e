package stihirus

import (
	"context"
	"fmt"
	"testing"

	"stihirus-reader/internal/testutil"

	"github.com/stretchr/testify/require"
)

func profileHtml(authorId int64) string {
	return fmt.Sprintf(`<div class="avtorinfo" data-userid="%d"><h2 class="avtorinfo__name">Автор</h2></div>`, authorId)
}

func TestResolveUsername(t *testing.T) {
	transport := newFakeTransport()
	transport.documents["https://oreh-orehov.stihirus.ru/"] = testutil.ReadFixture(t, "profile.html")
	scraper, _ := newTestScraper(t, testConfig(), transport)

	res, err := scraper.Resolve(context.Background(), IdentifierFromString("oreh-orehov"))
	require.NoError(t, err)
	require.Equal(t, AuthorIdentity{
		AuthorId:            14260,
		Username:            "oreh-orehov",
		CanonicalProfileUrl: "https://oreh-orehov.stihirus.ru/",
	}, res.Identity)
	require.NotNil(t, res.Document)

	documents, api := transport.calls()
	require.Equal(t, 1, documents)
	require.Zero(t, api)
}

func TestResolveFallsBackToPathForm(t *testing.T) {
	transport := newFakeTransport()
	transport.documents["https://stihirus.ru/avtor/oreh-orehov"] = testutil.ReadFixture(t, "profile.html")
	scraper, tel := newTestScraper(t, testConfig(), transport)

	res, err := scraper.Resolve(context.Background(), IdentifierFromString("https://oreh-orehov.stihirus.ru"))
	require.NoError(t, err)
	require.Equal(t, int64(14260), res.Identity.AuthorId)
	require.Equal(t, "https://stihirus.ru/avtor/oreh-orehov", res.Identity.CanonicalProfileUrl)
	require.Equal(t, []string{
		"https://oreh-orehov.stihirus.ru/",
		"https://stihirus.ru/avtor/oreh-orehov",
	}, transport.documentCalls)
	require.Len(t, tel.Reports("warning"), 1)
}

func TestResolveFallbackOnUnreadableCandidate(t *testing.T) {
	transport := newFakeTransport()
	// the subdomain answers with the homepage instead of a profile
	transport.documents["https://oreh-orehov.stihirus.ru/"] = testutil.ReadFixture(t, "homepage.html")
	transport.documents["https://stihirus.ru/avtor/oreh-orehov"] = profileHtml(14260)
	scraper, _ := newTestScraper(t, testConfig(), transport)

	res, err := scraper.Resolve(context.Background(), IdentifierFromString("oreh-orehov"))
	require.NoError(t, err)
	require.Equal(t, int64(14260), res.Identity.AuthorId)
}

func TestResolveFallbackOnForeignUserId(t *testing.T) {
	transport := newFakeTransport()
	transport.documents["https://oreh-orehov.stihirus.ru/"] = `<div data-userid="777">перенаправление</div>`
	transport.documents["https://stihirus.ru/avtor/oreh-orehov"] = testutil.ReadFixture(t, "profile.html")
	scraper, _ := newTestScraper(t, testConfig(), transport)

	res, err := scraper.Resolve(context.Background(), IdentifierFromString("oreh-orehov"))
	require.NoError(t, err)
	require.Equal(t, int64(14260), res.Identity.AuthorId)
	require.Equal(t, "https://stihirus.ru/avtor/oreh-orehov", res.Identity.CanonicalProfileUrl)

	profile, err := scraper.Author(context.Background(), IdentifierFromString("oreh-orehov"), AuthorOptions{Page: ProfileOnly()})
	require.NoError(t, err)
	require.Equal(t, int64(14260), profile.AuthorId)
}

func TestResolveSubdomainUrlOrigin(t *testing.T) {
	transport := newFakeTransport()
	transport.documents["http://oreh-orehov.stihirus.ru:8080/"] = profileHtml(14260)
	scraper, _ := newTestScraper(t, testConfig(), transport)

	res, err := scraper.Resolve(context.Background(), IdentifierFromString("http://oreh-orehov.stihirus.ru:8080/"))
	require.NoError(t, err)
	require.Equal(t, "http://oreh-orehov.stihirus.ru:8080/", res.Identity.CanonicalProfileUrl)
	require.Equal(t, []string{"http://oreh-orehov.stihirus.ru:8080/"}, transport.documentCalls)
}

func TestResolveNotFound(t *testing.T) {
	transport := newFakeTransport()
	scraper, _ := newTestScraper(t, testConfig(), transport)

	_, err := scraper.Resolve(context.Background(), IdentifierFromString("nobody-here"))
	require.Error(t, err)
	require.Equal(t, ErrNotFound, KindOf(err))
	require.Contains(t, err.Error(), "page not found")

	documents, _ := transport.calls()
	require.Equal(t, 2, documents)
}

func TestResolveInvalidInputMakesNoRequests(t *testing.T) {
	transport := newFakeTransport()
	scraper, _ := newTestScraper(t, testConfig(), transport)

	for _, ident := range []Identifier{
		IdentifierFromString("oreh orehov"),
		IdentifierFromString("https://example.com/avtor/x"),
		IdentifierFromString("https://stihirus.ru/avtor/"),
		IdentifierFromID(-3),
	} {
		_, err := scraper.Resolve(context.Background(), ident)
		require.Equal(t, ErrInvalidInput, KindOf(err), ident.String())
	}

	documents, api := transport.calls()
	require.Zero(t, documents)
	require.Zero(t, api)
}

func TestResolveNumericId(t *testing.T) {
	transport := newFakeTransport()
	transport.api = poemPages(t, 14260, 20, sequentialIds(3))
	scraper, _ := newTestScraper(t, testConfig(), transport)

	res, err := scraper.Resolve(context.Background(), IdentifierFromID(14260))
	require.NoError(t, err)
	require.Equal(t, AuthorIdentity{
		AuthorId:            14260,
		Username:            "oreh-orehov",
		CanonicalProfileUrl: "https://stihirus.ru/avtor/oreh-orehov",
	}, res.Identity)
	require.Nil(t, res.Document)

	require.Len(t, transport.apiCalls, 1)
	require.Equal(t, map[string]string{"id": "14260", "from": "0"}, transport.apiCalls[0].Form)
}

func TestResolveUnknownNumericId(t *testing.T) {
	transport := newFakeTransport()
	transport.api = poemPages(t, 14260, 20, sequentialIds(3))
	scraper, _ := newTestScraper(t, testConfig(), transport)

	_, err := scraper.Resolve(context.Background(), IdentifierFromID(99999999))
	require.Equal(t, ErrNotFound, KindOf(err))

	transport.api = nil
	_, err = scraper.Resolve(context.Background(), IdentifierFromID(14260))
	require.Equal(t, ErrNotFound, KindOf(err))
}

func TestResolveShapesConverge(t *testing.T) {
	for i := range 10 {
		username := testutil.RandomUsername(t)
		authorId := int64(1000 + i)

		transport := newFakeTransport()
		transport.documents[fmt.Sprintf("https://%s.stihirus.ru/", username)] = profileHtml(authorId)
		transport.documents["https://stihirus.ru/avtor/"+username] = profileHtml(authorId)
		scraper, _ := newTestScraper(t, testConfig(), transport)
		ctx := context.Background()

		byName, err := scraper.Resolve(ctx, IdentifierFromString(username))
		require.NoError(t, err)
		bySubdomain, err := scraper.Resolve(ctx, IdentifierFromString(fmt.Sprintf("https://%s.stihirus.ru/", username)))
		require.NoError(t, err)
		byPath, err := scraper.Resolve(ctx, IdentifierFromString("https://stihirus.ru/avtor/"+username))
		require.NoError(t, err)

		require.Equal(t, username, byName.Identity.Username)
		require.Equal(t, authorId, byName.Identity.AuthorId)
		require.Equal(t, bySubdomain.Identity.AuthorId, byPath.Identity.AuthorId)
		require.Equal(t, byName.Identity, byPath.Identity)
	}
}
