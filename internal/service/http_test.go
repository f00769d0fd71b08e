package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"stihirus-reader/internal/scrapers/stihirus"

	"github.com/stretchr/testify/require"
)

func get[T any](t *testing.T, handler http.Handler, path string) (int, Response[T]) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	var res Response[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return rec.Code, res
}

func TestHttpAuthor(t *testing.T) {
	site := newFakeSite(t)
	service, _ := newTestService(t, site)
	handler := service.Router()

	code, res := get[stihirus.AuthorProfile](t, handler, "/authors/oreh-orehov?page=0")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, StatusSuccess, res.Status)
	require.Equal(t, int64(14260), res.Data.AuthorId)
	require.Empty(t, res.Data.Poems)

	code, res = get[stihirus.AuthorProfile](t, handler, "/authors/14260?page=1&delay_ms=0")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, res.Data.Poems, 3)

	escaped := url.PathEscape("https://oreh-orehov.stihirus.ru/")
	code, res = get[stihirus.AuthorProfile](t, handler, "/authors/"+escaped+"?page=0")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "oreh-orehov", res.Data.Username)
}

func TestHttpAuthorInvalidQuery(t *testing.T) {
	site := newFakeSite(t)
	service, _ := newTestService(t, site)
	handler := service.Router()

	for _, path := range []string{
		"/authors/oreh-orehov?page=abc",
		"/authors/oreh-orehov?page=-1",
		"/authors/oreh-orehov?delay_ms=-5",
		"/authors/oreh-orehov?month=13",
		"/authors/oreh-orehov?rubric_id=1.5",
		"/authors/oreh%20orehov",
	} {
		code, res := get[stihirus.AuthorProfile](t, handler, path)
		require.Equal(t, http.StatusBadRequest, code, path)
		require.Equal(t, StatusError, res.Status, path)
		require.Nil(t, res.Data, path)
		require.Equal(t, http.StatusBadRequest, res.Error.Code, path)
	}
	require.Zero(t, site.requestCount())
}

func TestHttpFilters(t *testing.T) {
	service, _ := newTestService(t, newFakeSite(t))

	code, res := get[stihirus.AuthorFilters](t, service.Router(), "/authors/oreh-orehov/filters")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, res.Data.Rubrics, 1)
}

func TestHttpPoem(t *testing.T) {
	site := newFakeSite(t)
	service, _ := newTestService(t, site)
	handler := service.Router()

	code, res := get[stihirus.Poem](t, handler, "/poems/555001")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, int64(555001), res.Data.Id)

	for _, id := range []string{"1.5", "-1", "0", "abc"} {
		code, res := get[stihirus.Poem](t, handler, "/poems/"+id)
		require.Equal(t, http.StatusBadRequest, code, id)
		require.Equal(t, http.StatusBadRequest, res.Error.Code, id)
	}

	code, res = get[stihirus.Poem](t, handler, "/poems/31337")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, StatusError, res.Status)
}

func TestHttpHomepage(t *testing.T) {
	service, _ := newTestService(t, newFakeSite(t))
	handler := service.Router()

	code, homepage := get[stihirus.Homepage](t, handler, "/homepage")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, homepage.Data.PromoPoems, 2)

	for path, expected := range map[string]int{
		"/homepage/recommended-authors":  len(homepage.Data.RecommendedAuthors),
		"/homepage/weekly-rated-authors": len(homepage.Data.WeeklyRatedAuthors),
		"/homepage/active-authors":       len(homepage.Data.ActiveAuthors),
	} {
		code, res := get[[]stihirus.HomepageAuthor](t, handler, path)
		require.Equal(t, http.StatusOK, code, path)
		require.Len(t, *res.Data, expected, path)
	}

	code, promo := get[[]stihirus.HomepagePoem](t, handler, "/homepage/promo-poems")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, homepage.Data.PromoPoems, *promo.Data)
}
