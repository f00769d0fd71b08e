package stihirus

import (
	"testing"

	"stihirus-reader/internal/testutil"

	"github.com/stretchr/testify/require"
)

func testSite(t testing.TB) site {
	s, err := newSite("https://stihirus.ru")
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestClassify(t *testing.T) {
	s := testSite(t)

	cases := []struct {
		name      string
		ident     Identifier
		kind      identifierKind
		username  string
		candidate string
		authorId  int64
		errKind   ErrorKind
	}{
		{
			name:     "numeric id",
			ident:    IdentifierFromID(14260),
			kind:     kindNumeric,
			authorId: 14260,
		},
		{
			name:    "non-positive id",
			ident:   IdentifierFromID(0),
			errKind: ErrInvalidInput,
		},
		{
			name:      "username",
			ident:     IdentifierFromString("oreh-orehov"),
			kind:      kindUsername,
			username:  "oreh-orehov",
			candidate: "https://oreh-orehov.stihirus.ru/",
		},
		{
			name:      "subdomain url",
			ident:     IdentifierFromString("https://oreh-orehov.stihirus.ru/"),
			kind:      kindSubdomainUrl,
			username:  "oreh-orehov",
			candidate: "https://oreh-orehov.stihirus.ru/",
		},
		{
			name:      "subdomain url keeps scheme and port",
			ident:     IdentifierFromString("http://oreh-orehov.stihirus.ru:8080/sborniki"),
			kind:      kindSubdomainUrl,
			username:  "oreh-orehov",
			candidate: "http://oreh-orehov.stihirus.ru:8080/",
		},
		{
			name:      "subdomain url with www",
			ident:     IdentifierFromString("https://www.oreh-orehov.stihirus.ru"),
			kind:      kindSubdomainUrl,
			username:  "oreh-orehov",
			candidate: "https://oreh-orehov.stihirus.ru/",
		},
		{
			name:      "subdomain without scheme",
			ident:     IdentifierFromString("oreh-orehov.stihirus.ru"),
			kind:      kindSubdomainUrl,
			username:  "oreh-orehov",
			candidate: "https://oreh-orehov.stihirus.ru/",
		},
		{
			name:      "path url",
			ident:     IdentifierFromString("https://stihirus.ru/avtor/oreh-orehov"),
			kind:      kindPathUrl,
			username:  "oreh-orehov",
			candidate: "https://oreh-orehov.stihirus.ru/",
		},
		{
			name:      "path url with www and trailing segments",
			ident:     IdentifierFromString("https://www.stihirus.ru/avtor/oreh-orehov/sborniki"),
			kind:      kindPathUrl,
			username:  "oreh-orehov",
			candidate: "https://oreh-orehov.stihirus.ru/",
		},
		{
			name:      "path url without scheme",
			ident:     IdentifierFromString("stihirus.ru/avtor/oreh-orehov"),
			kind:      kindPathUrl,
			username:  "oreh-orehov",
			candidate: "https://oreh-orehov.stihirus.ru/",
		},
		{
			name:    "path url with empty username",
			ident:   IdentifierFromString("https://stihirus.ru/avtor/"),
			errKind: ErrInvalidInput,
		},
		{
			name:    "foreign host",
			ident:   IdentifierFromString("https://example.com/avtor/oreh-orehov"),
			errKind: ErrInvalidInput,
		},
		{
			name:    "site url that is not a profile",
			ident:   IdentifierFromString("https://stihirus.ru/proizv/12"),
			errKind: ErrInvalidInput,
		},
		{
			name:    "whitespace",
			ident:   IdentifierFromString("oreh orehov"),
			errKind: ErrInvalidInput,
		},
		{
			name:    "empty",
			ident:   IdentifierFromString(""),
			errKind: ErrInvalidInput,
		},
		{
			name:    "forbidden characters",
			ident:   IdentifierFromString("oreh_orehov!"),
			errKind: ErrInvalidInput,
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			c, err := s.classify(test.ident)
			if test.errKind != ErrUnknown {
				require.Error(t, err)
				require.Equal(t, test.errKind, KindOf(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.kind, c.kind)
			require.Equal(t, test.username, c.username)
			require.Equal(t, test.candidate, c.candidate)
			require.Equal(t, test.authorId, c.authorId)
		})
	}
}

func TestClassifyWhitespaceMessage(t *testing.T) {
	_, err := testSite(t).classify(IdentifierFromString(" oreh-orehov"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid identifier format")

	var e *Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, 400, e.Code())
}

func TestClassifyRandomUsernames(t *testing.T) {
	s := testSite(t)
	for range 20 {
		username := testutil.RandomUsername(t)
		require.True(t, IsValidUsername(username), username)

		byName, err := s.classify(IdentifierFromString(username))
		require.NoError(t, err)
		bySubdomain, err := s.classify(IdentifierFromString(s.subdomainProfileUrl(username)))
		require.NoError(t, err)
		byPath, err := s.classify(IdentifierFromString(s.pathProfileUrl(username)))
		require.NoError(t, err)

		require.Equal(t, username, byName.username)
		require.Equal(t, byName.candidate, bySubdomain.candidate)
		require.Equal(t, byName.candidate, byPath.candidate)
	}
}

func TestParseIdentifier(t *testing.T) {
	require.True(t, ParseIdentifier("14260").IsNumeric())
	require.Equal(t, "14260", ParseIdentifier("14260").String())
	require.False(t, ParseIdentifier("oreh-orehov").IsNumeric())
	require.False(t, ParseIdentifier("-5").IsNumeric())
	require.False(t, ParseIdentifier("").IsNumeric())
}
