package stihirus

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// IsValidUsername reports whether s could be a username on the site.
func IsValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// Identifier is any accepted way of naming an author: a numeric id, a
// username, or a profile url in either the subdomain or path form.
type Identifier struct {
	id    int64
	text  string
	isNum bool
}

func IdentifierFromID(id int64) Identifier {
	return Identifier{id: id, isNum: true}
}

func IdentifierFromString(s string) Identifier {
	return Identifier{text: s}
}

// ParseIdentifier treats an all digit string as a numeric id and anything
// else as a textual identifier.
func ParseIdentifier(s string) Identifier {
	if s != "" && strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) < 0 {
		id, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return IdentifierFromID(id)
		}
	}
	return IdentifierFromString(s)
}

func (i Identifier) IsNumeric() bool {
	return i.isNum
}

func (i Identifier) String() string {
	if i.isNum {
		return strconv.FormatInt(i.id, 10)
	}
	return i.text
}

type identifierKind int

const (
	kindNumeric identifierKind = iota
	kindSubdomainUrl
	kindPathUrl
	kindUsername
)

// classified is the result of classifying an identifier without any I/O.
type classified struct {
	kind      identifierKind
	authorId  int64
	username  string
	candidate string
}

func looksLikeUrl(s string) bool {
	return strings.Contains(s, "://") || strings.Contains(s, "/") || strings.Contains(s, ".")
}

// classify decides which of the accepted shapes an identifier has, first
// match wins.
func (s site) classify(ident Identifier) (classified, error) {
	if ident.isNum {
		if ident.id <= 0 {
			return classified{}, invalidInput("invalid author id %d", ident.id)
		}
		return classified{kind: kindNumeric, authorId: ident.id}, nil
	}

	text := ident.text
	if text == "" {
		return classified{}, invalidInput("invalid identifier format: empty identifier")
	}
	if strings.IndexFunc(text, unicode.IsSpace) >= 0 {
		return classified{}, invalidInput("invalid identifier format: %q contains whitespace", text)
	}

	if !looksLikeUrl(text) {
		if !IsValidUsername(text) {
			return classified{}, invalidInput("invalid identifier format: %q", text)
		}
		return classified{
			kind:      kindUsername,
			username:  text,
			candidate: s.subdomainProfileUrl(text),
		}, nil
	}

	raw := text
	hasScheme := strings.Contains(raw, "://")
	if !hasScheme {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return classified{}, invalidInput("unrecognized URL format: %s", text)
	}
	host := parsed.Hostname()
	if strings.HasPrefix(strings.ToLower(host), "www.") {
		host = host[len("www."):]
	}
	lower := strings.ToLower(host)

	if strings.HasSuffix(lower, "."+s.domain) && len(strings.Split(lower, ".")) > 2 {
		sub := host[:len(host)-len(s.domain)-1]
		if !IsValidUsername(sub) {
			return classified{}, invalidInput("invalid username %q in profile URL", sub)
		}
		candidate := s.subdomainProfileUrl(sub)
		if hasScheme {
			// an explicit scheme makes the input's own origin the candidate
			origin := host
			if port := parsed.Port(); port != "" {
				origin += ":" + port
			}
			candidate = strings.ToLower(parsed.Scheme) + "://" + origin + "/"
		}
		return classified{
			kind:      kindSubdomainUrl,
			username:  sub,
			candidate: candidate,
		}, nil
	}

	if lower == s.domain {
		path := parsed.Path
		if path == "/avtor" || strings.HasPrefix(path, "/avtor/") {
			segment := strings.TrimPrefix(strings.TrimPrefix(path, "/avtor"), "/")
			if idx := strings.Index(segment, "/"); idx >= 0 {
				segment = segment[:idx]
			}
			if segment == "" {
				return classified{}, invalidInput("missing username in profile URL: %s", text)
			}
			if !IsValidUsername(segment) {
				return classified{}, invalidInput("invalid username %q in profile URL", segment)
			}
			return classified{
				kind:      kindPathUrl,
				username:  segment,
				candidate: s.subdomainProfileUrl(segment),
			}, nil
		}
	}

	return classified{}, invalidInput("unrecognized URL format: %s", text)
}
