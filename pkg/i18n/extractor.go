package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// LangExtractor extracts a language code from an HTTP request.
type LangExtractor func(r *http.Request) string

// ExtractLanguage resolves the request language against the supported set,
// in priority order: explicit "lang" query parameter, "lang" cookie,
// Accept-Language negotiation. Falls back to DefaultLanguage.
func ExtractLanguage(supported []string) LangExtractor {
	tags := make([]language.Tag, 0, len(supported))
	for _, lang := range supported {
		if tag, err := language.Parse(lang); err == nil {
			tags = append(tags, tag)
		}
	}
	matcher := language.NewMatcher(tags)

	return func(r *http.Request) string {
		if lang := normalizeLang(r.URL.Query().Get("lang"), supported); lang != "" {
			return lang
		}

		if cookie, err := r.Cookie("lang"); err == nil {
			if lang := normalizeLang(cookie.Value, supported); lang != "" {
				return lang
			}
		}

		if accept := r.Header.Get("Accept-Language"); accept != "" {
			if requested, _, err := language.ParseAcceptLanguage(accept); err == nil && len(requested) > 0 {
				_, idx, conf := matcher.Match(requested...)
				if conf > language.No && idx < len(supported) {
					return strings.ToLower(supported[idx])
				}
			}
		}

		return DefaultLanguage
	}
}

// normalizeLang lowercases lang, strips any region subtag, and returns it
// only when present in the supported set.
func normalizeLang(lang string, supported []string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return ""
	}
	if idx := strings.Index(lang, "-"); idx > 0 {
		lang = lang[:idx]
	}
	for _, s := range supported {
		if strings.ToLower(s) == lang {
			return lang
		}
	}
	return ""
}
