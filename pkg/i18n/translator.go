// Package i18n holds the static translation dictionaries for user-facing
// messages (English and Norwegian) and a small translator over them.
// Catalogs are YAML documents keyed by language code at the root.
package i18n

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when no usable language is supplied.
const DefaultLanguage = "en"

// Translator resolves dot-separated message keys against per-language
// catalogs and substitutes %{name} placeholders. Missing keys fall back to
// the key itself, so a missing translation is visible but never fatal.
type Translator struct {
	mu           sync.RWMutex
	translations map[string]map[string]any
}

// NewTranslator creates a Translator from one or more YAML catalogs. Each
// catalog's root keys are language codes; later catalogs merge over earlier
// ones per language.
func NewTranslator(catalogs ...[]byte) (*Translator, error) {
	t := &Translator{translations: make(map[string]map[string]any)}

	for _, raw := range catalogs {
		parsed, err := parseCatalog(raw)
		if err != nil {
			return nil, err
		}
		for lang, messages := range parsed {
			if existing, ok := t.translations[lang]; ok {
				for k, v := range messages {
					existing[k] = v
				}
				continue
			}
			t.translations[lang] = messages
		}
	}

	if len(t.translations) == 0 {
		return nil, ErrNoTranslations
	}

	return t, nil
}

// MustNewTranslator is NewTranslator that panics on failure. Intended for
// embedded catalogs, where a parse error is a build defect.
func MustNewTranslator(catalogs ...[]byte) *Translator {
	t, err := NewTranslator(catalogs...)
	if err != nil {
		panic(err)
	}
	return t
}

func parseCatalog(raw []byte) (map[string]map[string]any, error) {
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseCatalog, err)
	}

	result := make(map[string]map[string]any, len(data))
	for lang, val := range data {
		messages, ok := val.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: language %q: expected map, got %T", ErrParseCatalog, lang, val)
		}
		result[strings.ToLower(lang)] = messages
	}
	return result, nil
}

// SupportedLanguages returns the sorted language codes with catalogs loaded.
func (t *Translator) SupportedLanguages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	langs := make([]string, 0, len(t.translations))
	for lang := range t.translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// HasLanguage reports whether a catalog exists for lang.
func (t *Translator) HasLanguage(lang string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.translations[strings.ToLower(lang)]
	return ok
}

// T translates key for the given language. Arguments are key-value pairs
// substituted into %{name} placeholders:
//
//	t.T("en", "form.greeting", "name", "Kari")
//
// An unsupported language falls back to DefaultLanguage; an unknown key
// falls back to the key itself.
func (t *Translator) T(lang, key string, args ...string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	langMap, ok := t.translations[strings.ToLower(lang)]
	if !ok {
		langMap, ok = t.translations[DefaultLanguage]
		if !ok {
			return substitute(key, buildParams(args))
		}
	}

	val, ok := lookup(langMap, key)
	if !ok {
		return substitute(key, buildParams(args))
	}

	s, ok := val.(string)
	if !ok {
		return substitute(key, buildParams(args))
	}
	return substitute(s, buildParams(args))
}

// lookup traverses a nested map using dot-separated keys, so
// "email.invalid_format" resolves m["email"]["invalid_format"].
func lookup(m map[string]any, key string) (any, bool) {
	parts := strings.Split(key, ".")
	current := m

	for i, part := range parts {
		if i == len(parts)-1 {
			val, ok := current[part]
			return val, ok
		}

		next, ok := current[part].(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}

	return nil, false
}

func buildParams(args []string) map[string]string {
	params := make(map[string]string, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		params[args[i]] = args[i+1]
	}
	return params
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// substitute replaces %{name} placeholders. Unknown placeholders are kept
// verbatim so broken catalogs stay diagnosable.
func substitute(tmpl string, params map[string]string) string {
	if len(params) == 0 {
		return tmpl
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := params[name]; ok {
			return val
		}
		return match
	})
}
