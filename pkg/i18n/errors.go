package i18n

import "errors"

var (
	// ErrParseCatalog is returned when a YAML catalog cannot be parsed.
	ErrParseCatalog = errors.New("failed to parse translation catalog")
	// ErrNoTranslations is returned when a translator is built without any catalogs.
	ErrNoTranslations = errors.New("no translations loaded")
)
