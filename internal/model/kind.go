package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sakif/folio/internal/apperror"
)

// Kind identifies a template type. Each kind owns exactly one storage key.
type Kind string

const (
	KindPortfolio Kind = "portfolio"
	KindDeveloper Kind = "developer"
	KindSaaS      Kind = "saas"
)

// storageKeyPrefix namespaces the per-kind keys in the key/value table.
const storageKeyPrefix = "template_"

// Kinds lists every template type in display order.
func Kinds() []Kind {
	return []Kind{KindPortfolio, KindDeveloper, KindSaaS}
}

// ParseKind turns a URL segment or CLI argument into a Kind.
// Matching is case-insensitive; anything unknown is a validation error.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", apperror.ValidationFailed("kind", "unknown template type: "+s)
}

// StorageKey is the key this kind's record is persisted under.
func (k Kind) StorageKey() string {
	return storageKeyPrefix + string(k)
}

// KindFromStorageKey reverses StorageKey. ok is false for foreign keys.
func KindFromStorageKey(key string) (Kind, bool) {
	rest, found := strings.CutPrefix(key, storageKeyPrefix)
	if !found {
		return "", false
	}
	k, err := ParseKind(rest)
	return k, err == nil
}

// displayNames overrides the title-cased kind where that reads wrong.
var displayNames = map[Kind]string{
	KindSaaS: "SaaS",
}

// DisplayName is the human title, e.g. "Developer".
func (k Kind) DisplayName() string {
	if name, ok := displayNames[k]; ok {
		return name
	}
	return cases.Title(language.English).String(string(k))
}
