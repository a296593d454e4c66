// Package local keeps user-facing texts with their translations.
package local

import (
	"fmt"
	"strings"
)

type Language string

const (
	Eng = Language("en")
	Rus = Language("ru")
)

// ParseLanguage maps an IETF tag such as "ru-RU" to a supported language, falling back to Eng.
func ParseLanguage(tag string) Language {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(tag)), "-")
	switch Language(base) {
	case Rus:
		return Rus
	default:
		return Eng
	}
}

// Localization is one translation of a TextSet.
type Localization struct {
	language Language
	text     string
}

func NewTrans(language Language, text string) Localization {
	return Localization{language: language, text: text}
}

// TextSet is an English text plus its translations. Texts may be fmt formats.
type TextSet struct {
	Default      string
	translations map[Language]string
}

func NewSet(defaultText string, localizations ...Localization) TextSet {
	translations := make(map[Language]string, len(localizations))
	for _, localization := range localizations {
		translations[localization.language] = localization.text
	}
	return TextSet{Default: defaultText, translations: translations}
}

// Text returns the translation for language or Default when there is none.
func (s TextSet) Text(language Language) string {
	if text, ok := s.translations[language]; ok {
		return text
	}
	return s.Default
}

func (s TextSet) DefaultFormat(a ...any) string {
	return fmt.Sprintf(s.Default, a...)
}

func (s TextSet) Format(language Language, a ...any) string {
	return fmt.Sprintf(s.Text(language), a...)
}
