// Package lang names the languages a commit message can be written in.
package lang

import (
	"fmt"
	"strings"
)

// Language is a message language code
type Language string

const (
	English            Language = "en"
	ChineseSimplified  Language = "zh"
	ChineseTraditional Language = "zh-tw"
	Japanese           Language = "ja"
	Korean             Language = "ko"
	German             Language = "de"
	French             Language = "fr"
	Spanish            Language = "es"
)

var displayNames = map[Language]string{
	English:            "English",
	ChineseSimplified:  "中文（简体）",
	ChineseTraditional: "中文（繁體）",
	Japanese:           "日本語",
	Korean:             "한국어",
	German:             "Deutsch",
	French:             "Français",
	Spanish:            "Español",
}

// aliases are accepted spellings that map onto a canonical code
var aliases = map[string]Language{
	"zh-cn":   ChineseSimplified,
	"zh-hans": ChineseSimplified,
	"zh-hant": ChineseTraditional,
	"zh-hk":   ChineseTraditional,
}

// UnsupportedError reports a language code that is not known
type UnsupportedError struct {
	Code string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported language: %s (supported: %s)", e.Code, strings.Join(Codes(), ", "))
}

func (l Language) String() string {
	return string(l)
}

// IsValid reports whether l is a canonical code
func (l Language) IsValid() bool {
	_, ok := displayNames[l]
	return ok
}

// DisplayName returns the native name of the language, or the code itself
func (l Language) DisplayName() string {
	if name, ok := displayNames[l]; ok {
		return name
	}
	return string(l)
}

// All returns the supported languages, English first
func All() []Language {
	return []Language{English, ChineseSimplified, ChineseTraditional, Japanese, Korean, German, French, Spanish}
}

// Codes returns the codes of All as strings
func Codes() []string {
	all := All()
	codes := make([]string, len(all))
	for i, l := range all {
		codes[i] = l.String()
	}
	return codes
}

// Parse normalizes s (case, '_' separators, regional aliases) to a supported
// language. An empty string means English.
func Parse(s string) (Language, error) {
	code := strings.ToLower(strings.TrimSpace(s))
	code = strings.ReplaceAll(code, "_", "-")
	if code == "" {
		return English, nil
	}
	if l, ok := aliases[code]; ok {
		return l, nil
	}
	if l := Language(code); l.IsValid() {
		return l, nil
	}
	return "", &UnsupportedError{Code: s}
}
