package templates

import (
	"github.com/louisbranch/postdesk/internal/services/shared/i18nhttp"
	"golang.org/x/text/language"
)

// PageContext provides shared layout context for pages.
type PageContext struct {
	Lang         string
	Loc          Localizer
	Title        string
	CurrentPath  string
	CurrentQuery string
}

// LanguageOption represents a supported language option in the UI.
type LanguageOption = i18nhttp.LanguageOption

// LanguageOptions returns supported language options with active selection.
func LanguageOptions(page PageContext) []LanguageOption {
	return i18nhttp.BuildLanguageOptions(i18nhttp.Supported(), page.Lang, page.CurrentPath, page.CurrentQuery, func(tag language.Tag) string {
		return T(page.Loc, i18nhttp.LanguageKeyLabel(tag))
	})
}
