package output

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CurrencyPrefix is prepended to formatted freebie values.
const CurrencyPrefix = "KSh"

// FormatHeader returns a markdown heading.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a markdown list item with a bold key.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s**: %s", key, value)
}

// FormatCodeBlock returns a fenced markdown code block.
func FormatCodeBlock(lang, code string) string {
	return "```" + lang + "\n" + strings.TrimRight(code, "\n") + "\n```"
}

// Money formats a value with thousands separators, e.g. "KSh 2,500,000".
func Money(v int64) string {
	return CurrencyPrefix + " " + humanize.Comma(v)
}

// Title converts snake_case, kebab-case or lower-case labels to Title Case.
func Title(s string) string {
	return cases.Title(language.English).String(strings.NewReplacer("_", " ", "-", " ").Replace(s))
}
