package runtime

import (
	"strconv"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// Bundle holds translations compiled into a program.
//
// Column 0 is the language the strings were written in; it is used whenever the selected
// language lacks a translation.
type Bundle struct {
	Languages []string
	// Strings[i][l] is string i in language l, "" when missing
	Strings [][]string
	// Plurals[i][l] are the plural forms of string i in language l, nil when missing
	Plurals [][][]string
	// Rules[l] maps a count to the index of the plural form, nil uses the CLDR rules
	Rules []func(n int) int

	current int
	tags    []language.Tag
}

// NewBundle creates a bundle with the first language selected
func NewBundle(languages []string, strs [][]string, plurals [][][]string, rules []func(n int) int) *Bundle {
	b := &Bundle{Languages: languages, Strings: strs, Plurals: plurals, Rules: rules}
	for _, l := range languages {
		b.tags = append(b.tags, language.Make(l))
	}
	return b
}

// SelectLanguage selects the bundled language closest to lang and reports whether one
// matched with at least low confidence
func (b *Bundle) SelectLanguage(lang string) bool {
	if len(b.tags) == 0 {
		return false
	}
	want, err := language.Parse(lang)
	if err != nil {
		return false
	}
	_, index, conf := language.NewMatcher(b.tags).Match(want)
	if conf == language.No {
		return false
	}
	b.current = index
	return true
}

// Language returns the selected language
func (b *Bundle) Language() string {
	if b.current >= len(b.Languages) {
		return ""
	}
	return b.Languages[b.current]
}

// Translate returns string index in the selected language, formatted with args
func (b *Bundle) Translate(index int, args []string) string {
	if index < 0 || index >= len(b.Strings) {
		return ""
	}
	row := b.Strings[index]
	s := ""
	if b.current < len(row) {
		s = row[b.current]
	}
	if s == "" && len(row) > 0 {
		s = row[0]
	}
	return FormatTranslation(s, args)
}

// TranslatePlural returns the plural form of string index matching n
func (b *Bundle) TranslatePlural(index, n int, args []string) string {
	if index < 0 || index >= len(b.Plurals) {
		return ""
	}
	row := b.Plurals[index]
	lang := b.current
	if lang >= len(row) || len(row[lang]) == 0 {
		lang = 0
	}
	if lang >= len(row) || len(row[lang]) == 0 {
		return ""
	}
	forms := row[lang]
	form := b.pluralForm(lang, n, len(forms))
	return formatTranslation(forms[form], args, strconv.Itoa(n))
}

func (b *Bundle) pluralForm(lang, n, count int) int {
	var i int
	if lang < len(b.Rules) && b.Rules[lang] != nil {
		i = b.Rules[lang](n)
	} else {
		tag := language.English
		if lang < len(b.tags) {
			tag = b.tags[lang]
		}
		i = CLDRPluralIndex(tag, n)
	}
	if i < 0 {
		i = 0
	}
	if i >= count {
		i = count - 1
	}
	return i
}

// CLDRPluralIndex returns the gettext form index of n for lang, following the usual
// gettext ordering: one, two or few, many, other
func CLDRPluralIndex(lang language.Tag, n int) int {
	switch plural.Cardinal.MatchPlural(lang, n, 0, 0, 0, 0) {
	case plural.One, plural.Zero:
		return 0
	case plural.Two, plural.Few:
		return 1
	case plural.Many:
		return 2
	}
	// Other is the last form; callers clamp it
	return 1 << 30
}

// Translate is the lookup used when translations are not bundled. Without a catalog the
// source string is returned: plural when n is not 1.
func Translate(_, source, _ string, args []string, n int, pluralSource string) string {
	s := source
	if pluralSource != "" && n != 1 {
		s = pluralSource
	}
	return formatTranslation(s, args, strconv.Itoa(n))
}

// FormatTranslation substitutes {} (next argument) and {N} (argument N). {{ and }} are
// literal braces.
func FormatTranslation(format string, args []string) string {
	return formatTranslation(format, args, "{n}")
}

// formatTranslation also replaces {n} with count
func formatTranslation(format string, args []string, count string) string {
	if !strings.ContainsAny(format, "{}") {
		return format
	}
	var sb strings.Builder
	next := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case c == '{' && i+1 < len(format) && format[i+1] == '{':
			sb.WriteByte('{')
			i++
		case c == '}' && i+1 < len(format) && format[i+1] == '}':
			sb.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				sb.WriteString(format[i:])
				return sb.String()
			}
			key := format[i+1 : i+end]
			i += end
			idx := -1
			switch key {
			case "":
				idx = next
				next++
			case "n":
				sb.WriteString(count)
				continue
			default:
				if k, err := strconv.Atoi(key); err == nil {
					idx = k
				}
			}
			if idx >= 0 && idx < len(args) {
				sb.WriteString(args[idx])
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
