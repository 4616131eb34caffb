package llrdoc

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"slintc-go/packages/compiler/src/llr"
)

// MergeCatalog adds the messages of a go-i18n message file (active.fr.toml, fr.yaml, ...)
// to tr. The language comes from the file name. A message ID is matched against the
// source column of the strings, and against the first source form of the plurals. Plural
// translations take the non-empty forms in the order one, two, few, many, other.
//
// A language already in tr gets its missing entries filled; a new language becomes a new
// column.
func MergeCatalog(tr *llr.Translations, path string) error {
	if len(tr.Languages) == 0 {
		return fmt.Errorf("%s: the unit has no source language to translate from", path)
	}
	bundle := i18n.NewBundle(language.Make(tr.Languages[0]))
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yml", yaml.Unmarshal)
	mf, err := bundle.LoadMessageFile(path)
	if err != nil {
		return fmt.Errorf("failed to load message file: %w", err)
	}
	if mf.Tag == language.Und {
		return fmt.Errorf("%s: no language in the file name", path)
	}
	col := languageColumn(tr, mf.Tag.String())

	strs := map[string]int{}
	for i, row := range tr.Strings {
		strs[row[0]] = i
	}
	plurals := map[string]int{}
	for i, row := range tr.Plurals {
		if len(row[0]) > 0 {
			plurals[row[0][0]] = i
		}
	}
	for _, msg := range mf.Messages {
		if i, ok := plurals[msg.ID]; ok {
			if len(tr.Plurals[i][col]) == 0 {
				tr.Plurals[i][col] = pluralForms(msg)
			}
			continue
		}
		if i, ok := strs[msg.ID]; ok && tr.Strings[i][col] == "" {
			tr.Strings[i][col] = msg.Other
		}
	}
	return nil
}

// languageColumn returns the column of lang, adding an empty one if needed
func languageColumn(tr *llr.Translations, lang string) int {
	for i, l := range tr.Languages {
		if l == lang {
			return i
		}
	}
	tr.Languages = append(tr.Languages, lang)
	for i := range tr.Strings {
		tr.Strings[i] = append(tr.Strings[i], "")
	}
	for i := range tr.Plurals {
		tr.Plurals[i] = append(tr.Plurals[i], nil)
	}
	if tr.PluralRules != nil {
		tr.PluralRules = append(tr.PluralRules, nil)
	}
	return len(tr.Languages) - 1
}

func pluralForms(msg *i18n.Message) []string {
	var forms []string
	for _, f := range []string{msg.One, msg.Two, msg.Few, msg.Many, msg.Other} {
		if f != "" {
			forms = append(forms, f)
		}
	}
	return forms
}
