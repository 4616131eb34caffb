package runtime_test

import (
	"testing"

	"golang.org/x/text/language"

	"slintc-go/packages/compiler/src/runtime"
)

func TestFormatTranslation(t *testing.T) {
	cases := []struct {
		format string
		args   []string
		want   string
	}{
		{"plain", nil, "plain"},
		{"{} and {}", []string{"a", "b"}, "a and b"},
		{"{1} before {0}", []string{"a", "b"}, "b before a"},
		{"{{literal}}", []string{"a"}, "{literal}"},
		{"missing {}", nil, "missing "},
		{"unterminated {", nil, "unterminated {"},
		{"{n} items", nil, "{n} items"},
	}
	for _, c := range cases {
		t.Run(c.format, func(t *testing.T) {
			if got := runtime.FormatTranslation(c.format, c.args); got != c.want {
				t.Errorf("FormatTranslation = %q, want %q", got, c.want)
			}
		})
	}
}

func testBundle() *runtime.Bundle {
	return runtime.NewBundle(
		[]string{"en", "de", "fr"},
		[][]string{
			{"Hello {}", "Hallo {}", ""},
		},
		[][][]string{
			{
				{"{n} file", "{n} files"},
				{"{n} Datei", "{n} Dateien"},
				nil,
			},
		},
		[]func(n int) int{
			nil,
			func(n int) int {
				if n == 1 {
					return 0
				}
				return 1
			},
			nil,
		},
	)
}

func TestBundle(t *testing.T) {
	b := testBundle()
	if got := b.Translate(0, []string{"World"}); got != "Hello World" {
		t.Errorf("default language: %q", got)
	}

	if !b.SelectLanguage("de-AT") {
		t.Fatal("de-AT did not match de")
	}
	if b.Language() != "de" {
		t.Errorf("Language = %q", b.Language())
	}
	if got := b.Translate(0, []string{"Welt"}); got != "Hallo Welt" {
		t.Errorf("de: %q", got)
	}
	if got := b.TranslatePlural(0, 1, nil); got != "1 Datei" {
		t.Errorf("de singular: %q", got)
	}
	if got := b.TranslatePlural(0, 5, nil); got != "5 Dateien" {
		t.Errorf("de plural: %q", got)
	}

	if !b.SelectLanguage("fr") {
		t.Fatal("fr did not match")
	}
	if got := b.Translate(0, []string{"monde"}); got != "Hello monde" {
		t.Errorf("missing translation falls back to the source: %q", got)
	}
	if got := b.TranslatePlural(0, 2, nil); got != "2 files" {
		t.Errorf("missing plural falls back to the source: %q", got)
	}

	if got := b.Translate(7, nil); got != "" {
		t.Errorf("unknown string: %q", got)
	}
	if b.SelectLanguage("not a language tag!") {
		t.Error("an invalid tag matched")
	}
}

func TestCLDRPluralIndex(t *testing.T) {
	if got := runtime.CLDRPluralIndex(language.English, 1); got != 0 {
		t.Errorf("en 1 = %d", got)
	}
	if got := runtime.CLDRPluralIndex(language.English, 2); got < 1 {
		t.Errorf("en 2 = %d, want the last form", got)
	}
	if got := runtime.CLDRPluralIndex(language.Polish, 3); got != 1 {
		t.Errorf("pl 3 (few) = %d", got)
	}
	if got := runtime.CLDRPluralIndex(language.Polish, 5); got != 2 {
		t.Errorf("pl 5 (many) = %d", got)
	}
}

func TestTranslateWithoutBundle(t *testing.T) {
	if got := runtime.Translate("ctx", "{n} apple", "domain", nil, 1, "{n} apples"); got != "1 apple" {
		t.Errorf("singular: %q", got)
	}
	if got := runtime.Translate("ctx", "{n} apple", "domain", nil, 3, "{n} apples"); got != "3 apples" {
		t.Errorf("plural: %q", got)
	}
	if got := runtime.Translate("", "Hi {}", "", []string{"you"}, 0, ""); got != "Hi you" {
		t.Errorf("no plural: %q", got)
	}
}
