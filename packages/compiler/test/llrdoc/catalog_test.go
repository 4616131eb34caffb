package llrdoc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/llrdoc"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMergeCatalog(t *testing.T) {
	dir := t.TempDir()
	tr := &llr.Translations{
		Languages: []string{"en", "fr"},
		Strings:   [][]string{{"Hello, {}", "Bonjour, {}"}, {"bye", ""}},
		Plurals:   [][][]string{{{"{n} file", "{n} files"}, nil}},
	}

	de := writeFile(t, dir, "active.de.toml", `
"Hello, {}" = "Hallo, {}"
unused = "nicht verwendet"

["{n} file"]
one = "{n} Datei"
other = "{n} Dateien"
`)
	if err := llrdoc.MergeCatalog(tr, de); err != nil {
		t.Fatal(err)
	}
	fr := writeFile(t, dir, "fr.yaml", `
"Hello, {}": "Salut, {}"
bye: au revoir
`)
	if err := llrdoc.MergeCatalog(tr, fr); err != nil {
		t.Fatal(err)
	}

	want := &llr.Translations{
		Languages: []string{"en", "fr", "de"},
		Strings: [][]string{
			{"Hello, {}", "Bonjour, {}", "Hallo, {}"},
			{"bye", "au revoir", ""},
		},
		Plurals: [][][]string{{{"{n} file", "{n} files"}, nil, {"{n} Datei", "{n} Dateien"}}},
	}
	if diff := cmp.Diff(want, tr); diff != "" {
		t.Errorf("translations (-want +got):\n%s", diff)
	}

	t.Run("errors", func(t *testing.T) {
		if err := llrdoc.MergeCatalog(&llr.Translations{}, de); err == nil {
			t.Error("expected an error without a source language")
		}
		if err := llrdoc.MergeCatalog(tr, filepath.Join(dir, "missing.it.toml")); err == nil {
			t.Error("expected an error for a missing file")
		}
		bad := writeFile(t, dir, "broken.es.toml", "= nope")
		if err := llrdoc.MergeCatalog(tr, bad); err == nil {
			t.Error("expected a syntax error")
		}
	})
}
