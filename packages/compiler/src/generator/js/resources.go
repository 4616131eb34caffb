package js

import (
	"encoding/base64"
	"fmt"
	"strings"

	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/output"
)

// embeddedBytes embeds data as a base64 string decoded once at module evaluation
func embeddedBytes(data []byte) string {
	return fmt.Sprintf("slint.decodeBase64(%q)", base64.StdEncoding.EncodeToString(data))
}

// generateResources declares the embedded resources as module constants
func (g *jsGenerator) generateResources() {
	decl := func(name, init string) {
		g.file.Resources = append(g.file.Resources, &output.Var{Name: name, Init: init})
	}
	for _, r := range g.unit.Resources {
		name := resourceSymbol(r.ID)
		switch r.Kind {
		case llr.ResourceRawData:
			decl(name, embeddedBytes(r.Data))
		case llr.ResourceTexture:
			t := r.Texture
			decl(name, fmt.Sprintf("{ size: [%d, %d], originalSize: [%d, %d], rect: [%d, %d, %d, %d], format: %q, data: %s }",
				t.Width, t.Height, t.OriginalWidth, t.OriginalHeight, t.RectX, t.RectY, t.RectW, t.RectH, t.Format, embeddedBytes(t.Data)))
		case llr.ResourceBitmapFont:
			decl(name, bitmapFont(r.Font))
		}
	}
}

func bitmapFont(f *llr.BitmapFont) string {
	sizes := make([]string, len(f.Glyphs))
	for i, gs := range f.Glyphs {
		glyphs := make([]string, len(gs.Glyphs))
		for j, glyph := range gs.Glyphs {
			glyphs[j] = fmt.Sprintf("{ x: %d, y: %d, width: %d, height: %d, xAdvance: %d, data: %s }",
				glyph.X, glyph.Y, glyph.Width, glyph.Height, glyph.XAdvance, embeddedBytes(glyph.Data))
		}
		sizes[i] = fmt.Sprintf("{ pixelSize: %d, glyphs: [%s] }", gs.PixelSize, strings.Join(glyphs, ", "))
	}
	charmap := make([]string, len(f.CharacterMap))
	for i, c := range f.CharacterMap {
		charmap[i] = fmt.Sprintf("[%d, %d]", c.Code, c.GlyphIndex)
	}
	return fmt.Sprintf("{ family: %s, unitsPerEm: %s, ascent: %s, descent: %s, xHeight: %s, capHeight: %s, sdf: %t, characterMap: new Map([%s]), glyphs: [%s] }",
		stringLiteral(f.Family), output.FormatNumber(f.UnitsPerEm), output.FormatNumber(f.Ascent), output.FormatNumber(f.Descent),
		output.FormatNumber(f.XHeight), output.FormatNumber(f.CapHeight), f.IsVariable,
		strings.Join(charmap, ", "), strings.Join(sizes, ", "))
}

func (g *jsGenerator) bundlesTranslations() bool {
	return g.cfg.TranslationBundling && g.unit.Translations != nil
}

// generateTranslations declares the bundled translation tables, indexed by string then
// language. Missing translations are null.
func (g *jsGenerator) generateTranslations() {
	if !g.bundlesTranslations() {
		return
	}
	tr := g.unit.Translations
	languages := len(tr.Languages)
	decl := func(name, init string) {
		g.file.Resources = append(g.file.Resources, &output.Var{Name: name, Init: init})
	}

	langs := make([]string, languages)
	for i, l := range tr.Languages {
		langs[i] = stringLiteral(l)
	}
	decl("slint_translation_bundle_languages", "["+strings.Join(langs, ", ")+"]")

	rows := make([]string, len(tr.Strings))
	for i, row := range tr.Strings {
		cells := make([]string, languages)
		for l := range cells {
			cells[l] = "null"
			if l < len(row) && row[l] != "" {
				cells[l] = stringLiteral(row[l])
			}
		}
		rows[i] = "[" + strings.Join(cells, ", ") + "]"
	}
	decl("slint_translation_bundle_strings", "["+strings.Join(rows, ", ")+"]")

	for i, row := range tr.Plurals {
		tables := make([]string, languages)
		for l := range tables {
			if l >= len(row) || row[l] == nil {
				tables[l] = "null"
				continue
			}
			forms := make([]string, len(row[l]))
			for j, f := range row[l] {
				forms[j] = stringLiteral(f)
			}
			tables[l] = "[" + strings.Join(forms, ", ") + "]"
		}
		decl(pluralTableSymbol(i), "["+strings.Join(tables, ", ")+"]")
	}

	rules := make([]string, languages)
	for l := range rules {
		if l >= len(tr.PluralRules) || tr.PluralRules[l] == nil {
			rules[l] = "null"
			continue
		}
		ctx := &evalCtx{Unit: g.unit, ArgumentTypes: []*langtype.Type{langtype.Int32}}
		rules[l] = fmt.Sprintf("(arg_0) => %s", compileExpression(tr.PluralRules[l], ctx))
	}
	decl("slint_translated_plural_rules", "["+strings.Join(rules, ", ")+"]")
}
