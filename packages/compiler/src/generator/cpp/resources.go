package cpp

import (
	"fmt"
	"strings"

	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/output"
)

// generateResources declares the embedded resources. They stay in the header even when
// the definitions are split.
func (g *cppGenerator) generateResources() {
	for _, r := range g.unit.Resources {
		switch r.Kind {
		case llr.ResourceRawData:
			g.file.Resources = append(g.file.Resources, &output.Var{
				Type:      "uint8_t",
				Name:      resourceSymbol(r.ID),
				ArraySize: len(r.Data),
				Init:      byteArray(r.Data),
				IsInline:  true,
				IsConst:   true,
			})
		case llr.ResourceTexture:
			g.file.Resources = append(g.file.Resources, textureResource(r.ID, r.Texture)...)
		case llr.ResourceBitmapFont:
			g.file.Resources = append(g.file.Resources, bitmapFontResource(r.ID, r.Font)...)
		}
	}
}

func byteArray(data []byte) string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for i, b := range data {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d", b)
	}
	sb.WriteString(" }")
	return sb.String()
}

func textureResource(id int, t *llr.Texture) []output.Declaration {
	data := resourceSymbol(id) + "_data"
	return []output.Declaration{
		&output.Var{Type: "uint8_t", Name: data, ArraySize: len(t.Data), Init: byteArray(t.Data), IsInline: true, IsConst: true},
		&output.Var{
			Type:     "slint::cbindgen_private::types::StaticTextures",
			Name:     resourceSymbol(id),
			IsInline: true,
			IsConst:  true,
			Init: fmt.Sprintf(
				"{ .size = { %d, %d }, .original_size = { %d, %d }, .data = slint::private_api::make_slice(%s, %d), .textures = slint::private_api::make_slice(std::array{ slint::cbindgen_private::types::StaticTexture{ .rect = { %d, %d, %d, %d }, .format = slint::cbindgen_private::types::TexturePixelFormat::%s, .index = 0 } }) }",
				t.Width, t.Height, t.OriginalWidth, t.OriginalHeight, data, len(t.Data),
				t.RectX, t.RectY, t.RectW, t.RectH, t.Format),
		},
	}
}

func bitmapFontResource(id int, f *llr.BitmapFont) []output.Declaration {
	base := resourceSymbol(id)
	var decls []output.Declaration
	var sizes []string
	for si, gs := range f.Glyphs {
		var glyphs []string
		for gi, glyph := range gs.Glyphs {
			name := fmt.Sprintf("%s_glyph_%d_%d", base, si, gi)
			decls = append(decls, &output.Var{Type: "uint8_t", Name: name, ArraySize: len(glyph.Data), Init: byteArray(glyph.Data), IsInline: true, IsConst: true})
			glyphs = append(glyphs, fmt.Sprintf("{ .x = %d, .y = %d, .width = %d, .height = %d, .x_advance = %d, .data = slint::private_api::make_slice(%s, %d) }",
				glyph.X, glyph.Y, glyph.Width, glyph.Height, glyph.XAdvance, name, len(glyph.Data)))
		}
		name := fmt.Sprintf("%s_glyphs_%d", base, si)
		decls = append(decls, &output.Var{
			Type: "slint::cbindgen_private::BitmapGlyph", Name: name, ArraySize: len(glyphs),
			Init: "{ " + strings.Join(glyphs, ", ") + " }", IsInline: true, IsConst: true,
		})
		sizes = append(sizes, fmt.Sprintf("{ .pixel_size = %d, .glyph_data = slint::private_api::make_slice(%s, %d) }", gs.PixelSize, name, len(glyphs)))
	}
	sizesName := base + "_glyph_sizes"
	decls = append(decls, &output.Var{
		Type: "slint::cbindgen_private::BitmapGlyphs", Name: sizesName, ArraySize: len(sizes),
		Init: "{ " + strings.Join(sizes, ", ") + " }", IsInline: true, IsConst: true,
	})
	charmap := make([]string, len(f.CharacterMap))
	for i, c := range f.CharacterMap {
		charmap[i] = fmt.Sprintf("{ .code_point = %d, .glyph_index = %d }", c.Code, c.GlyphIndex)
	}
	charmapName := base + "_charmap"
	decls = append(decls, &output.Var{
		Type: "slint::cbindgen_private::CharacterMapEntry", Name: charmapName, ArraySize: len(charmap),
		Init: "{ " + strings.Join(charmap, ", ") + " }", IsInline: true, IsConst: true,
	})
	decls = append(decls, &output.Var{
		Type:     "slint::cbindgen_private::BitmapFont",
		Name:     base,
		IsInline: true,
		IsConst:  true,
		Init: fmt.Sprintf(
			"{ .family_name = slint::private_api::string_to_slice(%s), .character_map = slint::private_api::make_slice(%s, %d), .units_per_em = %s, .ascent = %s, .descent = %s, .x_height = %s, .cap_height = %s, .glyphs = slint::private_api::make_slice(%s, %d), .weight = 400, .italic = false, .sdf = %t }",
			cString(f.Family), charmapName, len(charmap),
			output.FormatNumber(f.UnitsPerEm), output.FormatNumber(f.Ascent), output.FormatNumber(f.Descent),
			output.FormatNumber(f.XHeight), output.FormatNumber(f.CapHeight),
			sizesName, len(sizes), f.IsVariable),
	})
	return decls
}

func (g *cppGenerator) bundlesTranslations() bool {
	return g.cfg.TranslationBundling && g.unit.Translations != nil
}

// generateTranslations declares the bundled translation tables: a flat string table
// indexed by string * languages + language, the plural forms and the plural rules
func (g *cppGenerator) generateTranslations() {
	if !g.bundlesTranslations() {
		return
	}
	tr := g.unit.Translations
	languages := len(tr.Languages)
	decl := func(d output.Declaration) { g.file.Resources = append(g.file.Resources, d) }

	langs := make([]string, languages)
	for i, l := range tr.Languages {
		langs[i] = fmt.Sprintf("slint::private_api::string_to_slice(%s)", cString(l))
	}
	decl(&output.Var{
		Type: "slint::cbindgen_private::Slice<uint8_t>", Name: "slint_translation_bundle_languages", ArraySize: languages,
		Init: "{ " + strings.Join(langs, ", ") + " }", IsInline: true, IsConst: true,
	})

	var strs []string
	for _, row := range tr.Strings {
		for l := 0; l < languages; l++ {
			if l < len(row) && row[l] != "" {
				strs = append(strs, cString(row[l]))
			} else {
				strs = append(strs, "nullptr")
			}
		}
	}
	decl(&output.Var{
		Type: "char8_t *", Name: "slint_translation_bundle_strings", ArraySize: len(strs),
		Init: "{ " + strings.Join(strs, ", ") + " }", IsInline: true, IsConst: true,
	})

	for i, row := range tr.Plurals {
		tables := make([]string, languages)
		for l := 0; l < languages; l++ {
			if l >= len(row) || row[l] == nil {
				tables[l] = "nullptr"
				continue
			}
			forms := make([]string, 0, len(row[l])+1)
			for _, f := range row[l] {
				forms = append(forms, cString(f))
			}
			forms = append(forms, "nullptr")
			name := fmt.Sprintf("slint_translated_plural_forms_%d_%d", i, l)
			decl(&output.Var{
				Type: "char8_t *", Name: name, ArraySize: len(forms),
				Init: "{ " + strings.Join(forms, ", ") + " }", IsInline: true, IsConst: true,
			})
			tables[l] = name
		}
		decl(&output.Var{
			Type: "char8_t * const *", Name: pluralTableSymbol(i), ArraySize: languages,
			Init: "{ " + strings.Join(tables, ", ") + " }", IsInline: true, IsConst: true,
		})
	}

	rules := make([]string, languages)
	for l := 0; l < languages; l++ {
		if l >= len(tr.PluralRules) || tr.PluralRules[l] == nil {
			rules[l] = "nullptr"
			continue
		}
		ctx := &evalCtx{
			Unit:           g.unit,
			ArgumentTypes:  []*langtype.Type{langtype.Int32},
			GeneratorState: g.state(""),
		}
		rules[l] = fmt.Sprintf("[]([[maybe_unused]] int32_t arg_0) -> uint8_t { return %s; }", compileExpression(tr.PluralRules[l], ctx))
	}
	decl(&output.TypeAlias{NewName: "slint_plural_rule", OldName: "uint8_t (*)(int32_t)"})
	decl(&output.Var{
		Type: "slint_plural_rule", Name: "slint_translated_plural_rules", ArraySize: languages,
		Init: "{ " + strings.Join(rules, ", ") + " }", IsInline: true, IsConst: true,
	})
}
