package llrdoc

import (
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"slintc-go/packages/compiler/src/llr"
)

var resourceKinds = map[string]llr.ResourceKind{
	"raw":         llr.ResourceRawData,
	"texture":     llr.ResourceTexture,
	"bitmap-font": llr.ResourceBitmapFont,
}

// translations decodes
//
//	languages: [en, fr]
//	strings: [[hello, bonjour], ...]
//	plurals: [[[one file, "{n} files"], [...]], ...]
//	plural-rules: [null, <expression of arg 0>]
func (d *decoder) translations(n *yaml.Node) *llr.Translations {
	m := d.fields(n, "languages", "strings", "plurals", "plural-rules")
	t := &llr.Translations{Languages: d.strings(d.require(n, m, "languages"))}
	width := func(row *yaml.Node, got int) {
		if got != len(t.Languages) {
			d.fail(row, "expected %d entries, one per language, got %d", len(t.Languages), got)
		}
	}
	for _, row := range d.seq(m["strings"]) {
		entries := d.seq(row)
		width(row, len(entries))
		s := make([]string, len(entries))
		for i, e := range entries {
			if !isNull(e) {
				s[i] = d.str(e)
			}
		}
		t.Strings = append(t.Strings, s)
	}
	for _, row := range d.seq(m["plurals"]) {
		entries := d.seq(row)
		width(row, len(entries))
		p := make([][]string, len(entries))
		for i, e := range entries {
			p[i] = d.strings(e)
		}
		t.Plurals = append(t.Plurals, p)
	}
	if v, ok := m["plural-rules"]; ok && !isNull(v) {
		rules := d.seq(v)
		width(v, len(rules))
		t.PluralRules = make([]llr.Expression, len(rules))
		for i, r := range rules {
			if !isNull(r) {
				t.PluralRules[i] = d.expr(r, scope{})
			}
		}
	}
	return t
}

func (d *decoder) resource(n *yaml.Node) *llr.EmbeddedResource {
	m := d.fields(n, "id", "kind", "data", "extension", "texture", "font")
	r := &llr.EmbeddedResource{
		ID:        d.integer(d.require(n, m, "id")),
		Extension: d.optString(m, "extension"),
	}
	kind := "raw"
	if v, ok := m["kind"]; ok {
		kind = d.str(v)
	}
	k, ok := resourceKinds[kind]
	if !ok {
		d.fail(m["kind"], "unknown resource kind %q", kind)
	}
	r.Kind = k
	if v, ok := m["data"]; ok {
		r.Data = d.bytes(v)
	}
	switch k {
	case llr.ResourceTexture:
		r.Texture = d.texture(d.require(n, m, "texture"))
	case llr.ResourceBitmapFont:
		r.Font = d.font(d.require(n, m, "font"))
	}
	return r
}

// bytes accepts a !!binary scalar or plain text
func (d *decoder) bytes(n *yaml.Node) []byte {
	if isNull(n) {
		return nil
	}
	var s string
	if n.Kind != yaml.ScalarNode || n.Decode(&s) != nil {
		d.fail(n, "expected binary data")
	}
	return []byte(s)
}

func (d *decoder) texture(n *yaml.Node) *llr.Texture {
	m := d.fields(n, "width", "height", "format", "rect", "original-width", "original-height", "data")
	t := &llr.Texture{
		Width:  d.integer(d.require(n, m, "width")),
		Height: d.integer(d.require(n, m, "height")),
		Format: d.optString(m, "format"),
	}
	t.OriginalWidth = d.optInt(m, "original-width", t.Width)
	t.OriginalHeight = d.optInt(m, "original-height", t.Height)
	t.RectW, t.RectH = t.Width, t.Height
	if v, ok := m["rect"]; ok {
		rect := d.seq(v)
		if len(rect) != 4 {
			d.fail(v, "rect needs x, y, width and height")
		}
		t.RectX, t.RectY = d.integer(rect[0]), d.integer(rect[1])
		t.RectW, t.RectH = d.integer(rect[2]), d.integer(rect[3])
	}
	if v, ok := m["data"]; ok {
		t.Data = d.bytes(v)
	}
	return t
}

func (d *decoder) font(n *yaml.Node) *llr.BitmapFont {
	m := d.fields(n, "family", "units-per-em", "ascent", "descent", "x-height", "cap-height",
		"variable", "character-map", "glyphs")
	f := &llr.BitmapFont{
		Family:     d.str(d.require(n, m, "family")),
		UnitsPerEm: d.float(d.require(n, m, "units-per-em")),
		IsVariable: d.optBool(m, "variable"),
	}
	for key, dst := range map[string]*float64{
		"ascent": &f.Ascent, "descent": &f.Descent, "x-height": &f.XHeight, "cap-height": &f.CapHeight,
	} {
		if v, ok := m[key]; ok {
			*dst = d.float(v)
		}
	}
	for _, e := range d.seq(m["character-map"]) {
		pair := d.seq(e)
		if len(pair) != 2 {
			d.fail(e, "character map entries are [character, glyph index]")
		}
		f.CharacterMap = append(f.CharacterMap, llr.CharacterMapEntry{
			Code:       d.codePoint(pair[0]),
			GlyphIndex: d.integer(pair[1]),
		})
	}
	for _, g := range d.seq(m["glyphs"]) {
		gm := d.fields(g, "pixel-size", "glyphs")
		set := llr.BitmapGlyphs{PixelSize: d.integer(d.require(g, gm, "pixel-size"))}
		for _, gl := range d.seq(gm["glyphs"]) {
			lm := d.fields(gl, "x", "y", "width", "height", "x-advance", "data")
			glyph := llr.BitmapGlyph{
				X:        d.optInt(lm, "x", 0),
				Y:        d.optInt(lm, "y", 0),
				Width:    d.optInt(lm, "width", 0),
				Height:   d.optInt(lm, "height", 0),
				XAdvance: d.optInt(lm, "x-advance", 0),
			}
			if v, ok := lm["data"]; ok {
				glyph.Data = d.bytes(v)
			}
			set.Glyphs = append(set.Glyphs, glyph)
		}
		f.Glyphs = append(f.Glyphs, set)
	}
	return f
}

// codePoint accepts a single character or its numeric value
func (d *decoder) codePoint(n *yaml.Node) rune {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!int" {
		return rune(d.integer(n))
	}
	s := d.str(n)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		d.fail(n, "expected a single character, got %q", s)
	}
	return r
}
