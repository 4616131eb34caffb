package runtime

import (
	"math"
	goruntime "runtime"
)

// MaxCoord is the unbounded maximum size
const MaxCoord = math.MaxFloat32

// LayoutInfo is the size constraint of an element in one orientation
type LayoutInfo struct {
	Min        float64
	Max        float64
	MinPercent float64
	MaxPercent float64
	Preferred  float64
	Stretch    float64
}

// DefaultLayoutInfo is the constraint of an element without any
func DefaultLayoutInfo() LayoutInfo {
	return LayoutInfo{Max: MaxCoord, MaxPercent: 100}
}

// Merge combines the constraints of two elements laid out on top of each other
func (l LayoutInfo) Merge(o LayoutInfo) LayoutInfo {
	return LayoutInfo{
		Min:        math.Max(l.Min, o.Min),
		Max:        math.Min(l.Max, o.Max),
		MinPercent: math.Max(l.MinPercent, o.MinPercent),
		MaxPercent: math.Min(l.MaxPercent, o.MaxPercent),
		Preferred:  math.Max(l.Preferred, o.Preferred),
		Stretch:    math.Min(l.Stretch, o.Stretch),
	}
}

// PreferredBounded is the preferred size clamped to [Min, Max]
func (l LayoutInfo) PreferredBounded() float64 {
	return math.Max(math.Min(l.Preferred, l.Max), l.Min)
}

// ToStruct converts to the LayoutInfo struct value
func (l LayoutInfo) ToStruct() Struct {
	return NewStruct(map[string]Value{
		"min":         l.Min,
		"max":         l.Max,
		"min_percent": l.MinPercent,
		"max_percent": l.MaxPercent,
		"preferred":   l.Preferred,
		"stretch":     l.Stretch,
	})
}

// LayoutInfoFromValue converts a LayoutInfo struct value
func LayoutInfoFromValue(v Value) LayoutInfo {
	s, ok := v.(Struct)
	if !ok {
		return DefaultLayoutInfo()
	}
	return LayoutInfo{
		Min:        Number(s.Field("min")),
		Max:        Number(s.Field("max")),
		MinPercent: Number(s.Field("min_percent")),
		MaxPercent: Number(s.Field("max_percent")),
		Preferred:  Number(s.Field("preferred")),
		Stretch:    Number(s.Field("stretch")),
	}
}

// Padding is the space before and after the cells
type Padding struct {
	Begin, End float64
}

// PaddingFromValue converts a Padding struct value
func PaddingFromValue(v Value) Padding {
	s, _ := v.(Struct)
	return Padding{Begin: Number(s.Field("begin")), End: Number(s.Field("end"))}
}

// BoxLayoutData is the input of SolveBoxLayout. Alignment is a LayoutAlignment value name.
type BoxLayoutData struct {
	Size      float64
	Spacing   float64
	Padding   Padding
	Alignment string
	Cells     []LayoutInfo
}

// CellsFromValue converts an array of BoxLayoutCellData (or GridLayoutCellData) structs to
// their constraints
func CellsFromValue(v Value) []LayoutInfo {
	m := ModelFromValue(v)
	cells := make([]LayoutInfo, m.RowCount())
	for i := range cells {
		s, _ := m.RowData(i).(Struct)
		cells[i] = LayoutInfoFromValue(s.Field("constraint"))
	}
	return cells
}

// BoxLayoutDataFromValue converts a BoxLayoutData struct value
func BoxLayoutDataFromValue(v Value) BoxLayoutData {
	s, _ := v.(Struct)
	align, _ := s.Field("alignment").(EnumValue)
	return BoxLayoutData{
		Size:      Number(s.Field("size")),
		Spacing:   Number(s.Field("spacing")),
		Padding:   PaddingFromValue(s.Field("padding")),
		Alignment: align.Value,
		Cells:     CellsFromValue(s.Field("cells")),
	}
}

type layoutData struct {
	min, max, pref, stretch, pos, size float64
}

// adjust grows (or shrinks) the items to fill size, honoring their bounds and stretch
func adjust(data []layoutData, size float64, grow bool) {
	room := func(it *layoutData) float64 {
		if grow {
			return it.max - it.size
		}
		return it.size - it.min
	}
	for {
		var fixed, current, totalStretch float64
		count := 0
		for i := range data {
			if room(&data[i]) <= 0 {
				fixed += data[i].size
				continue
			}
			current += data[i].size
			totalStretch += data[i].stretch
			count++
		}
		if count == 0 {
			return
		}
		stretch := func(s float64) float64 {
			if totalStretch <= 0 {
				return 1
			}
			return s
		}
		maxGrow := math.Inf(1)
		for i := range data {
			if r := room(&data[i]); r > 0 {
				maxGrow = math.Min(maxGrow, r/stretch(data[i].stretch))
			}
		}
		toDistribute := size - (fixed + current)
		if !grow {
			toDistribute = -toDistribute
		}
		if toDistribute <= 1e-9 || maxGrow <= 0 {
			return
		}
		step := toDistribute / totalStretch
		if totalStretch <= 0 {
			step = toDistribute / float64(count)
		}
		step = math.Min(step, maxGrow)
		for i := range data {
			if room(&data[i]) <= 0 {
				continue
			}
			val := step * stretch(data[i].stretch)
			if grow {
				data[i].size += val
			} else {
				data[i].size -= val
			}
		}
	}
}

func layoutItems(data []layoutData, start, size, spacing float64) {
	without := size - spacing*float64(len(data)-1)
	pref := 0.0
	for i := range data {
		data[i].size = data[i].pref
		pref += data[i].pref
	}
	adjust(data, without, without >= pref)
	pos := start
	for i := range data {
		data[i].pos = pos
		pos += data[i].size + spacing
	}
}

// SolveBoxLayout computes the (position, size) pair of every cell. repeaterIndices holds
// one (first cell, cell count) pair per repeater; the cells of repeaters are stored after
// the static cells, the slot of a repeater holding the offset of its first pair.
func SolveBoxLayout(data BoxLayoutData, repeaterIndices []int) LayoutCache {
	result := make(LayoutCache, len(data.Cells)*2+len(repeaterIndices))
	if len(data.Cells) == 0 {
		return result
	}
	items := make([]layoutData, len(data.Cells))
	for i, c := range data.Cells {
		min := math.Max(c.Min, c.MinPercent*data.Size/100)
		max := math.Min(c.Max, c.MaxPercent*data.Size/100)
		items[i] = layoutData{min: min, max: max, pref: math.Max(math.Min(c.Preferred, max), min), stretch: c.Stretch}
	}
	without := data.Size - data.Padding.Begin - data.Padding.End
	pref := 0.0
	for _, it := range items {
		pref += it.pref
	}
	spacings := float64(len(items) - 1)
	total := data.Spacing * spacings

	start, spacing, aligned := 0.0, 0.0, true
	switch {
	case data.Alignment == "" || data.Alignment == "stretch" || without <= pref+total:
		layoutItems(items, data.Padding.Begin, without, data.Spacing)
		aligned = false
	case data.Alignment == "center":
		start, spacing = data.Padding.Begin+(without-pref-total)/2, data.Spacing
	case data.Alignment == "start":
		start, spacing = data.Padding.Begin, data.Spacing
	case data.Alignment == "end":
		start, spacing = data.Padding.Begin+(without-pref-total), data.Spacing
	case data.Alignment == "space-between":
		start, spacing = data.Padding.Begin, (without-pref)/spacings
	case data.Alignment == "space-around":
		spacing = (without - pref) / (spacings + 1)
		start = data.Padding.Begin + spacing/2
	case data.Alignment == "space-evenly":
		spacing = (without - pref) / (spacings + 2)
		start = data.Padding.Begin + spacing
	}
	if aligned {
		pos := start
		for i := range items {
			items[i].pos = pos
			items[i].size = items[i].pref
			pos += spacing + items[i].size
		}
	}

	gen := newCacheGenerator(repeaterIndices, result)
	for _, it := range items {
		gen.add(it.pos, it.size)
	}
	return result
}

// cacheGenerator writes the solved cells into a layout cache
type cacheGenerator struct {
	repeaterIndices []int
	counter         int
	repeatOffset    int
	nextRep         int
	currentOffset   int
	result          LayoutCache
}

func newCacheGenerator(repeaterIndices []int, result LayoutCache) *cacheGenerator {
	repeated := 0
	for i := 1; i < len(repeaterIndices); i += 2 {
		repeated += repeaterIndices[i]
	}
	return &cacheGenerator{repeaterIndices: repeaterIndices, repeatOffset: len(result)/2 - repeated, result: result}
}

func (g *cacheGenerator) add(pos, size float64) {
	o := -1
	for o < 0 {
		if g.nextRep*2 < len(g.repeaterIndices) {
			nr := g.repeaterIndices[g.nextRep*2]
			if nr == g.counter {
				g.result[g.currentOffset*2] = float64(g.repeatOffset * 2)
				g.result[g.currentOffset*2+1] = float64(g.repeatOffset*2 + 1)
				g.currentOffset++
			}
			if g.counter >= nr {
				count := g.repeaterIndices[g.nextRep*2+1]
				if g.counter-nr == count {
					g.repeatOffset += count
					g.nextRep++
					continue
				}
				o = g.repeatOffset + g.counter - nr
				break
			}
		}
		o = g.currentOffset
		g.currentOffset++
	}
	g.result[o*2] = pos
	g.result[o*2+1] = size
	g.counter++
}

// LayoutCacheAccess reads a cache entry. With a repeater index, the entry at index holds
// the offset of the repeated pairs.
func LayoutCacheAccess(cache LayoutCache, index int, repeaterIndex *int) float64 {
	at := func(i int) float64 {
		if i < 0 || i >= len(cache) {
			return 0
		}
		return cache[i]
	}
	if repeaterIndex == nil {
		return at(index)
	}
	return at(int(at(index)) + *repeaterIndex*2)
}

// BoxLayoutInfo is the constraint of a box layout along its orientation
func BoxLayoutInfo(cells []LayoutInfo, spacing float64, padding Padding, alignment string) LayoutInfo {
	isStretch := alignment == "" || alignment == "stretch"
	if len(cells) == 0 {
		info := DefaultLayoutInfo()
		info.Min = padding.Begin + padding.End
		info.Preferred = info.Min
		if isStretch {
			info.Max = info.Min
		}
		return info
	}
	extra := padding.Begin + padding.End + spacing*float64(len(cells)-1)
	info := LayoutInfo{MaxPercent: 100, Min: extra, Preferred: extra, Max: MaxCoord}
	maxSum := extra
	for _, c := range cells {
		info.Min += c.Min
		info.Preferred += c.PreferredBounded()
		info.Stretch += c.Stretch
		maxSum = math.Min(maxSum+c.Max, MaxCoord)
	}
	if isStretch {
		info.Max = math.Max(maxSum, info.Min)
	}
	return info
}

// BoxLayoutInfoOrtho is the constraint of a box layout across its orientation
func BoxLayoutInfoOrtho(cells []LayoutInfo, padding Padding) LayoutInfo {
	extra := padding.Begin + padding.End
	fold := DefaultLayoutInfo()
	fold.Stretch = math.MaxFloat32
	for _, c := range cells {
		fold = fold.Merge(c)
	}
	fold.Max = math.Max(fold.Max, fold.Min)
	fold.Preferred = math.Min(math.Max(fold.Preferred, fold.Min), fold.Max)
	fold.Min += extra
	fold.Max = math.Min(fold.Max+extra, MaxCoord)
	fold.Preferred += extra
	return fold
}

// dialogButtonOrder is the platform order of dialog button roles, "none" being the spacer
func dialogButtonOrder(goos string) []string {
	switch goos {
	case "windows":
		return []string{"reset", "none", "accept", "action", "reject", "apply", "help"}
	case "darwin", "ios":
		return []string{"help", "reset", "apply", "action", "none", "reject", "accept"}
	}
	return []string{"help", "reset", "none", "action", "accept", "apply", "reject"}
}

// ReorderDialogButtonLayout assigns the column of the first len(roles) cells according to
// the platform conventions. Cells are GridLayoutCellData structs.
func ReorderDialogButtonLayout(cells []Struct, roles []string) {
	col := 0
	for _, role := range dialogButtonOrder(goruntime.GOOS) {
		if role == "none" {
			col++
			continue
		}
		for i, r := range roles {
			if r == role && i < len(cells) {
				cells[i] = cells[i].With("col_or_row", float64(col))
				col++
			}
		}
	}
}
