package runtime_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"slintc-go/packages/compiler/src/runtime"
)

func cell(min, preferred, stretch float64) runtime.LayoutInfo {
	info := runtime.DefaultLayoutInfo()
	info.Min = min
	info.Preferred = preferred
	info.Stretch = stretch
	return info
}

func TestSolveBoxLayout(t *testing.T) {
	cases := []struct {
		name      string
		data      runtime.BoxLayoutData
		repeaters []int
		want      runtime.LayoutCache
	}{
		{
			name: "stretch",
			data: runtime.BoxLayoutData{Size: 100, Spacing: 10, Cells: []runtime.LayoutInfo{cell(0, 0, 1), cell(0, 0, 1)}},
			want: runtime.LayoutCache{0, 45, 55, 45},
		},
		{
			name: "stretch factors",
			data: runtime.BoxLayoutData{Size: 90, Cells: []runtime.LayoutInfo{cell(0, 0, 1), cell(0, 0, 2)}},
			want: runtime.LayoutCache{0, 30, 30, 60},
		},
		{
			name: "padding",
			data: runtime.BoxLayoutData{Size: 100, Padding: runtime.Padding{Begin: 10, End: 30}, Cells: []runtime.LayoutInfo{cell(0, 0, 1)}},
			want: runtime.LayoutCache{10, 60},
		},
		{
			name: "center",
			data: runtime.BoxLayoutData{Size: 100, Alignment: "center", Cells: []runtime.LayoutInfo{cell(0, 20, 1), cell(0, 20, 1)}},
			want: runtime.LayoutCache{30, 20, 50, 20},
		},
		{
			name: "end",
			data: runtime.BoxLayoutData{Size: 100, Spacing: 5, Alignment: "end", Cells: []runtime.LayoutInfo{cell(0, 20, 1), cell(0, 20, 1)}},
			want: runtime.LayoutCache{55, 20, 80, 20},
		},
		{
			name: "space-between",
			data: runtime.BoxLayoutData{Size: 100, Alignment: "space-between", Cells: []runtime.LayoutInfo{cell(0, 20, 1), cell(0, 20, 1)}},
			want: runtime.LayoutCache{0, 20, 80, 20},
		},
		{
			name: "too small to align",
			data: runtime.BoxLayoutData{Size: 30, Alignment: "center", Cells: []runtime.LayoutInfo{cell(10, 20, 1), cell(10, 20, 1)}},
			want: runtime.LayoutCache{0, 15, 15, 15},
		},
		{
			name:      "repeated cells",
			data:      runtime.BoxLayoutData{Size: 100, Spacing: 10, Cells: []runtime.LayoutInfo{cell(0, 0, 1), cell(0, 0, 1)}},
			repeaters: []int{0, 2},
			want:      runtime.LayoutCache{2, 3, 0, 45, 55, 45},
		},
		{
			name: "empty",
			data: runtime.BoxLayoutData{Size: 100},
			want: runtime.LayoutCache{},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := runtime.SolveBoxLayout(c.data, c.repeaters)
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("SolveBoxLayout (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLayoutCacheAccess(t *testing.T) {
	cache := runtime.LayoutCache{2, 3, 0, 45, 55, 45}
	row := 1
	if got := runtime.LayoutCacheAccess(cache, 0, &row); got != 55 {
		t.Errorf("x of row 1 = %v", got)
	}
	if got := runtime.LayoutCacheAccess(cache, 1, &row); got != 45 {
		t.Errorf("width of row 1 = %v", got)
	}
	if got := runtime.LayoutCacheAccess(cache, 10, nil); got != 0 {
		t.Errorf("out of range access = %v", got)
	}
}

func TestBoxLayoutInfo(t *testing.T) {
	cells := []runtime.LayoutInfo{cell(10, 20, 1), cell(10, 20, 1)}
	padding := runtime.Padding{Begin: 2, End: 3}

	info := runtime.BoxLayoutInfo(cells, 5, padding, "stretch")
	want := runtime.LayoutInfo{Min: 30, Max: runtime.MaxCoord, MaxPercent: 100, Preferred: 50, Stretch: 2}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("BoxLayoutInfo (-want +got):\n%s", diff)
	}

	empty := runtime.BoxLayoutInfo(nil, 5, padding, "stretch")
	if empty.Min != 5 || empty.Max != 5 || empty.Preferred != 5 {
		t.Errorf("empty layout info = %+v", empty)
	}

	ortho := runtime.BoxLayoutInfoOrtho(cells, padding)
	if ortho.Min != 15 || ortho.Preferred != 25 || ortho.Stretch != 1 {
		t.Errorf("BoxLayoutInfoOrtho = %+v", ortho)
	}
}

func TestReorderDialogButtonLayout(t *testing.T) {
	cells := []runtime.Struct{
		runtime.NewStruct(map[string]runtime.Value{"col_or_row": 0.0}),
		runtime.NewStruct(map[string]runtime.Value{"col_or_row": 0.0}),
	}
	runtime.ReorderDialogButtonLayout(cells, []string{"reject", "accept"})
	accept := runtime.Number(cells[1].Field("col_or_row"))
	reject := runtime.Number(cells[0].Field("col_or_row"))
	if accept == reject {
		t.Errorf("accept and reject share column %v", accept)
	}
}

func TestLayoutInfoStruct(t *testing.T) {
	info := cell(1, 2, 3)
	if diff := cmp.Diff(info, runtime.LayoutInfoFromValue(info.ToStruct())); diff != "" {
		t.Errorf("struct conversion (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(runtime.DefaultLayoutInfo(), runtime.LayoutInfoFromValue(nil)); diff != "" {
		t.Errorf("nil conversion (-want +got):\n%s", diff)
	}
}
