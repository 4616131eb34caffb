package llr_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
)

func leaf(i int) *llr.TreeNode {
	return &llr.TreeNode{ItemIndex: i}
}

// root(0) -> [a(1) -> [c(3), d(4) -> [f(6)]], b(2) -> [e(5)]]
func sampleTree() *llr.TreeNode {
	return &llr.TreeNode{
		ItemIndex: 0,
		Children: []*llr.TreeNode{
			{ItemIndex: 1, Children: []*llr.TreeNode{
				leaf(3),
				{ItemIndex: 4, Children: []*llr.TreeNode{leaf(6)}},
			}},
			{ItemIndex: 2, Children: []*llr.TreeNode{leaf(5)}},
		},
	}
}

func TestVisitInArray(t *testing.T) {
	t.Run("should visit nodes in array order", func(t *testing.T) {
		type visit struct {
			Item, ChildrenOffset, Parent int
		}
		var got []visit
		sampleTree().VisitInArray(func(node *llr.TreeNode, childrenOffset, parentIndex int) {
			got = append(got, visit{node.ItemIndex, childrenOffset, parentIndex})
		})
		expected := []visit{
			{0, 1, 0},
			{1, 3, 0},
			{2, 6, 0},
			{3, 5, 1},
			{4, 5, 1},
			{6, 6, 4},
			{5, 7, 2},
		}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("visit order mismatch (-expected +got):\n%s", diff)
		}
	})

	t.Run("children ranges should partition the array", func(t *testing.T) {
		trees := map[string]*llr.TreeNode{
			"single": leaf(0),
			"sample": sampleTree(),
			"deep":   {Children: []*llr.TreeNode{{Children: []*llr.TreeNode{{Children: []*llr.TreeNode{leaf(0)}}}}}},
			"wide":   {Children: []*llr.TreeNode{leaf(0), leaf(1), leaf(2), leaf(3)}},
		}
		for name, tree := range trees {
			t.Run(name, func(t *testing.T) {
				nodes := tree.Flatten()
				n := len(nodes)
				if n != tree.ChildrenCount()+1 {
					t.Fatalf("Expected %d nodes, got %d", tree.ChildrenCount()+1, n)
				}
				covered := make([]int, n)
				covered[0]++
				for i, node := range nodes {
					begin, end := node.ChildrenIndex, node.ChildrenIndex+node.ChildrenCount
					if node.ChildrenCount == 0 {
						continue
					}
					if begin <= i && i < end {
						t.Errorf("node %d is inside its own children range [%d, %d)", i, begin, end)
					}
					if begin < 0 || end > n {
						t.Errorf("node %d children range [%d, %d) out of [0, %d)", i, begin, end, n)
					}
					for c := begin; c < end; c++ {
						covered[c]++
						if nodes[c].ParentIndex != i {
							t.Errorf("node %d has parent %d, expected %d", c, nodes[c].ParentIndex, i)
						}
					}
				}
				for i, c := range covered {
					if c != 1 {
						t.Errorf("index %d reached %d times", i, c)
					}
				}
			})
		}
	})

	t.Run("repeated nodes become dynamic tree nodes", func(t *testing.T) {
		tree := &llr.TreeNode{Children: []*llr.TreeNode{leaf(1), {ItemIndex: 0, Repeated: true}, leaf(2)}}
		nodes := tree.Flatten()
		if nodes[2].Kind != llr.NodeDynamicTree || nodes[2].RepeaterIndex != 0 {
			t.Errorf("Expected dynamic tree node for repeater 0, got %+v", nodes[2])
		}
		if nodes[3].ItemArrayIndex != 2 {
			t.Errorf("Expected item array index 2 after the repeater, got %d", nodes[3].ItemArrayIndex)
		}
	})
}

func TestPropertyType(t *testing.T) {
	grandChild := &llr.SubComponent{Name: "GrandChild"}
	child := &llr.SubComponent{Name: "Child"}
	root := &llr.SubComponent{
		Name:       "Root",
		Properties: []llr.Property{{Name: "title", Type: langtype.String}, {Name: "count", Type: langtype.Int32}},
	}
	unit := &llr.CompilationUnit{SubComponents: []*llr.SubComponent{grandChild, child, root}}

	rootCtx := llr.NewSubComponentContext[struct{}](unit, root, struct{}{}, nil)
	childCtx := llr.NewSubComponentContext(unit, child, struct{}{}, llr.NewParentCtx(rootCtx, 0))
	grandCtx := llr.NewSubComponentContext(unit, grandChild, struct{}{}, llr.NewParentCtx(childCtx, 0))

	t.Run("should resolve through parent hops", func(t *testing.T) {
		ref := llr.NewInParent(2, &llr.LocalRef{PropertyIndex: 1})
		if got := grandCtx.PropertyType(ref); got != langtype.Int32 {
			t.Errorf("Expected int, got %s", got)
		}
	})

	t.Run("should collapse nested parent references", func(t *testing.T) {
		ref := llr.NewInParent(1, llr.NewInParent(1, &llr.LocalRef{}))
		p, ok := ref.(*llr.InParentRef)
		if !ok || p.Level != 2 {
			t.Errorf("Expected a single level 2 reference, got %s", ref)
		}
	})

	t.Run("should panic on missing parent", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Errorf("Expected a panic")
			}
		}()
		rootCtx.PropertyType(llr.NewInParent(1, &llr.LocalRef{}))
	})

	t.Run("item references have the element type", func(t *testing.T) {
		if got := rootCtx.PropertyType(&llr.InNativeItemRef{}); got != langtype.ElementReference {
			t.Errorf("Expected element reference, got %s", got)
		}
	})
}

func TestDefaultValue(t *testing.T) {
	t.Run("percent defaults to one", func(t *testing.T) {
		got := llr.DefaultValue(langtype.Percent)
		if diff := cmp.Diff(&llr.NumberLiteral{Value: 1}, got); diff != "" {
			t.Errorf("mismatch:\n%s", diff)
		}
	})
	t.Run("callbacks have no default", func(t *testing.T) {
		if got := llr.DefaultValue(langtype.NewCallback(nil)); got != nil {
			t.Errorf("Expected nil, got %#v", got)
		}
	})
}
