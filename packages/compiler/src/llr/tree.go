package llr

// TreeNode is a node of the element tree, flattened into the item tree array by VisitInArray
type TreeNode struct {
	SubComponentPath []int
	// ItemIndex is an index in the items, or in the repeaters when Repeated is set
	ItemIndex    int
	Repeated     bool
	IsAccessible bool
	Children     []*TreeNode
}

// ChildrenCount is the number of descendants of the node
func (n *TreeNode) ChildrenCount() int {
	count := len(n.Children)
	for _, c := range n.Children {
		count += c.ChildrenCount()
	}
	return count
}

// VisitInArray visits the node and its descendants in item tree array order.
// The visitor receives the node, the index of its first child and the index of its parent.
// The root is at index 0 and has itself as parent.
func (n *TreeNode) VisitInArray(visitor func(node *TreeNode, childrenOffset int, parentIndex int)) {
	visitor(n, 1, 0)
	n.visitInArrayRecursive(1, 0, visitor)
}

func (n *TreeNode) visitInArrayRecursive(childrenOffset, currentIndex int, visitor func(*TreeNode, int, int)) {
	offset := childrenOffset + len(n.Children)
	for _, c := range n.Children {
		visitor(c, offset, currentIndex)
		offset += c.ChildrenCount()
	}

	offset = childrenOffset + len(n.Children)
	for i, c := range n.Children {
		c.visitInArrayRecursive(offset, childrenOffset+i, visitor)
		offset += c.ChildrenCount()
	}
}

// NodeKind distinguishes the two kinds of flattened nodes
type NodeKind int

const (
	NodeItem NodeKind = iota
	NodeDynamicTree
)

// FlatNode is one entry of the flattened item tree array
type FlatNode struct {
	Kind          NodeKind
	Node          *TreeNode
	ChildrenCount int
	ChildrenIndex int
	ParentIndex   int
	// ItemArrayIndex is the position among the Item nodes
	ItemArrayIndex int
	// RepeaterIndex is set for NodeDynamicTree
	RepeaterIndex int
	IsAccessible  bool
}

// Flatten returns the item tree array. Positions are exactly those of VisitInArray.
func (n *TreeNode) Flatten() []FlatNode {
	var nodes []FlatNode
	itemIndex := 0
	n.VisitInArray(func(node *TreeNode, childrenOffset int, parentIndex int) {
		if node.Repeated {
			nodes = append(nodes, FlatNode{
				Kind:          NodeDynamicTree,
				Node:          node,
				ParentIndex:   parentIndex,
				RepeaterIndex: node.ItemIndex,
			})
			return
		}
		nodes = append(nodes, FlatNode{
			Kind:           NodeItem,
			Node:           node,
			ChildrenCount:  len(node.Children),
			ChildrenIndex:  childrenOffset,
			ParentIndex:    parentIndex,
			ItemArrayIndex: itemIndex,
			IsAccessible:   node.IsAccessible,
		})
		itemIndex++
	})
	return nodes
}
