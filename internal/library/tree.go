package library

// TreeNode: узел дерева для отображения; Children в порядке исходного списка.
type TreeNode struct {
	RequirementNode
	Children []*TreeNode `json:"children"`
}

// BuildTree собирает лес из плоского списка узлов.
//
// Узел с разрешимым parent_urn прикрепляется к родителю; узел без родителя
// (или с висячей ссылкой) становится корнем только при depth == 1, иначе
// молча выпадает из результата. Циклы не проверяются.
func BuildTree(nodes []RequirementNode) []*TreeNode {
	byURN := make(map[string]*TreeNode, len(nodes))
	views := make([]*TreeNode, len(nodes))
	for i := range nodes {
		view := &TreeNode{RequirementNode: nodes[i], Children: []*TreeNode{}}
		views[i] = view
		if nodes[i].URN != "" {
			byURN[nodes[i].URN] = view
		}
	}

	roots := []*TreeNode{}
	for i, n := range nodes {
		if n.ParentURN != "" {
			if parent, ok := byURN[n.ParentURN]; ok {
				parent.Children = append(parent.Children, views[i])
				continue
			}
		}
		if n.Depth == 1 {
			roots = append(roots, views[i])
		}
	}
	return roots
}
