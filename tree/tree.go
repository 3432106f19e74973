// Package tree 提供预处理查询结构所依赖的多叉树表示.
package tree

// Node 多叉树节点。子节点保持挂接时的顺序。
type Node[T any] struct {
	Value    T
	Children []*Node[T]
}

// New 创建一个新的树节点，并按给定顺序挂接子树。
// 子树一经挂接即归入新节点所在的树，调用方不得再单独修改；
// 整棵树交给预处理结构之后同样不得修改。
func New[T any](value T, children ...*Node[T]) *Node[T] {
	return &Node[T]{
		Value:    value,
		Children: children,
	}
}

// Count 返回以 n 为根的子树的节点总数。
func (n *Node[T]) Count() int {
	if n == nil {
		return 0
	}

	count := 0
	stack := []*Node[T]{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, cur.Children...)
	}

	return count
}

// Walk 以先序迭代遍历以 n 为根的子树，子节点按挂接顺序访问。
// fn 返回 false 时立即停止遍历。迭代实现可安全处理链状深树。
func (n *Node[T]) Walk(fn func(*Node[T]) bool) {
	if n == nil {
		return
	}

	stack := []*Node[T]{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			return
		}
		// 逆序压栈，保证子节点按挂接顺序弹出。
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
}
