package rmq

import (
	"github.com/wyfcoding/rangequery/tree"
	"github.com/wyfcoding/rangequery/xerrors"
)

// EulerLCA 基于欧拉序的最近公共祖先求解器。
// 一次游走产生 2n-1 长的 (节点, 深度) 序对，深度序列天然满足 ±1
// 约束，交由 BlockTable 支撑 O(1) 查询。预处理 O(n)。
type EulerLCA[T any] struct {
	tour  []*tree.Node[T]       // 欧拉序第 i 个访问到的节点。
	depth []int                 // 对应的深度序列。
	repr  map[*tree.Node[T]]int // 节点 → 欧拉序中的首次出现位置。
	table *BlockTable[int]
}

// NewEulerLCA 对以 root 为根的树做欧拉序预处理。
// 树由调用方持有，预处理后不得修改。
func NewEulerLCA[T any](root *tree.Node[T]) (*EulerLCA[T], error) {
	if root == nil {
		return nil, xerrors.ErrNilRoot
	}

	n := root.Count()
	l := &EulerLCA[T]{
		tour:  make([]*tree.Node[T], 0, 2*n-1),
		depth: make([]int, 0, 2*n-1),
		repr:  make(map[*tree.Node[T]]int, n),
	}
	l.tourWalk(root)

	table, err := NewBlockTable(l.depth)
	if err != nil {
		return nil, err
	}
	l.table = table

	return l, nil
}

// tourWalk 以显式栈迭代生成欧拉序，链状深树不会触发递归栈溢出。
// 每个节点在首次到达时记录一次，之后每棵子树回溯完毕再补记一次父节点，
// 深度序列因此逐项 ±1。
func (l *EulerLCA[T]) tourWalk(root *tree.Node[T]) {
	type frame struct {
		node  *tree.Node[T]
		depth int
		next  int // 下一个待下钻的子节点序号。
	}

	l.arrive(root, 0)
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.node.Children) {
			child := top.node.Children[top.next]
			top.next++
			d := top.depth + 1
			l.arrive(child, d)
			// append 可能搬移栈底层数组，top 在此之后不再使用。
			stack = append(stack, frame{node: child, depth: d})
			continue
		}

		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			l.emit(parent.node, parent.depth)
		}
	}
}

// arrive 记录节点的首次到达：先写代表位置，再追加欧拉序。
func (l *EulerLCA[T]) arrive(node *tree.Node[T], d int) {
	l.repr[node] = len(l.tour)
	l.emit(node, d)
}

func (l *EulerLCA[T]) emit(node *tree.Node[T], d int) {
	l.tour = append(l.tour, node)
	l.depth = append(l.depth, d)
}

// Query 返回 u 与 v 的最近公共祖先。参数顺序无关，Query(x, x) == x。
// 传入不属于本树的节点属于调用方缺陷，直接 panic。
func (l *EulerLCA[T]) Query(u, v *tree.Node[T]) *tree.Node[T] {
	ru, ok := l.repr[u]
	if !ok {
		panic("rmq: node not part of the preprocessed tree")
	}
	rv, ok := l.repr[v]
	if !ok {
		panic("rmq: node not part of the preprocessed tree")
	}

	if ru > rv {
		ru, rv = rv, ru
	}

	// 自查询退化为单元素区间 [ru, ru+1)。两个首次出现位置之间
	// 深度最小的欧拉序项必是二者的最近公共祖先。
	return l.tour[l.table.Query(ru, rv+1)]
}

// NodeCount 返回被预处理树的节点数。
func (l *EulerLCA[T]) NodeCount() int {
	return len(l.repr)
}
