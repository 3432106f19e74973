package rmq

import (
	"cmp"

	"github.com/wyfcoding/rangequery/tree"
	"github.com/wyfcoding/rangequery/xerrors"
)

// nilEntry 表示节点池中不存在的子节点。
const nilEntry = -1

// cartEntry 笛卡尔树在节点池中的一个条目。
// 树形用条目下标而非指针表达，构建期间切片扩容不会使其失效。
type cartEntry[T cmp.Ordered] struct {
	value T
	left  int
	right int
}

// cartPayload 物化后挂在树节点上的载荷：元素值与原序列下标。
type cartPayload[T cmp.Ordered] struct {
	value T
	index int
}

// Cartesian 通过笛卡尔树把一般序列的区间最小值查询归约为最近公共祖先。
// 任意区间的最小值对应区间两端点所在节点的 LCA。预处理 O(n)、查询 O(1)。
type Cartesian[T cmp.Ordered] struct {
	lca   *EulerLCA[cartPayload[T]]
	nodes []*tree.Node[cartPayload[T]] // 原序列下标 → 树节点。
}

// NewCartesian 对任意可比序列 seq 建立笛卡尔树并完成 LCA 预处理。
// seq 由调用方持有，预处理后不得修改。
func NewCartesian[T cmp.Ordered](seq []T) (*Cartesian[T], error) {
	n := len(seq)
	if n == 0 {
		return nil, xerrors.ErrEmptySequence
	}

	// 1. 单调栈维护右脊。条目池一次性分配，条目下标即原序列下标。
	entries := make([]cartEntry[T], 0, n)
	stack := make([]int, 0, n)
	root := nilEntry

	for _, v := range seq {
		entries = append(entries, cartEntry[T]{value: v, left: nilEntry, right: nilEntry})
		cur := len(entries) - 1

		// 弹出右脊上严格更大的条目；相等值不弹出，
		// 因此靠前的相等元素保持为祖先。
		for len(stack) > 0 && entries[stack[len(stack)-1]].value > v {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			// 新条目成为根，原先的整棵树挂为其左子树。
			entries[cur].left = root
			root = cur
		} else {
			top := stack[len(stack)-1]
			entries[cur].left = entries[top].right
			entries[top].right = cur
		}
		stack = append(stack, cur)
	}

	// 2. 物化为树形并建立下标 → 节点索引，随后交给 EulerLCA。
	c := &Cartesian[T]{
		nodes: make([]*tree.Node[cartPayload[T]], n),
	}
	for i := range entries {
		c.nodes[i] = tree.New(cartPayload[T]{value: entries[i].value, index: i})
	}
	for i := range entries {
		if l := entries[i].left; l != nilEntry {
			c.nodes[i].Children = append(c.nodes[i].Children, c.nodes[l])
		}
		if r := entries[i].right; r != nilEntry {
			c.nodes[i].Children = append(c.nodes[i].Children, c.nodes[r])
		}
	}

	lca, err := NewEulerLCA(c.nodes[root])
	if err != nil {
		return nil, err
	}
	c.lca = lca

	return c, nil
}

// Query 返回半开区间 [u, v) 内最小元素的下标。
// 靠前的相等元素是靠后者的祖先，平局因此取最靠左者。
// 要求 0 ≤ u < v ≤ Len()，违反时 panic。
func (c *Cartesian[T]) Query(u, v int) int {
	checkRange(u, v, len(c.nodes))
	return c.lca.Query(c.nodes[u], c.nodes[v-1]).Value.index
}

// Len 返回被预处理序列的长度。
func (c *Cartesian[T]) Len() int {
	return len(c.nodes)
}
