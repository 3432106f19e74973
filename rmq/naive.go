package rmq

import (
	"cmp"

	"github.com/wyfcoding/rangequery/xerrors"
)

// NaiveTable 预计算全部区间答案的平方级求解器。
// 预处理 O(n²)、空间 O(n²)、查询 O(1)。只适合短序列，
// 同时也是 BlockTable 的块内构件。
type NaiveTable[T cmp.Ordered] struct {
	seq  []T
	rows [][]int // rows[l][i] 为区间 [i, i+l+1) 的最小值下标。
}

// NewNaiveTable 对 seq 预计算所有区间的答案。
// seq 由调用方持有，预处理后不得修改。
func NewNaiveTable[T cmp.Ordered](seq []T) (*NaiveTable[T], error) {
	n := len(seq)
	if n == 0 {
		return nil, xerrors.ErrEmptySequence
	}

	t := &NaiveTable[T]{
		seq:  seq,
		rows: make([][]int, n),
	}

	// 1. 长度为 1 的区间即元素自身。
	base := make([]int, n)
	for i := range base {
		base[i] = i
	}
	t.rows[0] = base

	// 2. 动态规划：[i, i+l+1) 由 [i, i+l) 与 [i+1, i+l+1) 合并而来，
	// 后者的候选靠右，平局时胜出。
	for l := 1; l < n; l++ {
		prev := t.rows[l-1]
		row := make([]int, n-l)
		for i := range row {
			row[i] = pick(seq, prev[i], prev[i+1])
		}
		t.rows[l] = row
	}

	return t, nil
}

// Query 返回半开区间 [u, v) 内最小元素的下标，平局取最靠右者。
// 要求 0 ≤ u < v ≤ Len()，违反时 panic。
func (t *NaiveTable[T]) Query(u, v int) int {
	checkRange(u, v, len(t.seq))
	return t.rows[v-u-1][u]
}

// Len 返回被预处理序列的长度。
func (t *NaiveTable[T]) Len() int {
	return len(t.seq)
}
