package rmq

import (
	"cmp"

	"github.com/wyfcoding/rangequery/xerrors"
)

// SparseTable 基于倍增的稀疏表求解器。
// 预处理 O(n log n)、查询 O(1)。任意区间都能被两个可重叠的
// 2 的幂宽度窗口覆盖，而重叠不影响取最小值。
type SparseTable[T cmp.Ordered] struct {
	seq  []T
	rows [][]int // rows[d][i] 为区间 [i, i+2^d) 的最小值下标。
	logn int
}

// NewSparseTable 对 seq 预计算所有 2 的幂宽度窗口的答案。
// seq 由调用方持有，预处理后不得修改。
func NewSparseTable[T cmp.Ordered](seq []T) (*SparseTable[T], error) {
	n := len(seq)
	if n == 0 {
		return nil, xerrors.ErrEmptySequence
	}

	logn := max(1, floorLog2(n))
	t := &SparseTable[T]{
		seq:  seq,
		rows: make([][]int, logn+1),
		logn: logn,
	}

	base := make([]int, n)
	for i := range base {
		base[i] = i
	}
	t.rows[0] = base

	// rows[d][i] 由 rows[d-1] 中相距 2^(d-1) 的两个窗口合并而来，
	// 右侧窗口的候选在平局时胜出。
	for d := 1; d <= logn; d++ {
		width := 1 << (d - 1)
		prev := t.rows[d-1]
		row := make([]int, len(prev)-width)
		for i := range row {
			row[i] = pick(seq, prev[i], prev[i+width])
		}
		t.rows[d] = row
	}

	return t, nil
}

// Query 返回半开区间 [u, v) 内最小元素的下标，平局取最靠右者。
// 要求 0 ≤ u < v ≤ Len()，违反时 panic。
func (t *SparseTable[T]) Query(u, v int) int {
	checkRange(u, v, len(t.seq))

	// 两个宽 2^d 的窗口分别对齐区间两端，恰好覆盖 [u, v)。
	d := floorLog2(v - u)
	return pick(t.seq, t.rows[d][u], t.rows[d][v-(1<<d)])
}

// Len 返回被预处理序列的长度。
func (t *SparseTable[T]) Len() int {
	return len(t.seq)
}
