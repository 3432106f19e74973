package rmq

import (
	"github.com/wyfcoding/rangequery/xerrors"
)

// shapeKey 唯一标识一个归一化后的块形态。
// mask 第 i 位记录块内第 i 步是上升 (1) 还是下降 (0)；
// 块长不超过 31，uint32 足以容纳全部步位。
type shapeKey struct {
	length int
	mask   uint32
}

// BlockTable 面向 ±1 受限序列的线性求解器。
// 相邻元素差的绝对值必须恰为 1，违反时行为未定义；
// 需要校验时调用 ValidateUnitSteps，构造函数自身不做线性检查。
// 预处理 O(n)、查询 O(1)。
//
// 序列被切成 ⌊log₂n⌋/2 长的块。块内查询依靠按形态去重共享的
// NaiveTable：±1 序列的块形态至多 2^s 种，去重后总预处理量保持线性。
// 跨块查询依靠块最小值序列上的 SparseTable。
type BlockTable[T Integer] struct {
	seq []T

	blockSize int
	blockCnt  int

	superVal []T   // 每块的最小值。
	superIdx []int // 每块最小值在原序列中的绝对下标（块内平局取靠右）。
	super    *SparseTable[T]

	shapes map[shapeKey]*NaiveTable[int] // 形态 → 共享块内查询表。
	tables []*NaiveTable[int]            // 每块对其形态表的非拥有引用。
}

// NewBlockTable 对 ±1 受限序列 seq 做分块预处理。
// seq 由调用方持有，预处理后不得修改。
func NewBlockTable[T Integer](seq []T) (*BlockTable[T], error) {
	n := len(seq)
	if n == 0 {
		return nil, xerrors.ErrEmptySequence
	}

	// 1. 块长取 ⌊log₂n⌋/2，短序列退化为 1。
	logn := max(1, floorLog2(n))
	s := max(1, logn/2)
	cnt := (n + s - 1) / s

	t := &BlockTable[T]{
		seq:       seq,
		blockSize: s,
		blockCnt:  cnt,
		superVal:  make([]T, cnt),
		superIdx:  make([]int, cnt),
		shapes:    make(map[shapeKey]*NaiveTable[int]),
		tables:    make([]*NaiveTable[int], cnt),
	}

	// 2. 逐块记录最小值及其绝对下标，并按形态去重建块内表。
	for b := range cnt {
		lo := b * s
		hi := min(lo+s, n)

		best := lo
		for i := lo + 1; i < hi; i++ {
			if seq[i] <= seq[best] {
				best = i
			}
		}
		t.superVal[b] = seq[best]
		t.superIdx[b] = best

		key := normalizeBlock(seq[lo:hi])
		table, ok := t.shapes[key]
		if !ok {
			table = newShapeTable(key)
			t.shapes[key] = table
		}
		t.tables[b] = table
	}

	// 3. 块最小值序列上的稀疏表支撑跨块查询。
	super, err := NewSparseTable(t.superVal)
	if err != nil {
		return nil, err
	}
	t.super = super

	return t, nil
}

// normalizeBlock 把一个块折叠成形态键：长度加上逐步的升降位。
// 形态只由相邻比较决定，与元素的绝对值无关。
func normalizeBlock[T Integer](block []T) shapeKey {
	var mask uint32
	for i := 1; i < len(block); i++ {
		if block[i] > block[i-1] {
			mask |= 1 << (i - 1)
		}
	}
	return shapeKey{length: len(block), mask: mask}
}

// newShapeTable 按形态键重建首元素归零的代表序列并预计算块内表。
// 归一化不改变任何一对元素的大小关系，因此表中的相对下标
// 与平局方向对同形态的所有块都成立。
func newShapeTable(key shapeKey) *NaiveTable[int] {
	norm := make([]int, key.length)
	for i := 1; i < key.length; i++ {
		if key.mask&(1<<(i-1)) != 0 {
			norm[i] = norm[i-1] + 1
		} else {
			norm[i] = norm[i-1] - 1
		}
	}
	table, _ := NewNaiveTable(norm) // 块恒非空，构造不会失败。
	return table
}

// Query 返回半开区间 [u, v) 内最小元素的下标，平局取最靠右者。
// 要求 0 ≤ u < v ≤ Len()，违反时 panic。
func (t *BlockTable[T]) Query(u, v int) int {
	checkRange(u, v, len(t.seq))

	ub, uo := u/t.blockSize, u%t.blockSize
	vb, vo := (v-1)/t.blockSize, (v-1)%t.blockSize

	// 1. 同块：一次块内查表。
	if ub == vb {
		return ub*t.blockSize + t.tables[ub].Query(uo, vo+1)
	}

	// 2. 跨块：左块后缀与右块前缀各取块内最小。
	uMin := ub*t.blockSize + t.tables[ub].Query(uo, t.blockLen(ub))
	vMin := vb*t.blockSize + t.tables[vb].Query(0, vo+1)

	best := uMin
	// 3. 相邻块之间不存在完整块，绝不能向超数组发起空区间查询。
	if vb-ub > 1 {
		mid := t.superIdx[t.super.Query(ub+1, vb)]
		if t.seq[mid] <= t.seq[best] {
			best = mid
		}
	}
	// 4. 三路候选的下标天然递增，用 ≤ 合并即保持平局取靠右。
	if t.seq[vMin] <= t.seq[best] {
		best = vMin
	}

	return best
}

// blockLen 返回第 b 块的实际长度，仅末块可能短于 blockSize。
func (t *BlockTable[T]) blockLen(b int) int {
	if hi := (b + 1) * t.blockSize; hi <= len(t.seq) {
		return t.blockSize
	}
	return len(t.seq) - b*t.blockSize
}

// Len 返回被预处理序列的长度。
func (t *BlockTable[T]) Len() int {
	return len(t.seq)
}

// BlockSize 返回分块宽度。
func (t *BlockTable[T]) BlockSize() int {
	return t.blockSize
}

// ShapeCount 返回去重后的块形态数，上界为 min(块数, 2^BlockSize)。
func (t *BlockTable[T]) ShapeCount() int {
	return len(t.shapes)
}

// ValidateUnitSteps 校验相邻元素差的绝对值是否恰为 1。
// 检查为 O(n) 且独立于构造流程，由调用方按需启用。
func ValidateUnitSteps[T Integer](seq []T) error {
	for i := 1; i < len(seq); i++ {
		// 加法形式对无符号类型同样安全，不会发生下溢。
		if seq[i] != seq[i-1]+1 && seq[i]+1 != seq[i-1] {
			return xerrors.ErrUnitStep
		}
	}
	return nil
}
