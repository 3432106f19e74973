// Package rmq 提供一次预处理、O(1) 查询的静态区间最小值与最近公共祖先求解器.
//
// 求解器之间通过经典归约相互支撑：BlockTable 在 ±1 受限序列上以 O(n)
// 预处理达成 O(1) 查询；EulerLCA 借助欧拉序把树上 LCA 归约为 ±1 区间
// 查询；Cartesian 再借助笛卡尔树把一般序列的区间查询归约为 LCA。
// NaiveTable 与 SparseTable 既是独立可用的基线求解器，也是 BlockTable
// 的内部构件。
package rmq

import (
	"cmp"
	"fmt"
	"math/bits"
)

// Solver 是所有区间最小值求解器的统一查询视图。
// 具体求解器均为泛型类型并在调用点静态绑定；本接口只服务于
// 需要在运行期选择求解器的场合（服务层、测试矩阵）。
type Solver interface {
	// Query 返回半开区间 [u, v) 内最小元素的下标。
	Query(u, v int) int
	// Len 返回被预处理序列的长度。
	Len() int
}

// Integer 约束 ±1 受限求解器可处理的元素类型。
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// floorLog2 返回 ⌊log₂x⌋，要求 x ≥ 1。
func floorLog2(x int) int {
	return bits.Len(uint(x)) - 1
}

// pick 在两个候选下标中取值更小者；值相等时取 y。
// 各构建方负责把靠右的候选放在 y，使平局一致地解析为靠右下标。
func pick[T cmp.Ordered](seq []T, x, y int) int {
	if seq[x] < seq[y] {
		return x
	}
	return y
}

// checkRange 校验半开区间参数。
// 违反前置条件属于调用方缺陷，直接 panic；检查本身只有一次比较的开销。
func checkRange(u, v, n int) {
	if u < 0 || u >= v || v > n {
		panic(fmt.Sprintf("rmq: invalid range [%d, %d) over %d elements", u, v, n))
	}
}
