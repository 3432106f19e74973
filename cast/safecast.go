// Package cast 提供基于 unsafe 的轻量数值位转换工具.
package cast

import "unsafe"

// As 是一个极致高性能的泛型转换函数，通过 unsafe 直接读取内存。
// 警告：仅限用于已知物理布局兼容的类型转换（如 int64 -> uint64 的截断或位读取）。
func As[T any, F any](from F) T {
	return *(*T)(unsafe.Pointer(&from))
}

// 以下保留常用别名以提高代码可读性，但底层统一调用泛型 As.

func Int64ToUint64(i int64) uint64 { return As[uint64](i) }
func Uint64ToInt64(u uint64) int64 { return As[int64](u) }
func Int64ToUint16(i int64) uint16 { return As[uint16](i) }
