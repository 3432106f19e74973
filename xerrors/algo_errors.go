package xerrors

var (
	// ErrEmptySequence 待预处理序列为空。
	ErrEmptySequence = New(ErrInvalidArg, 400001, "empty sequence", "sequence must contain at least one element", nil)
	// ErrNilRoot 树根为空。
	ErrNilRoot = New(ErrInvalidArg, 400002, "nil tree root", "tree must contain at least one node", nil)
	// ErrUnitStep 序列不满足相邻元素差恰为 ±1 的约束。
	ErrUnitStep = New(ErrInvalidArg, 400003, "sequence is not a unit-step walk", "adjacent elements must differ by exactly 1", nil)
)
