package xerrors

var (
	// ErrSeriesExists 同名数字序列已注册。
	ErrSeriesExists = New(ErrAlreadyExists, 409001, "series already exists", "choose another series name or delete the existing one", nil)
	// ErrTreeExists 同名树已注册。
	ErrTreeExists = New(ErrAlreadyExists, 409002, "tree already exists", "choose another tree name or delete the existing one", nil)
	// ErrSeriesNotFound 序列不存在。
	ErrSeriesNotFound = New(ErrNotFound, 404001, "series not found", "register the series before querying it", nil)
	// ErrTreeNotFound 树不存在。
	ErrTreeNotFound = New(ErrNotFound, 404002, "tree not found", "register the tree before querying it", nil)
	// ErrLabelNotFound 树中不存在该标签的节点。
	ErrLabelNotFound = New(ErrNotFound, 404003, "node label not found", "the label is not part of the registered tree", nil)
	// ErrDuplicateLabel 树定义中出现重复标签。
	ErrDuplicateLabel = New(ErrInvalidArg, 400101, "duplicate node label", "every node label within a tree must be unique", nil)
	// ErrUnknownSolver 未知的求解器类型。
	ErrUnknownSolver = New(ErrInvalidArg, 400102, "unknown solver kind", "supported kinds: naive, sparse, block, cartesian", nil)
	// ErrQueryRange 查询区间越界或不合法。
	ErrQueryRange = New(ErrInvalidArg, 400103, "invalid query range", "require 0 <= from < to <= length", nil)
	// ErrTreeStructure 父节点数组无法构成一棵有根树。
	ErrTreeStructure = New(ErrInvalidArg, 400104, "invalid tree structure", "parents must satisfy parents[0] == -1 and 0 <= parents[i] < i", nil)
)
