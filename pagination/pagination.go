// Package pagination 提供统一的分页参数解析与归一化.
package pagination

// Page 定义分页请求参数，可直接用于查询串绑定。
type Page struct {
	PageNum  int `json:"page" form:"page"` // 页码，从 1 开始计数。
	PageSize int `json:"size" form:"size"` // 每页记录数。
}

// Validate 归一化分页参数：非法页码回退到第一页，
// 每页数量回退到默认值并收敛到上限，防止单次请求数据量过大。
func (p *Page) Validate() {
	if p.PageNum <= 0 {
		p.PageNum = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// Offset 返回当前页在全量结果中的起始偏移。
func (p *Page) Offset() int {
	return (p.PageNum - 1) * p.PageSize
}

// Limit 返回当前页可容纳的记录数。
func (p *Page) Limit() int {
	return p.PageSize
}
