// Package handler 实现 HTTP API 的路由注册、参数绑定与响应编排.
package handler

import (
	"github.com/wyfcoding/rangequery/pagination"
	"github.com/wyfcoding/rangequery/response"
	"github.com/wyfcoding/rangequery/service"
	"github.com/wyfcoding/rangequery/xerrors"

	"github.com/gin-gonic/gin"
)

// Handler 持有业务服务实例，负责对外暴露 REST 接口。
type Handler struct {
	svc *service.Service
}

// New 创建一个新的 Handler。
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 将全部业务路由挂载到给定引擎。
func (h *Handler) RegisterRoutes(engine *gin.Engine) {
	v1 := engine.Group("/api/v1")

	series := v1.Group("/series")
	{
		series.POST("", h.CreateSeries)
		series.GET("", h.ListSeries)
		series.GET("/:name", h.GetSeries)
		series.GET("/:name/min", h.QueryMin)
		series.DELETE("/:name", h.DeleteSeries)
	}

	trees := v1.Group("/trees")
	{
		trees.POST("", h.CreateTree)
		trees.GET("", h.ListTrees)
		trees.GET("/:name", h.GetTree)
		trees.GET("/:name/lca", h.QueryLCA)
		trees.DELETE("/:name", h.DeleteTree)
	}
}

type createSeriesRequest struct {
	Name   string  `json:"name"   binding:"required,max=128"`
	Solver string  `json:"solver" binding:"omitempty,oneof=naive sparse block cartesian"`
	Values []int64 `json:"values" binding:"required,min=1"`
}

type rangeQueryRequest struct {
	From int `form:"from" binding:"min=0"`
	To   int `form:"to"   binding:"required,gtfield=From"`
}

type createTreeRequest struct {
	Name    string   `json:"name"    binding:"required,max=128"`
	Labels  []string `json:"labels"  binding:"required,min=1,dive,required"`
	Parents []int    `json:"parents" binding:"required,min=1"`
}

type lcaQueryRequest struct {
	U string `form:"u" binding:"required"`
	V string `form:"v" binding:"required"`
}

// bindingError 将参数绑定失败统一转换为业务错误。
func bindingError(err error) error {
	return xerrors.InvalidArg("invalid request parameters").WithDetail("%s", err.Error())
}

// CreateSeries 注册一个数值序列数据集。
func (h *Handler) CreateSeries(c *gin.Context) {
	var req createSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindingError(err))
		return
	}

	info, err := h.svc.CreateSeries(c.Request.Context(), req.Name, req.Solver, req.Values)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, info)
}

// ListSeries 分页列出全部序列数据集。
// 非法分页参数不报错，由 Validate 归一化到合法区间。
func (h *Handler) ListSeries(c *gin.Context) {
	var page pagination.Page
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, bindingError(err))
		return
	}

	infos, total := h.svc.ListSeries(c.Request.Context(), &page)
	response.SuccessWithPagination(c, infos, total, int32(page.PageNum), int32(page.PageSize))
}

// GetSeries 返回指定序列的元信息。
func (h *Handler) GetSeries(c *gin.Context) {
	info, err := h.svc.GetSeries(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, info)
}

// QueryMin 查询序列在 [from, to) 区间内的最小值。
func (h *Handler) QueryMin(c *gin.Context) {
	var req rangeQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, bindingError(err))
		return
	}

	result, err := h.svc.QuerySeries(c.Request.Context(), c.Param("name"), req.From, req.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteSeries 注销指定序列。
func (h *Handler) DeleteSeries(c *gin.Context) {
	if err := h.svc.DeleteSeries(c.Request.Context(), c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// CreateTree 注册一棵标签树数据集。
func (h *Handler) CreateTree(c *gin.Context) {
	var req createTreeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindingError(err))
		return
	}

	info, err := h.svc.CreateTree(c.Request.Context(), req.Name, req.Labels, req.Parents)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, info)
}

// ListTrees 列出全部树数据集。
func (h *Handler) ListTrees(c *gin.Context) {
	response.Success(c, h.svc.ListTrees(c.Request.Context()))
}

// GetTree 返回指定树的元信息。
func (h *Handler) GetTree(c *gin.Context) {
	info, err := h.svc.GetTree(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, info)
}

// QueryLCA 查询两个标签节点的最近公共祖先。
func (h *Handler) QueryLCA(c *gin.Context) {
	var req lcaQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, bindingError(err))
		return
	}

	result, err := h.svc.QueryLCA(c.Request.Context(), c.Param("name"), req.U, req.V)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteTree 注销指定树。
func (h *Handler) DeleteTree(c *gin.Context) {
	if err := h.svc.DeleteTree(c.Request.Context(), c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
