package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/wyfcoding/rangequery/idgen"
	"github.com/wyfcoding/rangequery/logging"
	"github.com/wyfcoding/rangequery/pagination"
	"github.com/wyfcoding/rangequery/rmq"
	"github.com/wyfcoding/rangequery/tracing"
	"github.com/wyfcoding/rangequery/xerrors"
)

// 序列支持的求解器类型。
const (
	SolverNaive     = "naive"
	SolverSparse    = "sparse"
	SolverBlock     = "block"
	SolverCartesian = "cartesian"
)

// defaultSolver 是未指定求解器时的默认选择，构建与查询的综合开销最均衡。
const defaultSolver = SolverSparse

// SeriesInfo 对外暴露的序列数据集元信息。
type SeriesInfo struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Solver    string    `json:"solver"`
	Length    int       `json:"length"`
	CreatedAt time.Time `json:"created_at"`
}

// SeriesQueryResult 单次区间最小值查询的结果。
// Index 是原序列中的下标，Value 是对应元素值。
type SeriesQueryResult struct {
	Index  int    `json:"index"`
	Value  int64  `json:"value"`
	Solver string `json:"solver"`
}

type seriesEntry struct {
	info   SeriesInfo
	values []int64
	solver rmq.Solver
}

// normalizeSolverKind 校验并归一化求解器类型，空值回退到默认求解器。
func normalizeSolverKind(kind string) (string, error) {
	switch kind {
	case "":
		return defaultSolver, nil
	case SolverNaive, SolverSparse, SolverBlock, SolverCartesian:
		return kind, nil
	default:
		return "", xerrors.ErrUnknownSolver
	}
}

// buildSolver 按类型对序列执行预处理并上报构建指标。
func (s *Service) buildSolver(kind string, values []int64) (rmq.Solver, error) {
	start := time.Now()

	var (
		solver rmq.Solver
		err    error
	)

	switch kind {
	case SolverNaive:
		solver, err = rmq.NewNaiveTable(values)
	case SolverSparse:
		solver, err = rmq.NewSparseTable(values)
	case SolverBlock:
		// block 求解器要求相邻元素差恰为 ±1。
		if err = rmq.ValidateUnitSteps(values); err == nil {
			solver, err = rmq.NewBlockTable(values)
		}
	case SolverCartesian:
		solver, err = rmq.NewCartesian(values)
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	s.metrics.SolverBuildsTotal.WithLabelValues(kind, result).Inc()
	s.metrics.SolverBuildDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	return solver, err
}

// CreateSeries 注册一个新的数值序列并完成预处理。
// kind 为空时使用默认求解器；同名序列已存在时返回 ErrSeriesExists。
func (s *Service) CreateSeries(ctx context.Context, name, kind string, values []int64) (SeriesInfo, error) {
	ctx, span := tracing.StartSpan(ctx, "service.CreateSeries")
	defer span.End()
	defer logging.LogDuration(ctx, "create series", "name", name)()

	// 1. 校验求解器类型。
	kind, err := normalizeSolverKind(kind)
	if err != nil {
		tracing.SetError(ctx, err)
		return SeriesInfo{}, err
	}
	tracing.AddTag(ctx, "series.name", name)
	tracing.AddTag(ctx, "series.solver", kind)

	// 2. 快速失败：同名序列已存在时不必浪费预处理开销。
	s.mu.RLock()
	_, exists := s.series[name]
	s.mu.RUnlock()
	if exists {
		return SeriesInfo{}, xerrors.ErrSeriesExists
	}

	// 3. 复制输入并在锁外完成预处理，避免大序列构建阻塞其他查询。
	vals := slices.Clone(values)
	solver, err := s.buildSolver(kind, vals)
	if err != nil {
		tracing.SetError(ctx, err)
		return SeriesInfo{}, err
	}

	entry := &seriesEntry{
		info: SeriesInfo{
			ID:        idgen.GenID(),
			Name:      name,
			Solver:    kind,
			Length:    len(vals),
			CreatedAt: time.Now(),
		},
		values: vals,
		solver: solver,
	}

	// 4. 插入前复查名字占用，弥补锁外构建期间的并发注册窗口。
	s.mu.Lock()
	if _, exists := s.series[name]; exists {
		s.mu.Unlock()
		return SeriesInfo{}, xerrors.ErrSeriesExists
	}
	s.series[name] = entry
	s.mu.Unlock()

	s.metrics.DatasetsRegistered.WithLabelValues("series").Inc()
	s.logger.InfoContext(ctx, "series registered",
		"id", entry.info.ID,
		"name", name,
		"solver", kind,
		"length", len(vals),
	)

	return entry.info, nil
}

// GetSeries 返回指定序列的元信息。
func (s *Service) GetSeries(ctx context.Context, name string) (SeriesInfo, error) {
	s.mu.RLock()
	entry, ok := s.series[name]
	s.mu.RUnlock()

	if !ok {
		return SeriesInfo{}, xerrors.ErrSeriesNotFound
	}

	return entry.info, nil
}

// ListSeries 按名字典序返回序列元信息的分页结果。
// 分页参数先经 Validate 归一化，页码从 1 开始计数。
func (s *Service) ListSeries(ctx context.Context, page *pagination.Page) ([]SeriesInfo, int64) {
	page.Validate()

	s.mu.RLock()
	infos := make([]SeriesInfo, 0, len(s.series))
	for _, entry := range s.series {
		infos = append(infos, entry.info)
	}
	s.mu.RUnlock()

	slices.SortFunc(infos, func(a, b SeriesInfo) int {
		return strings.Compare(a.Name, b.Name)
	})

	total := int64(len(infos))
	offset := page.Offset()
	if offset >= len(infos) {
		return []SeriesInfo{}, total
	}

	end := min(offset+page.Limit(), len(infos))

	return infos[offset:end], total
}

// QuerySeries 查询序列在区间 [from, to) 内的最小值及其下标。
// 区间不合法时返回 ErrQueryRange，绝不触发底层求解器的越界保护。
func (s *Service) QuerySeries(ctx context.Context, name string, from, to int) (SeriesQueryResult, error) {
	ctx, span := tracing.StartSpan(ctx, "service.QuerySeries")
	defer span.End()

	s.mu.RLock()
	entry, ok := s.series[name]
	s.mu.RUnlock()

	if !ok {
		err := xerrors.ErrSeriesNotFound
		tracing.SetError(ctx, err)
		return SeriesQueryResult{}, err
	}

	if from < 0 || from >= to || to > entry.info.Length {
		err := xerrors.ErrQueryRange
		tracing.SetError(ctx, err)
		s.logger.WarnContext(ctx, "rejected range query",
			"name", name,
			"from", from,
			"to", to,
			"length", entry.info.Length,
		)
		return SeriesQueryResult{}, err
	}

	tracing.AddTag(ctx, "series.name", name)
	tracing.AddTag(ctx, "series.span", to-from)

	idx := entry.solver.Query(from, to)
	s.metrics.SolverQueriesTotal.WithLabelValues(entry.info.Solver).Inc()

	return SeriesQueryResult{
		Index:  idx,
		Value:  entry.values[idx],
		Solver: entry.info.Solver,
	}, nil
}

// DeleteSeries 注销指定序列并释放其预处理结构。
func (s *Service) DeleteSeries(ctx context.Context, name string) error {
	s.mu.Lock()
	_, ok := s.series[name]
	if ok {
		delete(s.series, name)
	}
	s.mu.Unlock()

	if !ok {
		return xerrors.ErrSeriesNotFound
	}

	s.metrics.DatasetsRegistered.WithLabelValues("series").Dec()
	s.logger.InfoContext(ctx, "series removed", "name", name)

	return nil
}
