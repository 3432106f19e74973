// Package service 实现数据集注册与区间查询的核心业务逻辑.
// 生成摘要:
// 1) 维护数值序列与标签树两类数据集的内存注册表。
// 2) 序列支持四种预处理求解器，树支持最近公共祖先查询。
// 3) 支持启动时并发预加载配置声明的数据集。
// 假设:
// 1) 数据集全部驻留内存，重启后由配置重新预加载。
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/wyfcoding/rangequery/config"
	"github.com/wyfcoding/rangequery/logging"
	"github.com/wyfcoding/rangequery/metrics"

	"github.com/sourcegraph/conc"
)

// Service 是数据集注册表，负责数据集的全生命周期管理与查询分发。
// 所有操作对并发调用安全。
type Service struct {
	logger  *logging.Logger
	metrics *metrics.Metrics

	mu     sync.RWMutex
	series map[string]*seriesEntry
	trees  map[string]*treeEntry

	ready atomic.Bool
}

// New 创建一个空的数据集注册表。
// logger 与 m 均不可为 nil。
func New(logger *logging.Logger, m *metrics.Metrics) *Service {
	return &Service{
		logger:  logger,
		metrics: m,
		series:  make(map[string]*seriesEntry),
		trees:   make(map[string]*treeEntry),
	}
}

// Preload 并发加载配置中声明的全部数据集。
// 任何一个数据集加载失败都会使整体返回错误，但不影响其余数据集的加载。
func (s *Service) Preload(ctx context.Context, datasets config.DatasetsConfig) error {
	var (
		wg    conc.WaitGroup
		errMu sync.Mutex
		errs  []error
	)

	// 1. 序列与树相互独立，全部并发构建。
	for _, spec := range datasets.Series {
		wg.Go(func() {
			if _, err := s.CreateSeries(ctx, spec.Name, spec.Solver, spec.Values); err != nil {
				errMu.Lock()
				errs = append(errs, fmt.Errorf("preload series %q: %w", spec.Name, err))
				errMu.Unlock()
			}
		})
	}

	for _, spec := range datasets.Trees {
		wg.Go(func() {
			if _, err := s.CreateTree(ctx, spec.Name, spec.Labels, spec.Parents); err != nil {
				errMu.Lock()
				errs = append(errs, fmt.Errorf("preload tree %q: %w", spec.Name, err))
				errMu.Unlock()
			}
		})
	}

	wg.Wait()

	// 2. 全部成功后才对外宣告就绪。
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	s.ready.Store(true)
	s.logger.InfoContext(ctx, "datasets preloaded",
		"series", len(datasets.Series),
		"trees", len(datasets.Trees),
	)

	return nil
}

// Ready 报告注册表是否完成预加载，用于健康检查。
func (s *Service) Ready() error {
	if !s.ready.Load() {
		return errors.New("datasets are still preloading")
	}

	return nil
}

// Close 释放注册表持有的全部数据集。
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.series = make(map[string]*seriesEntry)
	s.trees = make(map[string]*treeEntry)

	s.logger.Info("dataset registry closed")
}
