package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/wyfcoding/rangequery/idgen"
	"github.com/wyfcoding/rangequery/logging"
	"github.com/wyfcoding/rangequery/rmq"
	"github.com/wyfcoding/rangequery/tracing"
	"github.com/wyfcoding/rangequery/tree"
	"github.com/wyfcoding/rangequery/xerrors"
)

// TreeInfo 对外暴露的树数据集元信息。
type TreeInfo struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Nodes     int       `json:"nodes"`
	CreatedAt time.Time `json:"created_at"`
}

// LCAResult 一次最近公共祖先查询的结果。
type LCAResult struct {
	Label string `json:"label"`
	U     string `json:"u"`
	V     string `json:"v"`
}

type treeEntry struct {
	info  TreeInfo
	lca   *rmq.EulerLCA[string]
	nodes map[string]*tree.Node[string]
}

// buildLabeledTree 根据父节点数组构建标签树，返回根节点与标签到节点的索引。
// parents[0] 必须为 -1，其余 parents[i] 必须落在 [0, i) 内，保证输入天然无环。
func buildLabeledTree(labels []string, parents []int) (*tree.Node[string], map[string]*tree.Node[string], error) {
	if len(labels) == 0 || len(labels) != len(parents) {
		return nil, nil, xerrors.ErrTreeStructure
	}
	if parents[0] != -1 {
		return nil, nil, xerrors.ErrTreeStructure
	}

	nodes := make([]*tree.Node[string], len(labels))
	index := make(map[string]*tree.Node[string], len(labels))

	for i, label := range labels {
		if _, dup := index[label]; dup {
			return nil, nil, xerrors.ErrDuplicateLabel
		}
		nodes[i] = tree.New(label)
		index[label] = nodes[i]
	}

	for i := 1; i < len(parents); i++ {
		p := parents[i]
		if p < 0 || p >= i {
			return nil, nil, xerrors.ErrTreeStructure
		}
		nodes[p].Children = append(nodes[p].Children, nodes[i])
	}

	return nodes[0], index, nil
}

// CreateTree 注册一棵标签树并完成最近公共祖先预处理。
func (s *Service) CreateTree(ctx context.Context, name string, labels []string, parents []int) (TreeInfo, error) {
	ctx, span := tracing.StartSpan(ctx, "service.CreateTree")
	defer span.End()
	defer logging.LogDuration(ctx, "create tree", "name", name)()

	tracing.AddTag(ctx, "tree.name", name)
	tracing.AddTag(ctx, "tree.nodes", len(labels))

	// 1. 快速失败：同名树已存在。
	s.mu.RLock()
	_, exists := s.trees[name]
	s.mu.RUnlock()
	if exists {
		return TreeInfo{}, xerrors.ErrTreeExists
	}

	// 2. 构建树结构并在锁外完成欧拉序预处理。
	start := time.Now()
	root, index, err := buildLabeledTree(labels, parents)
	var lca *rmq.EulerLCA[string]
	if err == nil {
		lca, err = rmq.NewEulerLCA(root)
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	s.metrics.SolverBuildsTotal.WithLabelValues("lca", result).Inc()
	s.metrics.SolverBuildDuration.WithLabelValues("lca").Observe(time.Since(start).Seconds())

	if err != nil {
		tracing.SetError(ctx, err)
		return TreeInfo{}, err
	}

	entry := &treeEntry{
		info: TreeInfo{
			ID:        idgen.GenID(),
			Name:      name,
			Nodes:     len(labels),
			CreatedAt: time.Now(),
		},
		lca:   lca,
		nodes: index,
	}

	// 3. 插入前复查名字占用，弥补锁外构建期间的并发注册窗口。
	s.mu.Lock()
	if _, exists := s.trees[name]; exists {
		s.mu.Unlock()
		return TreeInfo{}, xerrors.ErrTreeExists
	}
	s.trees[name] = entry
	s.mu.Unlock()

	s.metrics.DatasetsRegistered.WithLabelValues("tree").Inc()
	s.logger.InfoContext(ctx, "tree registered",
		"id", entry.info.ID,
		"name", name,
		"nodes", len(labels),
	)

	return entry.info, nil
}

// GetTree 返回指定树的元信息。
func (s *Service) GetTree(ctx context.Context, name string) (TreeInfo, error) {
	s.mu.RLock()
	entry, ok := s.trees[name]
	s.mu.RUnlock()

	if !ok {
		return TreeInfo{}, xerrors.ErrTreeNotFound
	}

	return entry.info, nil
}

// ListTrees 按名字典序返回全部树的元信息。
func (s *Service) ListTrees(ctx context.Context) []TreeInfo {
	s.mu.RLock()
	infos := make([]TreeInfo, 0, len(s.trees))
	for _, entry := range s.trees {
		infos = append(infos, entry.info)
	}
	s.mu.RUnlock()

	slices.SortFunc(infos, func(a, b TreeInfo) int {
		return strings.Compare(a.Name, b.Name)
	})

	return infos
}

// QueryLCA 查询两个标签节点的最近公共祖先。
// 两个标签允许相同，此时结果就是该节点自身。
func (s *Service) QueryLCA(ctx context.Context, name, u, v string) (LCAResult, error) {
	ctx, span := tracing.StartSpan(ctx, "service.QueryLCA")
	defer span.End()

	s.mu.RLock()
	entry, ok := s.trees[name]
	s.mu.RUnlock()

	if !ok {
		err := xerrors.ErrTreeNotFound
		tracing.SetError(ctx, err)
		return LCAResult{}, err
	}

	nu, ok := entry.nodes[u]
	if !ok {
		err := xerrors.ErrLabelNotFound
		tracing.SetError(ctx, err)
		s.logger.WarnContext(ctx, "unknown node label", "tree", name, "label", u)
		return LCAResult{}, err
	}
	nv, ok := entry.nodes[v]
	if !ok {
		err := xerrors.ErrLabelNotFound
		tracing.SetError(ctx, err)
		s.logger.WarnContext(ctx, "unknown node label", "tree", name, "label", v)
		return LCAResult{}, err
	}

	tracing.AddTag(ctx, "tree.name", name)

	ancestor := entry.lca.Query(nu, nv)
	s.metrics.SolverQueriesTotal.WithLabelValues("lca").Inc()

	return LCAResult{
		Label: ancestor.Value,
		U:     u,
		V:     v,
	}, nil
}

// DeleteTree 注销指定树并释放其预处理结构。
func (s *Service) DeleteTree(ctx context.Context, name string) error {
	s.mu.Lock()
	_, ok := s.trees[name]
	if ok {
		delete(s.trees, name)
	}
	s.mu.Unlock()

	if !ok {
		return xerrors.ErrTreeNotFound
	}

	s.metrics.DatasetsRegistered.WithLabelValues("tree").Dec()
	s.logger.InfoContext(ctx, "tree removed", "name", name)

	return nil
}
