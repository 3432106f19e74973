package service

import (
	"context"
	"errors"
	"testing"

	"github.com/wyfcoding/rangequery/config"
	"github.com/wyfcoding/rangequery/logging"
	"github.com/wyfcoding/rangequery/metrics"
	"github.com/wyfcoding/rangequery/pagination"
	"github.com/wyfcoding/rangequery/xerrors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	return New(logging.NewLogger("test", "service", "error"), metrics.NewMetrics("test"))
}

func bruteMin(values []int64, from, to int) int64 {
	best := values[from]
	for i := from + 1; i < to; i++ {
		if values[i] < best {
			best = values[i]
		}
	}

	return best
}

func TestCreateSeriesAndQuery(t *testing.T) {
	general := []int64{10, 8, 9, 2, 4, 5, 1, 16, 4, 7}
	unitWalk := []int64{3, 4, 3, 2, 1, 2, 3, 2, 1, 0, 1, 2}

	cases := []struct {
		name   string
		solver string
		values []int64
	}{
		{"naive over general values", SolverNaive, general},
		{"sparse over general values", SolverSparse, general},
		{"cartesian over general values", SolverCartesian, general},
		{"block over unit step values", SolverBlock, unitWalk},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t)
			ctx := context.Background()

			info, err := svc.CreateSeries(ctx, "s", tc.solver, tc.values)
			if err != nil {
				t.Fatalf("CreateSeries(%s) failed: %v", tc.solver, err)
			}
			if info.Solver != tc.solver {
				t.Errorf("info.Solver = %q, want %q", info.Solver, tc.solver)
			}
			if info.Length != len(tc.values) {
				t.Errorf("info.Length = %d, want %d", info.Length, len(tc.values))
			}
			if info.ID == 0 {
				t.Error("info.ID should be non-zero")
			}

			for from := 0; from < len(tc.values); from++ {
				for to := from + 1; to <= len(tc.values); to++ {
					got, err := svc.QuerySeries(ctx, "s", from, to)
					if err != nil {
						t.Fatalf("QuerySeries(%d, %d) failed: %v", from, to, err)
					}
					if want := bruteMin(tc.values, from, to); got.Value != want {
						t.Errorf("QuerySeries(%d, %d).Value = %d, want %d", from, to, got.Value, want)
					}
					if got.Index < from || got.Index >= to {
						t.Errorf("QuerySeries(%d, %d).Index = %d out of range", from, to, got.Index)
					}
					if tc.values[got.Index] != got.Value {
						t.Errorf("QuerySeries(%d, %d): index %d holds %d, reported %d",
							from, to, got.Index, tc.values[got.Index], got.Value)
					}
				}
			}
		})
	}
}

func TestCreateSeriesDefaultsToSparse(t *testing.T) {
	svc := newTestService(t)

	info, err := svc.CreateSeries(context.Background(), "s", "", []int64{3, 1, 2})
	if err != nil {
		t.Fatalf("CreateSeries failed: %v", err)
	}
	if info.Solver != SolverSparse {
		t.Errorf("default solver = %q, want %q", info.Solver, SolverSparse)
	}
}

func TestCreateSeriesErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateSeries(ctx, "dup", SolverNaive, []int64{1, 2, 3}); err != nil {
		t.Fatalf("CreateSeries setup failed: %v", err)
	}

	cases := []struct {
		name   string
		series string
		solver string
		values []int64
		want   error
	}{
		{"duplicate name", "dup", SolverNaive, []int64{1}, xerrors.ErrSeriesExists},
		{"unknown solver", "s1", "segment", []int64{1}, xerrors.ErrUnknownSolver},
		{"empty values", "s2", SolverSparse, nil, xerrors.ErrEmptySequence},
		{"block without unit steps", "s3", SolverBlock, []int64{1, 3, 5}, xerrors.ErrUnitStep},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateSeries(ctx, tc.series, tc.solver, tc.values)
			if !errors.Is(err, tc.want) {
				t.Errorf("CreateSeries error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestQuerySeriesErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateSeries(ctx, "s", SolverSparse, []int64{5, 3, 4}); err != nil {
		t.Fatalf("CreateSeries failed: %v", err)
	}

	if _, err := svc.QuerySeries(ctx, "missing", 0, 1); !errors.Is(err, xerrors.ErrSeriesNotFound) {
		t.Errorf("unknown series error = %v, want %v", err, xerrors.ErrSeriesNotFound)
	}

	badRanges := []struct{ from, to int }{
		{-1, 2},
		{1, 1},
		{2, 1},
		{0, 4},
	}
	for _, r := range badRanges {
		if _, err := svc.QuerySeries(ctx, "s", r.from, r.to); !errors.Is(err, xerrors.ErrQueryRange) {
			t.Errorf("QuerySeries(%d, %d) error = %v, want %v", r.from, r.to, err, xerrors.ErrQueryRange)
		}
	}
}

func TestListSeriesPagination(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"delta", "alpha", "echo", "charlie", "bravo"} {
		if _, err := svc.CreateSeries(ctx, name, SolverNaive, []int64{1, 2}); err != nil {
			t.Fatalf("CreateSeries(%s) failed: %v", name, err)
		}
	}

	page1, total := svc.ListSeries(ctx, &pagination.Page{PageNum: 1, PageSize: 2})
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if len(page1) != 2 || page1[0].Name != "alpha" || page1[1].Name != "bravo" {
		t.Errorf("page 1 = %v, want [alpha bravo]", page1)
	}

	page3, _ := svc.ListSeries(ctx, &pagination.Page{PageNum: 3, PageSize: 2})
	if len(page3) != 1 || page3[0].Name != "echo" {
		t.Errorf("page 3 = %v, want [echo]", page3)
	}

	page4, _ := svc.ListSeries(ctx, &pagination.Page{PageNum: 4, PageSize: 2})
	if len(page4) != 0 {
		t.Errorf("page 4 = %v, want empty", page4)
	}

	// 非法分页参数回退到默认值并收敛上限。
	all, _ := svc.ListSeries(ctx, &pagination.Page{PageNum: 0, PageSize: 1000})
	if len(all) != 5 {
		t.Errorf("clamped page size returned %d items, want 5", len(all))
	}
}

func TestDeleteSeries(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateSeries(ctx, "s", SolverNaive, []int64{1}); err != nil {
		t.Fatalf("CreateSeries failed: %v", err)
	}

	if err := svc.DeleteSeries(ctx, "s"); err != nil {
		t.Fatalf("DeleteSeries failed: %v", err)
	}
	if _, err := svc.GetSeries(ctx, "s"); !errors.Is(err, xerrors.ErrSeriesNotFound) {
		t.Errorf("GetSeries after delete = %v, want %v", err, xerrors.ErrSeriesNotFound)
	}
	if err := svc.DeleteSeries(ctx, "s"); !errors.Is(err, xerrors.ErrSeriesNotFound) {
		t.Errorf("second DeleteSeries = %v, want %v", err, xerrors.ErrSeriesNotFound)
	}
}

func TestCreateTreeAndQueryLCA(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	labels := []string{"ceo", "cto", "backend", "frontend", "infra", "cfo", "acct", "audit", "tax"}
	parents := []int{-1, 0, 1, 1, 1, 0, 5, 6, 5}

	info, err := svc.CreateTree(ctx, "org", labels, parents)
	if err != nil {
		t.Fatalf("CreateTree failed: %v", err)
	}
	if info.Nodes != len(labels) {
		t.Errorf("info.Nodes = %d, want %d", info.Nodes, len(labels))
	}

	cases := []struct {
		u, v, want string
	}{
		{"backend", "infra", "cto"},
		{"backend", "tax", "ceo"},
		{"audit", "tax", "cfo"},
		{"cto", "backend", "cto"},
		{"acct", "acct", "acct"},
	}
	for _, tc := range cases {
		got, err := svc.QueryLCA(ctx, "org", tc.u, tc.v)
		if err != nil {
			t.Fatalf("QueryLCA(%s, %s) failed: %v", tc.u, tc.v, err)
		}
		if got.Label != tc.want {
			t.Errorf("QueryLCA(%s, %s) = %q, want %q", tc.u, tc.v, got.Label, tc.want)
		}
	}
}

func TestCreateTreeValidation(t *testing.T) {
	cases := []struct {
		name    string
		labels  []string
		parents []int
		want    error
	}{
		{"length mismatch", []string{"a", "b"}, []int{-1}, xerrors.ErrTreeStructure},
		{"empty labels", nil, nil, xerrors.ErrTreeStructure},
		{"root parent not -1", []string{"a", "b"}, []int{0, 0}, xerrors.ErrTreeStructure},
		{"forward parent reference", []string{"a", "b", "c"}, []int{-1, 2, 1}, xerrors.ErrTreeStructure},
		{"negative parent", []string{"a", "b"}, []int{-1, -1}, xerrors.ErrTreeStructure},
		{"duplicate label", []string{"a", "a"}, []int{-1, 0}, xerrors.ErrDuplicateLabel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t)
			_, err := svc.CreateTree(context.Background(), "t", tc.labels, tc.parents)
			if !errors.Is(err, tc.want) {
				t.Errorf("CreateTree error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreateTreeDuplicateName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateTree(ctx, "t", []string{"a"}, []int{-1}); err != nil {
		t.Fatalf("CreateTree failed: %v", err)
	}
	if _, err := svc.CreateTree(ctx, "t", []string{"a"}, []int{-1}); !errors.Is(err, xerrors.ErrTreeExists) {
		t.Errorf("duplicate CreateTree error = %v, want %v", err, xerrors.ErrTreeExists)
	}
}

func TestQueryLCAErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.QueryLCA(ctx, "missing", "a", "b"); !errors.Is(err, xerrors.ErrTreeNotFound) {
		t.Errorf("unknown tree error = %v, want %v", err, xerrors.ErrTreeNotFound)
	}

	if _, err := svc.CreateTree(ctx, "t", []string{"a", "b"}, []int{-1, 0}); err != nil {
		t.Fatalf("CreateTree failed: %v", err)
	}
	if _, err := svc.QueryLCA(ctx, "t", "a", "zzz"); !errors.Is(err, xerrors.ErrLabelNotFound) {
		t.Errorf("unknown label error = %v, want %v", err, xerrors.ErrLabelNotFound)
	}
}

func TestListTreesSorted(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"zulu", "alpha", "mike"} {
		if _, err := svc.CreateTree(ctx, name, []string{"r"}, []int{-1}); err != nil {
			t.Fatalf("CreateTree(%s) failed: %v", name, err)
		}
	}

	infos := svc.ListTrees(ctx)
	want := []string{"alpha", "mike", "zulu"}
	if len(infos) != len(want) {
		t.Fatalf("ListTrees returned %d items, want %d", len(infos), len(want))
	}
	for i, name := range want {
		if infos[i].Name != name {
			t.Errorf("infos[%d].Name = %q, want %q", i, infos[i].Name, name)
		}
	}
}

func TestDeleteTree(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateTree(ctx, "t", []string{"a"}, []int{-1}); err != nil {
		t.Fatalf("CreateTree failed: %v", err)
	}
	if err := svc.DeleteTree(ctx, "t"); err != nil {
		t.Fatalf("DeleteTree failed: %v", err)
	}
	if err := svc.DeleteTree(ctx, "t"); !errors.Is(err, xerrors.ErrTreeNotFound) {
		t.Errorf("second DeleteTree = %v, want %v", err, xerrors.ErrTreeNotFound)
	}
}

func TestPreloadAndReady(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Ready(); err == nil {
		t.Fatal("Ready should fail before preload")
	}

	datasets := config.DatasetsConfig{
		Series: []config.SeriesSpec{
			{Name: "latency", Solver: SolverSparse, Values: []int64{10, 8, 9, 2}},
			{Name: "walk", Solver: SolverBlock, Values: []int64{1, 2, 1, 0}},
		},
		Trees: []config.TreeSpec{
			{Name: "org", Labels: []string{"a", "b", "c"}, Parents: []int{-1, 0, 0}},
		},
	}

	if err := svc.Preload(ctx, datasets); err != nil {
		t.Fatalf("Preload failed: %v", err)
	}
	if err := svc.Ready(); err != nil {
		t.Errorf("Ready after preload = %v, want nil", err)
	}

	if _, err := svc.GetSeries(ctx, "latency"); err != nil {
		t.Errorf("GetSeries(latency) failed: %v", err)
	}
	if _, err := svc.GetTree(ctx, "org"); err != nil {
		t.Errorf("GetTree(org) failed: %v", err)
	}
}

func TestPreloadReportsFailures(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	datasets := config.DatasetsConfig{
		Series: []config.SeriesSpec{
			{Name: "good", Solver: SolverNaive, Values: []int64{1, 2}},
			{Name: "bad", Solver: SolverBlock, Values: []int64{1, 5, 9}},
		},
	}

	err := svc.Preload(ctx, datasets)
	if !errors.Is(err, xerrors.ErrUnitStep) {
		t.Fatalf("Preload error = %v, want %v", err, xerrors.ErrUnitStep)
	}

	// 失败的数据集不阻断其余数据集的加载，但整体不宣告就绪。
	if _, err := svc.GetSeries(ctx, "good"); err != nil {
		t.Errorf("GetSeries(good) failed: %v", err)
	}
	if err := svc.Ready(); err == nil {
		t.Error("Ready should fail after partial preload")
	}
}

func TestCloseResetsRegistry(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateSeries(ctx, "s", SolverNaive, []int64{1}); err != nil {
		t.Fatalf("CreateSeries failed: %v", err)
	}

	svc.Close()

	if _, err := svc.GetSeries(ctx, "s"); !errors.Is(err, xerrors.ErrSeriesNotFound) {
		t.Errorf("GetSeries after Close = %v, want %v", err, xerrors.ErrSeriesNotFound)
	}
}
