package rmq

import (
	"math/rand/v2"
	"testing"
)

func TestCartesianKnownSequences(t *testing.T) {
	seq := []int{10, 8, 9, 2, 4, 5, 1, 16, 4, 7}
	cart, err := NewCartesian(seq)
	if err != nil {
		t.Fatalf("NewCartesian: %v", err)
	}

	cases := []struct{ u, v, want int }{
		{0, 3, 1},
		{0, 6, 3},
		{3, 8, 6},
		{0, 10, 6},
		{7, 8, 7},
	}
	for _, tc := range cases {
		if got := cart.Query(tc.u, tc.v); got != tc.want {
			t.Errorf("Query(%d, %d) = %d, want %d", tc.u, tc.v, got, tc.want)
		}
	}
}

func TestCartesianLeftmostTies(t *testing.T) {
	// 靠前的相等元素在树中保持为祖先，平局取最靠左下标。
	cases := []struct {
		seq  []int
		u, v int
		want int
	}{
		{[]int{1, 1, 1, 1, 1, 1}, 0, 6, 0},
		{[]int{1, 1, 1, 1, 1, 1}, 2, 5, 2},
		{[]int{3, 1, 2, 1, 4, 5}, 0, 6, 1},
		{[]int{3, 1, 1, 1, 4, 5}, 0, 6, 1},
		{[]int{1, 2, 1, 2, 1, 0}, 0, 5, 0},
		{[]int{2, 1, 2, 1, 2}, 1, 4, 1},
	}

	for _, tc := range cases {
		cart, err := NewCartesian(tc.seq)
		if err != nil {
			t.Fatalf("NewCartesian(%v): %v", tc.seq, err)
		}
		if got := cart.Query(tc.u, tc.v); got != tc.want {
			t.Errorf("Query(%d, %d) on %v = %d, want leftmost %d",
				tc.u, tc.v, tc.seq, got, tc.want)
		}
	}
}

func TestCartesianAgainstSparseRandom(t *testing.T) {
	r := rand.New(rand.NewPCG(41, 0))

	for trial := 0; trial < 30; trial++ {
		n := 1 + r.IntN(300)
		seq := make([]int, n)
		for i := range seq {
			seq[i] = r.IntN(1000) - 500
		}

		cart, err := NewCartesian(seq)
		if err != nil {
			t.Fatalf("NewCartesian: %v", err)
		}
		sparse, err := NewSparseTable(seq)
		if err != nil {
			t.Fatalf("NewSparseTable: %v", err)
		}

		for probe := 0; probe < 500; probe++ {
			u := r.IntN(n)
			v := u + 1 + r.IntN(n-u)
			// 两族平局策略不同，只要求最小值一致。
			if gi, si := cart.Query(u, v), sparse.Query(u, v); seq[gi] != seq[si] {
				t.Fatalf("trial %d: Query(%d, %d): cartesian value %d, sparse value %d",
					trial, u, v, seq[gi], seq[si])
			}
		}
	}
}

func TestCartesianMonotonicSequences(t *testing.T) {
	// 单调序列产生链状笛卡尔树，构建与游走全程不得递归。
	const n = 50_000

	asc := make([]int, n)
	desc := make([]int, n)
	for i := range asc {
		asc[i] = i
		desc[i] = n - i
	}

	cartAsc, err := NewCartesian(asc)
	if err != nil {
		t.Fatalf("NewCartesian(asc): %v", err)
	}
	cartDesc, err := NewCartesian(desc)
	if err != nil {
		t.Fatalf("NewCartesian(desc): %v", err)
	}

	if got := cartAsc.Query(0, n); got != 0 {
		t.Errorf("ascending Query(0, n) = %d, want 0", got)
	}
	if got := cartAsc.Query(n/2, n); got != n/2 {
		t.Errorf("ascending Query(n/2, n) = %d, want %d", got, n/2)
	}
	if got := cartDesc.Query(0, n); got != n-1 {
		t.Errorf("descending Query(0, n) = %d, want %d", got, n-1)
	}
	if got := cartDesc.Query(0, n/2); got != n/2-1 {
		t.Errorf("descending Query(0, n/2) = %d, want %d", got, n/2-1)
	}
}

func TestCartesianUnitWalksAgainstBlock(t *testing.T) {
	r := rand.New(rand.NewPCG(43, 0))
	seq := unitWalk(r, 2048, 0)

	cart, err := NewCartesian(seq)
	if err != nil {
		t.Fatalf("NewCartesian: %v", err)
	}
	block, err := NewBlockTable(seq)
	if err != nil {
		t.Fatalf("NewBlockTable: %v", err)
	}

	for trial := 0; trial < 3000; trial++ {
		u := r.IntN(len(seq))
		v := u + 1 + r.IntN(len(seq)-u)
		if gi, bi := cart.Query(u, v), block.Query(u, v); seq[gi] != seq[bi] {
			t.Fatalf("Query(%d, %d): cartesian value %d, block value %d",
				u, v, seq[gi], seq[bi])
		}
	}
}
