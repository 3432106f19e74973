package rmq

import (
	"fmt"

	"github.com/wyfcoding/rangequery/tree"
)

func ExampleSparseTable() {
	seq := []int{10, 8, 9, 2, 4, 5, 1, 16, 4, 7}

	table, err := NewSparseTable(seq)
	if err != nil {
		panic(err)
	}

	idx := table.Query(0, 6)
	fmt.Println(idx, seq[idx])
	// Output: 3 2
}

func ExampleBlockTable() {
	// 相邻元素差恰为 1 的序列，重复最小值时返回最靠右的下标。
	seq := []int{3, 4, 3, 2, 1, 2, 3, 2, 1, 0, 1, 2}

	table, err := NewBlockTable(seq)
	if err != nil {
		panic(err)
	}

	idx := table.Query(2, 9)
	fmt.Println(idx, seq[idx])
	// Output: 8 1
}

func ExampleCartesian() {
	seq := []int{10, 8, 9, 2, 4, 5, 1, 16, 4, 7}

	cart, err := NewCartesian(seq)
	if err != nil {
		panic(err)
	}

	idx := cart.Query(0, 10)
	fmt.Println(idx, seq[idx])
	// Output: 6 1
}

func ExampleEulerLCA() {
	h := tree.New("h")
	g := tree.New("g", h)
	i := tree.New("i")
	f := tree.New("f", g, i)
	c := tree.New("c")
	d := tree.New("d")
	e := tree.New("e")
	b := tree.New("b", c, d, e)
	root := tree.New("a", b, f)

	lca, err := NewEulerLCA(root)
	if err != nil {
		panic(err)
	}

	fmt.Println(lca.Query(h, i).Value)
	fmt.Println(lca.Query(c, e).Value)
	fmt.Println(lca.Query(d, g).Value)
	// Output:
	// f
	// b
	// a
}
