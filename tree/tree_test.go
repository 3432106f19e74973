package tree

import (
	"testing"
)

func buildSample() *Node[string] {
	// a
	// ├── b ── c, d, e
	// └── f ── g ── h
	//     └── i
	return New("a",
		New("b", New("c"), New("d"), New("e")),
		New("f", New("g", New("h")), New("i")),
	)
}

func TestCount(t *testing.T) {
	root := buildSample()
	if got := root.Count(); got != 9 {
		t.Errorf("Count() = %d, want 9", got)
	}

	leaf := New(42)
	if got := leaf.Count(); got != 1 {
		t.Errorf("Count() on leaf = %d, want 1", got)
	}

	var nilNode *Node[int]
	if got := nilNode.Count(); got != 0 {
		t.Errorf("Count() on nil = %d, want 0", got)
	}
}

func TestWalkOrder(t *testing.T) {
	root := buildSample()

	var visited []string
	root.Walk(func(n *Node[string]) bool {
		visited = append(visited, n.Value)
		return true
	})

	want := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	if len(visited) != len(want) {
		t.Fatalf("Walk visited %d nodes, want %d", len(visited), len(want))
	}
	for i, v := range want {
		if visited[i] != v {
			t.Errorf("Walk order[%d] = %s, want %s", i, visited[i], v)
		}
	}
}

func TestWalkEarlyStop(t *testing.T) {
	root := buildSample()

	count := 0
	root.Walk(func(n *Node[string]) bool {
		count++
		return n.Value != "d"
	})

	// a, b, c, d 之后停止。
	if count != 4 {
		t.Errorf("Walk visited %d nodes before stop, want 4", count)
	}
}

func TestWalkDeepChain(t *testing.T) {
	// 链状树，深度远超默认 goroutine 栈可承受的递归层数。
	const depth = 1 << 20
	leaf := New(depth - 1)
	for i := depth - 2; i >= 0; i-- {
		leaf = New(i, leaf)
	}

	count := 0
	leaf.Walk(func(n *Node[int]) bool {
		count++
		return true
	})
	if count != depth {
		t.Errorf("Walk visited %d nodes, want %d", count, depth)
	}
	if got := leaf.Count(); got != depth {
		t.Errorf("Count() = %d, want %d", got, depth)
	}
}
