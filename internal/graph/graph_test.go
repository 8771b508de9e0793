package graph

import (
	"reflect"
	"testing"
)

func TestDependencyGraph_NoCycles(t *testing.T) {
	g := New[string]()
	g.AddEdge("app", "util")
	g.AddEdge("app", "base")
	g.AddEdge("util", "base")

	if cycles := g.Cycles(); len(cycles) != 0 {
		t.Fatalf("expected no cycles, got %v", cycles)
	}
	if got := g.Successors("app"); !reflect.DeepEqual(got, []string{"util", "base"}) {
		t.Fatalf("unexpected successors %v", got)
	}
}

func TestDependencyGraph_TwoNodeCycle(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	cycles := g.Cycles()
	want := [][]string{{"a", "b"}}
	if !reflect.DeepEqual(cycles, want) {
		t.Fatalf("expected %v, got %v", want, cycles)
	}
}

func TestDependencyGraph_CycleRotatedToFirstNode(t *testing.T) {
	g := New[string]()
	g.AddNode("root")
	g.AddNode("a")
	g.AddNode("b")
	g.AddNode("c")
	g.AddEdge("root", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")
	g.AddEdge("a", "b")

	cycles := g.Cycles()
	want := [][]string{{"a", "b", "c"}}
	if !reflect.DeepEqual(cycles, want) {
		t.Fatalf("expected %v, got %v", want, cycles)
	}
}

func TestDependencyGraph_SelfLoopAndDuplicateEdges(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "a")
	g.AddEdge("a", "a")

	if got := len(g.Successors("a")); got != 1 {
		t.Fatalf("expected parallel edges collapsed, got %d", got)
	}
	if cycles := g.Cycles(); !reflect.DeepEqual(cycles, [][]string{{"a"}}) {
		t.Fatalf("expected self loop, got %v", cycles)
	}
}

func TestDependencyGraph_IndependentCycles(t *testing.T) {
	g := New[int]()
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)
	g.AddEdge(3, 4)
	g.AddEdge(4, 5)
	g.AddEdge(5, 3)

	if got := len(g.Cycles()); got != 2 {
		t.Fatalf("expected 2 cycles, got %d", got)
	}
	if g.Len() != 5 || !g.Has(5) || g.Has(6) {
		t.Fatalf("unexpected node set %v", g.Nodes())
	}
}

func TestDependencyGraph_ChainsThroughFinishedNodes(t *testing.T) {
	g := New[string]()
	g.AddEdge("x", "y")
	g.AddEdge("x", "z")
	g.AddEdge("y", "z")
	g.AddEdge("z", "x")

	cycles := g.Cycles()
	want := [][]string{{"x", "y", "z"}, {"x", "z"}}
	if !reflect.DeepEqual(cycles, want) {
		t.Fatalf("expected %v, got %v", want, cycles)
	}
}

func TestDependencyGraph_OverlappingChainsReportedOnce(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	g.AddEdge("b", "c")
	g.AddEdge("c", "b")
	g.AddEdge("c", "a")

	cycles := g.Cycles()
	want := [][]string{{"a", "b"}, {"a", "b", "c"}, {"b", "c"}}
	if !reflect.DeepEqual(cycles, want) {
		t.Fatalf("expected %v, got %v", want, cycles)
	}
}
