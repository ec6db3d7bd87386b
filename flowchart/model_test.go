// ABOUTME: Tests for structural index queries over the parsed subgraph forest.
// ABOUTME: Covers top-level listing, children-of, lookups, and transitive node counting.
package flowchart

import (
	"strings"
	"testing"
)

func indexFixture() *Model {
	return Parse(strings.Join([]string{
		"flowchart TD",
		"subgraph a[Alpha]",
		"A1[x] --> A2",
		"subgraph b[Beta]",
		"B1[y]",
		"end",
		"end",
		"subgraph c[Gamma]",
		"C1 --> C2",
		"C2 --> C3",
		"end",
	}, "\n"))
}

func TestTopLevelSubgraphs(t *testing.T) {
	m := indexFixture()
	top := m.TopLevel()
	if len(top) != 2 {
		t.Fatalf("expected 2 top-level subgraphs, got %d", len(top))
	}
	if top[0].ID != "a" || top[1].ID != "c" {
		t.Errorf("top-level = %s, %s; want a, c", top[0].ID, top[1].ID)
	}
}

func TestChildrenOf(t *testing.T) {
	m := indexFixture()
	children := m.ChildrenOf("a")
	if len(children) != 1 || children[0].ID != "b" {
		t.Errorf("ChildrenOf(a) = %v, want [b]", children)
	}
	if got := m.ChildrenOf("c"); len(got) != 0 {
		t.Errorf("ChildrenOf(c) = %v, want empty", got)
	}
	if got := m.ChildrenOf("missing"); len(got) != 0 {
		t.Errorf("ChildrenOf(missing) = %v, want empty", got)
	}
}

func TestFindSubgraph(t *testing.T) {
	m := indexFixture()
	if sg := m.FindSubgraph("b"); sg == nil || sg.Label != "Beta" {
		t.Errorf("FindSubgraph(b) = %v, want Beta", sg)
	}
	if sg := m.FindSubgraph("zzz"); sg != nil {
		t.Errorf("FindSubgraph(zzz) = %v, want nil", sg)
	}
}

func TestTransitiveNodeCount(t *testing.T) {
	m := indexFixture()
	if got := m.TransitiveNodeCount("b"); got != 1 {
		t.Errorf("count(b) = %d, want 1", got)
	}
	if got := m.TransitiveNodeCount("a"); got != 3 {
		t.Errorf("count(a) = %d, want 3 (2 direct + 1 nested)", got)
	}
	if got := m.TransitiveNodeCount("c"); got != 3 {
		t.Errorf("count(c) = %d, want 3", got)
	}
	if got := m.TransitiveNodeCount("missing"); got != 0 {
		t.Errorf("count(missing) = %d, want 0", got)
	}
}
