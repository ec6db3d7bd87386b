// ABOUTME: Tests for the flowchart builder: node shapes, edges, subgraph nesting, escaping.
// ABOUTME: Asserts on rendered source text since the builder's contract is its output grammar.
package kube

import (
	"strings"
	"testing"
)

func TestBuilderRenderHeader(t *testing.T) {
	out := NewBuilder(LeftRight).Render()
	if out != "flowchart LR\n" {
		t.Errorf("empty render = %q, want header only", out)
	}
}

func TestBuilderNodeShapes(t *testing.T) {
	out := NewBuilder(TopDown).
		AddNode("a", "Rect", ShapeRect).
		AddNode("b", "Round", ShapeRound).
		AddNode("c", "Stadium", ShapeStadium).
		AddNode("d", "Rhombus", ShapeRhombus).
		Render()

	wants := []string{
		`a["Rect"]`,
		`b("Round")`,
		`c(["Stadium"])`,
		`d{"Rhombus"}`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestBuilderEdgeStyles(t *testing.T) {
	out := NewBuilder(TopDown).
		AddEdge("a", "b", "", EdgeSolid).
		AddEdge("a", "b", "", EdgeDotted).
		AddEdge("a", "b", "", EdgeThick).
		AddEdge("a", "b", "", EdgeLine).
		AddEdge("a", "b", "yes", EdgeSolid).
		Render()

	wants := []string{
		"a --> b",
		"a -.-> b",
		"a ==> b",
		"a --- b",
		"a -->|yes| b",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestBuilderSubgraphNesting(t *testing.T) {
	out := NewBuilder(TopDown).AddSubgraph("outer", "Outer", func(sg *Builder) {
		sg.AddNode("x", "X", ShapeRect)
		sg.AddSubgraph("inner", "Inner", func(n *Builder) {
			n.AddNode("y", "Y", ShapeRect)
		})
	}).Render()

	if !strings.Contains(out, `subgraph outer["Outer"]`) {
		t.Errorf("missing outer subgraph:\n%s", out)
	}
	if !strings.Contains(out, `subgraph inner["Inner"]`) {
		t.Errorf("missing inner subgraph:\n%s", out)
	}
	if got := strings.Count(out, "end"); got != 2 {
		t.Errorf("end count = %d, want 2:\n%s", got, out)
	}
	// Inner block appears before the outer close.
	if strings.Index(out, "inner") > strings.LastIndex(out, "end") {
		t.Errorf("inner subgraph not nested:\n%s", out)
	}
}

func TestEscapeLabel(t *testing.T) {
	if got := EscapeLabel(`say "hi"`); got != "say 'hi'" {
		t.Errorf("EscapeLabel = %q, want single quotes", got)
	}
}
