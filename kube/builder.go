// ABOUTME: Fluent builder emitting flowchart diagram text: nodes, edges, and nested subgraphs.
// ABOUTME: Handles shape syntax, connector styles, and label escaping for safe embedding.
package kube

import (
	"fmt"
	"strings"
)

// Direction is a flowchart layout direction token.
type Direction string

const (
	TopDown   Direction = "TD"
	LeftRight Direction = "LR"
	BottomTop Direction = "BT"
	RightLeft Direction = "RL"
)

// Shape selects the node outline used in a declaration.
type Shape int

const (
	ShapeRect Shape = iota
	ShapeRound
	ShapeStadium
	ShapeRhombus
)

// EdgeStyle selects the connector token between two nodes.
type EdgeStyle int

const (
	EdgeSolid EdgeStyle = iota
	EdgeDotted
	EdgeThick
	EdgeLine
)

// Builder accumulates flowchart lines and renders them as diagram source.
type Builder struct {
	direction Direction
	lines     []string
}

// NewBuilder creates a flowchart builder with the given layout direction.
func NewBuilder(dir Direction) *Builder {
	return &Builder{direction: dir}
}

// AddNode appends a node declaration with the given shape.
func (b *Builder) AddNode(id, label string, shape Shape) *Builder {
	b.lines = append(b.lines, "    "+nodeDecl(id, EscapeLabel(label), shape))
	return b
}

// AddEdge appends an edge between two nodes; label may be empty.
func (b *Builder) AddEdge(from, to, label string, style EdgeStyle) *Builder {
	b.lines = append(b.lines, "    "+edgeStmt(from, to, EscapeLabel(label), style))
	return b
}

// AddSubgraph appends a subgraph block populated by fn. Subgraphs nest.
func (b *Builder) AddSubgraph(id, label string, fn func(sg *Builder)) *Builder {
	sg := &Builder{}
	fn(sg)
	b.lines = append(b.lines, fmt.Sprintf("    subgraph %s[\"%s\"]", id, EscapeLabel(label)))
	for _, line := range sg.lines {
		b.lines = append(b.lines, "    "+line)
	}
	b.lines = append(b.lines, "    end")
	return b
}

// Render produces the complete flowchart source.
func (b *Builder) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "flowchart %s\n", b.direction)
	for _, line := range b.lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// EscapeLabel makes a label safe for embedding in a quoted node declaration
// by replacing double quotes with single quotes.
func EscapeLabel(label string) string {
	return strings.ReplaceAll(label, `"`, `'`)
}

func nodeDecl(id, label string, shape Shape) string {
	switch shape {
	case ShapeRound:
		return fmt.Sprintf(`%s("%s")`, id, label)
	case ShapeStadium:
		return fmt.Sprintf(`%s(["%s"])`, id, label)
	case ShapeRhombus:
		return fmt.Sprintf(`%s{"%s"}`, id, label)
	default:
		return fmt.Sprintf(`%s["%s"]`, id, label)
	}
}

func edgeStmt(from, to, label string, style EdgeStyle) string {
	conn := "-->"
	switch style {
	case EdgeDotted:
		conn = "-.->"
	case EdgeThick:
		conn = "==>"
	case EdgeLine:
		conn = "---"
	}
	if label != "" {
		return fmt.Sprintf("%s %s|%s| %s", from, conn, label, to)
	}
	return fmt.Sprintf("%s %s %s", from, conn, to)
}
