// ABOUTME: Structural model types for parsed flowchart diagrams: Model, Subgraph, and Edge.
// ABOUTME: Provides read-only index queries over the subgraph forest: top-level, children, transitive counts.
package flowchart

// Subgraph is one named grouping in a flowchart, recorded in declaration order.
// Content holds the raw text strictly between the opening line and the matching
// end marker, with any nested subgraph blocks already stripped out. NodeIDs
// lists the direct child node identifiers only; nodes belonging to nested
// subgraphs are excluded.
type Subgraph struct {
	ID         string
	Label      string
	Content    string
	NodeIDs    []string
	StartIndex int
	EndIndex   int
	Depth      int
	ParentID   string // empty for top-level subgraphs
}

// Edge is one connection statement as written in the source, pre-rewrite.
// Style is the literal connector token (e.g. "-->", "-.->"). Line retains the
// original source line so unmodified edges can pass through losslessly.
type Edge struct {
	Source string
	Target string
	Label  string
	Style  string
	Line   string
}

// Model is the parse result for one diagram source. Subgraphs are ordered by
// StartIndex ascending (declaration order). The model is immutable after
// parsing; all queries are safe for concurrent use.
type Model struct {
	Source      string
	IsFlowchart bool
	Direction   string
	Subgraphs   []*Subgraph
}

// TopLevel returns the subgraphs at nesting depth 0, in declaration order.
func (m *Model) TopLevel() []*Subgraph {
	var result []*Subgraph
	for _, sg := range m.Subgraphs {
		if sg.Depth == 0 {
			result = append(result, sg)
		}
	}
	return result
}

// ChildrenOf returns the subgraphs whose parent is the given id, in
// declaration order.
func (m *Model) ChildrenOf(parentID string) []*Subgraph {
	var result []*Subgraph
	for _, sg := range m.Subgraphs {
		if sg.ParentID == parentID && sg.ParentID != "" {
			result = append(result, sg)
		}
	}
	return result
}

// FindSubgraph returns the first subgraph with the given id, or nil.
// Duplicate declarations produce distinct entries; the earliest wins here.
func (m *Model) FindSubgraph(id string) *Subgraph {
	for _, sg := range m.Subgraphs {
		if sg.ID == id {
			return sg
		}
	}
	return nil
}

// TransitiveNodeCount returns the number of direct nodes in the subgraph plus
// the transitive count of every nested subgraph. An unknown id yields 0.
// Parent links always point at an earlier-opened enclosing frame, so the
// recursion cannot cycle.
func (m *Model) TransitiveNodeCount(id string) int {
	sg := m.FindSubgraph(id)
	if sg == nil {
		return 0
	}
	count := len(sg.NodeIDs)
	for _, child := range m.ChildrenOf(id) {
		count += m.TransitiveNodeCount(child.ID)
	}
	return count
}
