// ABOUTME: Collapse rewriter producing reduced diagram source with placeholder nodes for hidden subgraphs.
// ABOUTME: Rewrites boundary-crossing edges onto placeholders, elides internal edges, and drops hidden definitions.
package flowchart

import (
	"fmt"
	"regexp"
	"strings"
)

// styleDirectiveRe matches style/class directive lines and captures the
// target identifier.
var styleDirectiveRe = regexp.MustCompile(`^(?:style|class)\s+(` + idPattern + `)\b`)

// Rewrite returns a new diagram source with every subgraph in collapsed
// replaced by a single placeholder node. Nested content of a collapsed
// subgraph is elided, edges crossing the collapse boundary are redirected to
// the placeholder, and edges fully inside one collapsed region are dropped.
// An empty collapsed set or a non-flowchart source returns the original text
// unchanged. Output is byte-identical for identical inputs.
func (m *Model) Rewrite(collapsed map[string]bool) string {
	if len(collapsed) == 0 || !m.IsFlowchart {
		return m.Source
	}

	hidden := m.hiddenNodeIndex(collapsed)

	var b strings.Builder
	fmt.Fprintf(&b, "flowchart %s\n", m.Direction)

	suppressing := 0
	for _, line := range strings.Split(m.Source, "\n") {
		switch ClassifyLine(line) {
		case LineHeader:
			// Emitted once above.

		case LineSubgraphOpen:
			if suppressing > 0 {
				suppressing++
				continue
			}
			id, label, ok := parseSubgraphOpen(line)
			if !ok {
				continue
			}
			if collapsed[id] && m.collapseRoot(id, collapsed) == id {
				n := m.TransitiveNodeCount(id)
				b.WriteString(placeholderLine(id, label, n))
				suppressing = 1
				continue
			}
			if _, inside := hidden[id]; inside {
				// Covered by a collapsed ancestor; no separate placeholder.
				continue
			}
			b.WriteString(line)
			b.WriteByte('\n')

		case LineSubgraphClose:
			if suppressing > 0 {
				suppressing--
				continue
			}
			b.WriteString(line)
			b.WriteByte('\n')

		default:
			if suppressing > 0 {
				continue
			}
			b.WriteString(rewriteContentLine(line, hidden))
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// rewriteContentLine rewrites one non-structural line against the hidden node
// index, returning the text to emit including a trailing newline, or the
// empty string when the line is dropped.
func rewriteContentLine(line string, hidden map[string]string) string {
	trimmed := strings.TrimSpace(line)

	// Edge statements: substitute hidden endpoints with their collapse
	// root, hop by hop for chained lines. Hops fully internal to one
	// placeholder are dropped; a line with no surviving hops is elided.
	if src, segs, ok := parseEdgeChain(line); ok {
		mapped := func(id string) (string, bool) {
			if root, h := hidden[id]; h {
				return root, true
			}
			return id, false
		}

		anyHidden := false
		if _, h := hidden[src]; h {
			anyHidden = true
		}
		for _, seg := range segs {
			if _, h := hidden[seg.Target]; h {
				anyHidden = true
			}
		}
		if !anyHidden {
			return line + "\n"
		}

		cur, curHidden := mapped(src)
		var chain strings.Builder
		chain.WriteString(cur)
		emitted := false
		for _, seg := range segs {
			next, nextHidden := mapped(seg.Target)
			if curHidden && nextHidden && cur == next {
				continue
			}
			if seg.Label != "" {
				fmt.Fprintf(&chain, " %s|%s| %s", seg.Style, seg.Label, next)
			} else {
				fmt.Fprintf(&chain, " %s %s", seg.Style, next)
			}
			emitted = true
			cur, curHidden = next, nextHidden
		}
		if !emitted {
			return ""
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		return indent + chain.String() + "\n"
	}

	// Node-definition lines for hidden identifiers are dropped; their shape
	// is meaningless once the placeholder replaces them.
	if id, ok := shapedNodeID(trimmed); ok {
		if _, isHidden := hidden[id]; isHidden {
			return ""
		}
	}

	// Style/class directives targeting hidden identifiers are dropped.
	if m := styleDirectiveRe.FindStringSubmatch(trimmed); m != nil {
		if _, isHidden := hidden[m[1]]; isHidden {
			return ""
		}
	}

	return line + "\n"
}

// placeholderLine formats the synthetic node emitted in place of a collapsed
// subgraph. Double quotes in the label are replaced with single quotes so the
// label embeds safely.
func placeholderLine(id, label string, count int) string {
	safe := strings.ReplaceAll(label, `"`, `'`)
	unit := "items"
	if count == 1 {
		unit = "item"
	}
	return fmt.Sprintf("%s[\"▶ %s • %d %s\"]\n", id, safe, count, unit)
}

// hiddenNodeIndex maps every node id and nested-subgraph id inside a
// root-collapsed subgraph to the id of that root. Only subgraphs whose
// outermost collapsed ancestor is themselves contribute mappings; a collapsed
// subgraph nested inside another collapsed region is covered by its
// ancestor's entry. The index is recomputed on every rewrite because the
// collapsed set changes between calls.
func (m *Model) hiddenNodeIndex(collapsed map[string]bool) map[string]string {
	hidden := make(map[string]string)

	for id := range collapsed {
		if m.collapseRoot(id, collapsed) != id {
			continue
		}
		if m.FindSubgraph(id) == nil {
			continue
		}
		m.mapDescendants(id, id, hidden)
	}

	return hidden
}

// mapDescendants records every direct node of sgID and every nested subgraph
// (and its nodes, transitively) as hidden under root.
func (m *Model) mapDescendants(sgID, root string, hidden map[string]string) {
	sg := m.FindSubgraph(sgID)
	if sg == nil {
		return
	}
	for _, nodeID := range sg.NodeIDs {
		hidden[nodeID] = root
	}
	for _, child := range m.ChildrenOf(sgID) {
		hidden[child.ID] = root
		m.mapDescendants(child.ID, root, hidden)
	}
}

// collapseRoot walks the ancestor chain of id and returns the outermost
// ancestor that is also collapsed, which may be id itself.
func (m *Model) collapseRoot(id string, collapsed map[string]bool) string {
	root := id
	cur := m.FindSubgraph(id)
	for cur != nil && cur.ParentID != "" {
		if collapsed[cur.ParentID] {
			root = cur.ParentID
		}
		cur = m.FindSubgraph(cur.ParentID)
	}
	return root
}
