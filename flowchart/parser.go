// ABOUTME: Stack-driven single-pass parser building the subgraph forest from flowchart source.
// ABOUTME: Tolerates extra end tokens and silently drops unterminated subgraph frames.
package flowchart

import (
	"sort"
	"strings"
)

// frame is an in-progress subgraph during the structural scan.
type frame struct {
	id           string
	label        string
	startIndex   int
	depth        int
	parentID     string
	contentStart int
}

// Parse builds the structural model for one diagram source. Parsing never
// fails: unrecognized input degrades to IsFlowchart=false with an empty
// subgraph list, extra end tokens are ignored, and frames still open at end
// of input produce no record.
func Parse(source string) *Model {
	m := &Model{
		Source:    source,
		Direction: DefaultDirection,
	}

	lines := strings.Split(source, "\n")
	var stack []*frame
	offset := 0

	for _, line := range lines {
		lineStart := offset
		offset += len(line) + 1 // account for the split newline

		switch ClassifyLine(line) {
		case LineHeader:
			// Only the first header in the document is meaningful.
			if !m.IsFlowchart {
				if dir, ok := headerDirection(line); ok {
					m.Direction = dir
				}
				m.IsFlowchart = true
			}

		case LineSubgraphOpen:
			id, label, ok := parseSubgraphOpen(line)
			if !ok {
				continue
			}
			parentID := ""
			if len(stack) > 0 {
				parentID = stack[len(stack)-1].id
			}
			stack = append(stack, &frame{
				id:           id,
				label:        label,
				startIndex:   lineStart,
				depth:        len(stack),
				parentID:     parentID,
				contentStart: lineStart + len(line) + 1,
			})

		case LineSubgraphClose:
			if len(stack) == 0 {
				continue // stray end token, tolerated
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			content := ""
			if f.contentStart < lineStart {
				content = source[f.contentStart:lineStart]
			}
			residual := stripNestedSubgraphs(content)

			endIndex := lineStart + len(line)
			m.Subgraphs = append(m.Subgraphs, &Subgraph{
				ID:         f.id,
				Label:      f.label,
				Content:    residual,
				NodeIDs:    extractNodeIDs(residual),
				StartIndex: f.startIndex,
				EndIndex:   endIndex,
				Depth:      f.depth,
				ParentID:   f.parentID,
			})
		}
	}

	// Records are appended in close order; deeply nested subgraphs close
	// before their ancestors. Sort by opening position so the collection
	// reflects declaration order.
	sort.SliceStable(m.Subgraphs, func(i, j int) bool {
		return m.Subgraphs[i].StartIndex < m.Subgraphs[j].StartIndex
	})

	return m
}

// stripNestedSubgraphs removes any inner subgraph...end spans from a content
// block, leaving only the lines that belong directly to the enclosing
// subgraph.
func stripNestedSubgraphs(content string) string {
	var kept []string
	depth := 0

	for _, line := range strings.Split(content, "\n") {
		switch ClassifyLine(line) {
		case LineSubgraphOpen:
			depth++
		case LineSubgraphClose:
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				kept = append(kept, line)
			}
		}
	}

	return strings.Join(kept, "\n")
}
