// ABOUTME: Node identifier and edge extraction from flowchart content blocks.
// ABOUTME: Handles shaped node declarations, connector tokens, inline edge labels, and reserved keywords.
package flowchart

import (
	"regexp"
	"strings"
)

// reservedWords are structural keywords that never count as node identifiers,
// regardless of where they appear on a line.
var reservedWords = map[string]bool{
	"subgraph":  true,
	"end":       true,
	"graph":     true,
	"flowchart": true,
	"direction": true,
	"style":     true,
	"class":     true,
	"click":     true,
	"linkstyle": true,
}

// connectorAlternation lists recognized connector tokens, longest first so
// that e.g. "-.->" wins over "-.-" and "o--o" over "--o".
const connectorAlternation = `o--o|x--x|<-->|-\.->|-\.-|==>|===|-->|--o|--x|---`

// idPattern matches a node identifier. Hyphens are allowed inside an
// identifier but not at its end, so the dashes of a connector glued to an
// identifier (A-->B) are never consumed by the identifier.
const idPattern = `[A-Za-z0-9_](?:[\w-]*\w)?`

var (
	connectorRe = regexp.MustCompile(connectorAlternation)

	leadingIDRe = regexp.MustCompile(`^(` + idPattern + `)`)

	// One connector followed by an optional |label| and the target identifier.
	edgeTargetRe = regexp.MustCompile(`(` + connectorAlternation + `)\s*(?:\|([^|]*)\|\s*)?(` + idPattern + `)`)

	// Same grammar anchored at the start, for consuming chained segments.
	edgeSegmentRe = regexp.MustCompile(`^(` + connectorAlternation + `)\s*(?:\|([^|]*)\|\s*)?(` + idPattern + `)`)

	// Opening shape token of a node declaration: bracket, parenthesis,
	// brace, or pointer shapes.
	shapeOpenRe = regexp.MustCompile(`^(` + idPattern + `)\s*(\[|\(|\{|>)`)
)

// matching close characters for shape open characters.
var shapeCloser = map[byte]byte{'[': ']', '(': ')', '{': '}', '>': ']'}

// extractNodeIDs returns the distinct node identifiers appearing in a content
// block, in order of first appearance. The block must already have nested
// subgraph text stripped by the caller. Identifiers are collected from shaped
// node declarations and from edge endpoints; reserved structural keywords are
// excluded.
func extractNodeIDs(block string) []string {
	seen := make(map[string]bool)
	order := []string{}

	add := func(id string) {
		if id == "" || reservedWords[strings.ToLower(id)] || seen[id] {
			return
		}
		seen[id] = true
		order = append(order, id)
	}

	for _, raw := range strings.Split(block, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || skipStructuralLine(line) {
			continue
		}

		// Shaped node declaration anchored at line start, e.g. A[Label].
		if id, ok := shapedNodeID(line); ok {
			add(id)
		}

		// Edge statements contribute the source token and every arrow
		// target, including targets behind an inline |label|. The source
		// shape is skipped first so a connector inside its label cannot
		// produce a phantom target.
		if connectorRe.MatchString(line) {
			rest := line
			if m := leadingIDRe.FindStringSubmatch(line); m != nil {
				add(m[1])
				rest = strings.TrimSpace(line[len(m[1]):])
				if end, ok := shapeSpan(rest); ok {
					rest = rest[end:]
				}
			}
			for _, m := range edgeTargetRe.FindAllStringSubmatch(rest, -1) {
				add(m[3])
			}
		}
	}

	return order
}

// extractEdges scans a block line by line and returns one Edge per line
// matching a `source CONNECTOR [|label|] target` pattern. Comments, subgraph
// markers, and header lines are skipped; lines with no recognized connector
// are silently excluded.
func extractEdges(block string) []Edge {
	var edges []Edge

	for _, raw := range strings.Split(block, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || skipStructuralLine(line) {
			continue
		}
		if e, ok := parseEdgeLine(raw); ok {
			edges = append(edges, e)
		}
	}

	return edges
}

// parseEdgeLine parses a single source line as an edge statement. A shape on
// the source token is skipped when locating the connector so a bracket label
// cannot hide or fake a connector. Reports false when the line has no
// recognized connector or no valid endpoints.
func parseEdgeLine(raw string) (Edge, bool) {
	line := strings.TrimSpace(raw)

	src := leadingIDRe.FindStringSubmatch(line)
	if src == nil || reservedWords[strings.ToLower(src[1])] {
		return Edge{}, false
	}

	rest := strings.TrimSpace(line[len(src[1]):])
	if end, ok := shapeSpan(rest); ok {
		rest = rest[end:]
	}

	m := edgeTargetRe.FindStringSubmatch(rest)
	if m == nil {
		return Edge{}, false
	}

	return Edge{
		Source: src[1],
		Target: m[3],
		Label:  strings.TrimSpace(m[2]),
		Style:  m[1],
		Line:   raw,
	}, true
}

// edgeSegment is one connector hop of a chained edge statement.
type edgeSegment struct {
	Style  string
	Label  string
	Target string
}

// parseEdgeChain parses a full edge statement including multi-arrow chains
// like `A --> B -->|yes| C`, returning the source identifier and one segment
// per hop. Shapes on any endpoint are skipped. Reports false when the line is
// not an edge statement.
func parseEdgeChain(raw string) (string, []edgeSegment, bool) {
	line := strings.TrimSpace(raw)

	src := leadingIDRe.FindStringSubmatch(line)
	if src == nil || reservedWords[strings.ToLower(src[1])] {
		return "", nil, false
	}

	rest := strings.TrimSpace(line[len(src[1]):])
	if end, ok := shapeSpan(rest); ok {
		rest = rest[end:]
	}

	var segs []edgeSegment
	for {
		rest = strings.TrimSpace(rest)
		m := edgeSegmentRe.FindStringSubmatch(rest)
		if m == nil {
			break
		}
		segs = append(segs, edgeSegment{
			Style:  m[1],
			Label:  strings.TrimSpace(m[2]),
			Target: m[3],
		})
		rest = strings.TrimSpace(rest[len(m[0]):])
		if end, ok := shapeSpan(rest); ok {
			rest = rest[end:]
		}
	}

	if len(segs) == 0 {
		return "", nil, false
	}
	return src[1], segs, true
}

// shapedNodeID returns the identifier of a node declaration with an explicit
// shape at the start of the line, e.g. `A[Label]`, `B(Label)`, `C{Label}`, or
// `D>Label]`. Labels may contain one level of nested matching brackets.
func shapedNodeID(line string) (string, bool) {
	m := shapeOpenRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	if reservedWords[strings.ToLower(m[1])] {
		return "", false
	}
	// Verify the shape actually closes.
	rest := strings.TrimSpace(line[len(m[1]):])
	if _, ok := shapeSpan(rest); !ok {
		return "", false
	}
	return m[1], true
}

// shapeSpan scans a shape declaration starting at the first byte of s. It
// returns the offset just past the matching close character, tolerating one
// level of nested matching brackets inside the label. Reports false when s
// does not start with a shape open character or the shape never closes.
func shapeSpan(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	open := s[0]
	closer, ok := shapeCloser[open]
	if !ok {
		return 0, false
	}

	depth := 0
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case open:
			if open != '>' {
				depth++
			}
		case closer:
			if depth == 0 {
				return i + 1, true
			}
			depth--
		}
	}
	return 0, false
}

// skipStructuralLine reports whether a line is structural (comment, header,
// subgraph marker) and therefore carries no node or edge content.
func skipStructuralLine(line string) bool {
	switch ClassifyLine(line) {
	case LineComment, LineHeader, LineSubgraphOpen, LineSubgraphClose:
		return true
	}
	return false
}
