// ABOUTME: Lexical line classifier for flowchart source: headers, comments, subgraph markers.
// ABOUTME: Pure per-line functions with no parser state; disambiguation of node/edge lines happens in extract.go.
package flowchart

import (
	"regexp"
	"strings"
)

// LineKind tags one line of flowchart source by its structural role.
type LineKind int

const (
	// LineOther is a candidate node-definition or edge line, or arbitrary
	// pass-through text.
	LineOther LineKind = iota
	// LineHeader is a graph/flowchart direction declaration.
	LineHeader
	// LineComment is a %% comment line, passed through verbatim.
	LineComment
	// LineSubgraphOpen is a subgraph declaration.
	LineSubgraphOpen
	// LineSubgraphClose is a bare end keyword.
	LineSubgraphClose
)

// DefaultDirection is used when the source has no recognized header.
const DefaultDirection = "TD"

const commentMarker = "%%"

var (
	headerRe = regexp.MustCompile(`(?i)^(graph|flowchart)\s+(TD|TB|BT|LR|RL|DT)\b`)

	// Identifier form first: `subgraph id` with an optional bracketed label.
	// The quoted form `subgraph "Some Label"` is only tried when the
	// identifier form does not match.
	subgraphIdentRe  = regexp.MustCompile(`^subgraph\s+([\w-]+)\s*(?:\[(.+)\])?\s*$`)
	subgraphQuotedRe = regexp.MustCompile(`^subgraph\s+"([^"]*)"\s*$`)

	nonAlphanumRe = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// ClassifyLine returns the structural kind of a single source line. The check
// is anchored to the line's trimmed start and is case-insensitive for the
// header form.
func ClassifyLine(line string) LineKind {
	t := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(t, commentMarker):
		return LineComment
	case headerRe.MatchString(t):
		return LineHeader
	case subgraphIdentRe.MatchString(t) || subgraphQuotedRe.MatchString(t):
		return LineSubgraphOpen
	case strings.EqualFold(t, "end"):
		return LineSubgraphClose
	default:
		return LineOther
	}
}

// headerDirection extracts the direction token from a header line. Reports
// false when the line is not a recognized header.
func headerDirection(line string) (string, bool) {
	m := headerRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[2]), true
}

// parseSubgraphOpen extracts the identifier and display label from a
// subgraph-open line. For the identifier form the label defaults to the id
// when no bracketed label is present; surrounding double quotes inside the
// brackets are stripped. For the quoted form the id is derived by sanitizing
// the label. Reports false when the line is not a subgraph declaration.
func parseSubgraphOpen(line string) (id, label string, ok bool) {
	t := strings.TrimSpace(line)

	if m := subgraphIdentRe.FindStringSubmatch(t); m != nil {
		id = m[1]
		label = strings.TrimSpace(m[2])
		label = strings.Trim(label, `"`)
		if label == "" {
			label = id
		}
		return id, label, true
	}

	if m := subgraphQuotedRe.FindStringSubmatch(t); m != nil {
		label = m[1]
		return sanitizeID(label), label, true
	}

	return "", "", false
}

// sanitizeID derives an identifier from a display label by replacing every
// non-alphanumeric character with an underscore and lowercasing. Independently
// sanitized labels can collide; no de-duplication is applied.
func sanitizeID(label string) string {
	return strings.ToLower(nonAlphanumRe.ReplaceAllString(label, "_"))
}
