// ABOUTME: Extraction of fenced code blocks from model responses.
// ABOUTME: Prefers mermaid-tagged fences, falls back to the first fence of any language.

package ai

import "strings"

// ExtractFence pulls the body of the first fenced code block out of markdown
// text. A block tagged mermaid wins over earlier untagged blocks. Reports
// false when the text contains no complete fence.
func ExtractFence(text string) (string, bool) {
	if body, ok := fenceBody(text, "```mermaid"); ok {
		return body, true
	}
	return fenceBody(text, "```")
}

func fenceBody(text, opener string) (string, bool) {
	start := strings.Index(text, opener)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(opener):]

	// Skip the remainder of the opening line (language tag, trailing spaces).
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return "", false
	}
	rest = rest[nl+1:]

	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimRight(rest[:end], "\n"), true
}
