// ABOUTME: Tests for fenced code block extraction from model responses.
// ABOUTME: Covers mermaid preference, untagged fences, and malformed input.

package ai

import "testing"

func TestExtractFenceMermaidBlock(t *testing.T) {
	text := "Here is the diagram:\n```mermaid\nflowchart TD\nA --> B\n```\nDone."
	body, ok := ExtractFence(text)
	if !ok {
		t.Fatal("expected a fence")
	}
	if body != "flowchart TD\nA --> B" {
		t.Errorf("body = %q", body)
	}
}

func TestExtractFencePrefersMermaidOverEarlierFence(t *testing.T) {
	text := "```text\nnot this\n```\n```mermaid\nflowchart LR\nX --> Y\n```"
	body, ok := ExtractFence(text)
	if !ok {
		t.Fatal("expected a fence")
	}
	if body != "flowchart LR\nX --> Y" {
		t.Errorf("body = %q", body)
	}
}

func TestExtractFenceUntagged(t *testing.T) {
	text := "```\nflowchart TD\nA\n```"
	body, ok := ExtractFence(text)
	if !ok {
		t.Fatal("expected a fence")
	}
	if body != "flowchart TD\nA" {
		t.Errorf("body = %q", body)
	}
}

func TestExtractFenceMissing(t *testing.T) {
	if _, ok := ExtractFence("no fence here"); ok {
		t.Error("expected no fence")
	}
}

func TestExtractFenceUnterminated(t *testing.T) {
	if _, ok := ExtractFence("```mermaid\nflowchart TD\nA --> B"); ok {
		t.Error("expected no fence for unterminated block")
	}
}
