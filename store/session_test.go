// ABOUTME: Tests for the in-memory session store: collapse lifecycle, eviction, TTL cleanup.
// ABOUTME: Exercises create, toggle, source replacement, and rendered output.

package store

import (
	"strings"
	"testing"
	"time"
)

const sampleSource = `flowchart TD
subgraph s1[Layer One]
A[a] --> B[b]
end
subgraph s2[Layer Two]
C[c]
end
X[x] --> A`

func newTestStore() *SessionStore {
	return NewSessionStore(10, time.Hour)
}

func TestCreateCollapsesTopLevelByDefault(t *testing.T) {
	s := newTestStore()
	sess := s.Create(sampleSource)

	if sess.ID == "" {
		t.Fatal("session has no id")
	}
	if !sess.Collapsed["s1"] || !sess.Collapsed["s2"] {
		t.Errorf("collapsed = %v, want s1 and s2 collapsed", sess.Collapsed)
	}

	rendered, ok := s.Rendered(sess.ID)
	if !ok {
		t.Fatal("Rendered: session not found")
	}
	if !strings.Contains(rendered, `s1["`) || !strings.Contains(rendered, `s2["`) {
		t.Errorf("rendered missing placeholders:\n%s", rendered)
	}
	if strings.Contains(rendered, "A[a]") {
		t.Errorf("rendered still shows hidden node:\n%s", rendered)
	}
}

func TestToggleExpandsAndCollapses(t *testing.T) {
	s := newTestStore()
	sess := s.Create(sampleSource)

	collapsed, ok := s.Toggle(sess.ID, "s1")
	if !ok {
		t.Fatal("Toggle: session not found")
	}
	if collapsed {
		t.Error("toggling a collapsed subgraph should expand it")
	}

	rendered, _ := s.Rendered(sess.ID)
	if !strings.Contains(rendered, "subgraph s1[Layer One]") {
		t.Errorf("expanded subgraph not verbatim:\n%s", rendered)
	}

	collapsed, _ = s.Toggle(sess.ID, "s1")
	if !collapsed {
		t.Error("second toggle should collapse again")
	}
}

func TestToggleUnknownSessionAndSubgraph(t *testing.T) {
	s := newTestStore()
	if _, ok := s.Toggle("nope", "s1"); ok {
		t.Error("toggle on missing session should report not found")
	}

	sess := s.Create(sampleSource)
	collapsed, ok := s.Toggle(sess.ID, "ghost")
	if !ok || !collapsed {
		t.Errorf("toggle of unknown subgraph = (%v, %v), want (true, true)", collapsed, ok)
	}
	// The rewriter ignores collapsed ids with no matching subgraph.
	rendered, _ := s.Rendered(sess.ID)
	if strings.Contains(rendered, "ghost") {
		t.Errorf("unknown collapsed id leaked into output:\n%s", rendered)
	}
}

func TestSetSourceResetsCollapsed(t *testing.T) {
	s := newTestStore()
	sess := s.Create(sampleSource)
	s.Toggle(sess.ID, "s1") // expand

	updated, ok := s.SetSource(sess.ID, "flowchart LR\nsubgraph fresh[New]\nN[n]\nend")
	if !ok {
		t.Fatal("SetSource: session not found")
	}
	if !updated.Collapsed["fresh"] {
		t.Errorf("collapsed = %v, want fresh collapsed", updated.Collapsed)
	}
	if updated.Collapsed["s1"] {
		t.Error("stale collapse state survived source replacement")
	}
	if updated.Model.Direction != "LR" {
		t.Errorf("direction = %s, want LR", updated.Model.Direction)
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	s := NewSessionStore(2, time.Hour)
	first := s.Create("flowchart TD\nA[a]")
	time.Sleep(2 * time.Millisecond)
	second := s.Create("flowchart TD\nB[b]")
	time.Sleep(2 * time.Millisecond)
	third := s.Create("flowchart TD\nC[c]")

	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
	if _, ok := s.Get(first.ID); ok {
		t.Error("oldest session should have been evicted")
	}
	for _, id := range []string{second.ID, third.ID} {
		if _, ok := s.Get(id); !ok {
			t.Errorf("session %s missing after eviction", id)
		}
	}
}

func TestCleanupRemovesIdleSessions(t *testing.T) {
	s := NewSessionStore(10, 10*time.Millisecond)
	sess := s.Create("flowchart TD\nA[a]")

	time.Sleep(20 * time.Millisecond)
	s.Cleanup()

	if _, ok := s.Get(sess.ID); ok {
		t.Error("idle session survived cleanup")
	}
}

func TestCreateDegradedSource(t *testing.T) {
	s := newTestStore()
	sess := s.Create("just some text\nnot a diagram")
	if len(sess.Collapsed) != 0 {
		t.Errorf("collapsed = %v, want empty for non-flowchart", sess.Collapsed)
	}
	rendered, _ := s.Rendered(sess.ID)
	if rendered != "just some text\nnot a diagram" {
		t.Errorf("non-flowchart source not passed through: %q", rendered)
	}
}
