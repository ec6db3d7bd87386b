// ABOUTME: Tests for CLI mode dispatch and the structure-dump path.
// ABOUTME: Exercises run() exit codes with temp diagram files.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDiagram(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diagram.mmd")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write diagram: %v", err)
	}
	return path
}

func TestDumpStructureExitCodes(t *testing.T) {
	path := writeDiagram(t, "flowchart TD\nsubgraph a[Alpha]\nX[x]\nend")

	if code := run(config{diagramFile: path}); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if code := run(config{diagramFile: filepath.Join(t.TempDir(), "missing.mmd")}); code != 1 {
		t.Errorf("exit code for missing file = %d, want 1", code)
	}
}

func TestRunWithoutFileShowsHelp(t *testing.T) {
	if code := run(config{}); code != 0 {
		t.Errorf("bare invocation exit code = %d, want 0", code)
	}
}

func TestServerModeRejectsPublicBindFlag(t *testing.T) {
	for _, key := range []string{"CLUSTERLENS_BIND", "CLUSTERLENS_ALLOW_REMOTE", "CLUSTERLENS_AUTH_TOKEN"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("CLUSTERLENS_HOME", t.TempDir())

	// The env-derived bind is loopback and passes validation; the flag
	// override must not be able to widen it without the remote opt-in.
	if code := run(config{serverMode: true, bind: "0.0.0.0:0"}); code != 1 {
		t.Errorf("exit code for public -bind without remote opt-in = %d, want 1", code)
	}
}

func TestTUIModeMissingFile(t *testing.T) {
	if code := run(config{tuiMode: true, diagramFile: filepath.Join(t.TempDir(), "nope.mmd")}); code != 1 {
		t.Error("missing file in tui mode should exit 1")
	}
}

func TestPrintHelpSections(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "test")
	out := buf.String()

	for _, want := range []string{"clusterlens test", "Usage:", "-server", "-tui", "Environment:"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestEnvStatus(t *testing.T) {
	t.Setenv("CL_TEST_STATUS", "x")
	if envStatus("CL_TEST_STATUS") != "[set]" {
		t.Error("expected [set]")
	}
	os.Unsetenv("CL_TEST_STATUS")
	if envStatus("CL_TEST_STATUS") != "[not set]" {
		t.Error("expected [not set]")
	}
}
