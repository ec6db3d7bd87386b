// ABOUTME: Tests for .env loading: parsing forms, no-clobber behavior, missing files.
// ABOUTME: Uses t.Setenv to keep environment mutations scoped to each test.
package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	return path
}

func TestLoadDotEnvBasic(t *testing.T) {
	t.Setenv("CL_TEST_BASIC", "")
	os.Unsetenv("CL_TEST_BASIC")

	path := writeEnvFile(t, "CL_TEST_BASIC=hello\n")
	loadDotEnv(path)

	if got := os.Getenv("CL_TEST_BASIC"); got != "hello" {
		t.Errorf("CL_TEST_BASIC = %q, want hello", got)
	}
}

func TestLoadDotEnvQuotesAndExport(t *testing.T) {
	for _, key := range []string{"CL_TEST_DQ", "CL_TEST_SQ", "CL_TEST_EXP"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	path := writeEnvFile(t, `
CL_TEST_DQ="double quoted"
CL_TEST_SQ='single quoted'
export CL_TEST_EXP=exported
`)
	loadDotEnv(path)

	if got := os.Getenv("CL_TEST_DQ"); got != "double quoted" {
		t.Errorf("CL_TEST_DQ = %q", got)
	}
	if got := os.Getenv("CL_TEST_SQ"); got != "single quoted" {
		t.Errorf("CL_TEST_SQ = %q", got)
	}
	if got := os.Getenv("CL_TEST_EXP"); got != "exported" {
		t.Errorf("CL_TEST_EXP = %q", got)
	}
}

func TestLoadDotEnvDoesNotClobber(t *testing.T) {
	t.Setenv("CL_TEST_CLOBBER", "original")

	path := writeEnvFile(t, "CL_TEST_CLOBBER=overwritten\n")
	loadDotEnv(path)

	if got := os.Getenv("CL_TEST_CLOBBER"); got != "original" {
		t.Errorf("CL_TEST_CLOBBER = %q, existing value should win", got)
	}
}

func TestLoadDotEnvSkipsCommentsAndBlanks(t *testing.T) {
	t.Setenv("CL_TEST_COMMENT", "")
	os.Unsetenv("CL_TEST_COMMENT")

	path := writeEnvFile(t, "# CL_TEST_COMMENT=nope\n\nnot-a-pair\n")
	loadDotEnv(path)

	if _, exists := os.LookupEnv("CL_TEST_COMMENT"); exists {
		t.Error("commented variable should not be set")
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	// Must not panic or create anything.
	loadDotEnv(filepath.Join(t.TempDir(), "does-not-exist.env"))
}

func TestParseEnvLine(t *testing.T) {
	cases := []struct {
		line      string
		wantKey   string
		wantValue string
		wantOK    bool
	}{
		{"KEY=value", "KEY", "value", true},
		{`KEY="quoted value"`, "KEY", "quoted value", true},
		{"KEY='single'", "KEY", "single", true},
		{"export KEY=exported", "KEY", "exported", true},
		{"KEY=a=b=c", "KEY", "a=b=c", true},
		{`KEY="mismatched'`, "KEY", `"mismatched'`, true},
		{"# comment", "", "", false},
		{"", "", "", false},
		{"no-equals-here", "", "", false},
		{"=no-key", "", "", false},
	}
	for _, tc := range cases {
		key, value, ok := parseEnvLine(tc.line)
		if ok != tc.wantOK || key != tc.wantKey || value != tc.wantValue {
			t.Errorf("parseEnvLine(%q) = %q/%q/%v, want %q/%q/%v",
				tc.line, key, value, ok, tc.wantKey, tc.wantValue, tc.wantOK)
		}
	}
}

func TestLoadDotEnvValueWithEquals(t *testing.T) {
	t.Setenv("CL_TEST_EQ", "")
	os.Unsetenv("CL_TEST_EQ")

	path := writeEnvFile(t, "CL_TEST_EQ=a=b=c\n")
	loadDotEnv(path)

	if got := os.Getenv("CL_TEST_EQ"); got != "a=b=c" {
		t.Errorf("CL_TEST_EQ = %q, want a=b=c", got)
	}
}
