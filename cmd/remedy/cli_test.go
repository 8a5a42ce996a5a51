package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the root command with args and returns combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	// Persistent flag values survive Execute; reset them so tests stay
	// independent.
	t.Cleanup(func() {
		cfgStorePath = ""
		cfgStore = ""
		cfgBackend = ""
		outputJSON = false
	})

	return buf.String(), err
}

func TestCLISaveGetOutcomeFlow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")

	out, err := runCLI(t,
		"save",
		"--store-path", path,
		"--id", "pat-1",
		"--type", "protocol",
		"--signature", "connection timeout error network",
		"--solution", `{"action":"retry","backoff_ms":500}`,
	)
	if err != nil {
		t.Fatalf("save: %v\n%s", err, out)
	}
	if !strings.Contains(out, "pat-1") {
		t.Errorf("save output missing ID: %s", out)
	}

	out, err = runCLI(t, "get", "pat-1", "--store-path", path)
	if err != nil {
		t.Fatalf("get: %v\n%s", err, out)
	}
	if !strings.Contains(out, "connection timeout error network") {
		t.Errorf("get output missing signature: %s", out)
	}

	out, err = runCLI(t,
		"outcome", "pat-1",
		"--store-path", path,
		"--success",
		"--duration", "900ms",
	)
	if err != nil {
		t.Fatalf("outcome: %v\n%s", err, out)
	}

	out, err = runCLI(t, "stats", "--store-path", path)
	if err != nil {
		t.Fatalf("stats: %v\n%s", err, out)
	}
	if !strings.Contains(out, "1") {
		t.Errorf("stats output = %s", out)
	}
}

func TestCLIFindMatchesSimilarSignature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")

	if out, err := runCLI(t,
		"save",
		"--store-path", path,
		"--id", "pat-1",
		"--signature", "connection timeout error network",
		"--solution", `{}`,
	); err != nil {
		t.Fatalf("save: %v\n%s", err, out)
	}

	out, err := runCLI(t,
		"find", "connection", "timeout", "network",
		"--store-path", path,
		"--threshold", "0.4",
	)
	if err != nil {
		t.Fatalf("find: %v\n%s", err, out)
	}
	if !strings.Contains(out, "pat-1") {
		t.Errorf("find output missing match: %s", out)
	}
}

func TestCLISaveRejectsInvalidSolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")

	_, err := runCLI(t,
		"save",
		"--store-path", path,
		"--signature", "something broke",
		"--solution", "{not json",
	)
	if err == nil {
		t.Error("expected error for invalid solution JSON")
	}
}

func TestCLIGetMissingPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")

	if _, err := runCLI(t, "get", "ghost", "--store-path", path); err == nil {
		t.Error("expected error for unknown pattern ID")
	}
}
