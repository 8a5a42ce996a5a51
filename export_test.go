package remedy

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestExportRoundTrip(t *testing.T) {
	src := newTestClient(t)
	defer src.Close()

	p := testPattern("pat-1")
	p.SuccessCount = 4
	p.FailureCount = 1
	if err := src.SavePattern(p); err != nil {
		t.Fatalf("SavePattern: %v", err)
	}
	if _, err := src.TrackIssue("disk pressure", "production"); err != nil {
		t.Fatalf("TrackIssue: %v", err)
	}

	var buf bytes.Buffer
	if err := src.Export(context.Background(), &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	var out ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("export not valid JSON: %v", err)
	}
	if out.Version != ExportVersion {
		t.Errorf("Version = %q, want %q", out.Version, ExportVersion)
	}
	if len(out.Patterns) != 1 || out.Patterns[0].ID != "pat-1" {
		t.Fatalf("Patterns = %+v", out.Patterns)
	}
	if len(out.Issues) != 1 || out.Issues[0].Signature != "disk pressure" {
		t.Fatalf("Issues = %+v", out.Issues)
	}

	// Import into an empty store recreates everything.
	dst := newTestClient(t)
	defer dst.Close()

	result, err := dst.Import(context.Background(), &buf, MergeStrategyMerge, false)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Created != 1 || result.Issues != 1 {
		t.Errorf("result = %+v", result)
	}

	got, err := dst.LoadPattern("pat-1")
	if err != nil {
		t.Fatalf("LoadPattern after import: %v", err)
	}
	if got.SuccessCount != 4 || got.FailureCount != 1 {
		t.Errorf("imported counters = %d/%d, want 4/1", got.SuccessCount, got.FailureCount)
	}
}

func TestExportEmptyStore(t *testing.T) {
	c := newTestClient(t)
	defer c.Close()

	var buf bytes.Buffer
	if err := c.Export(context.Background(), &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	var out ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("export not valid JSON: %v", err)
	}
	if len(out.Patterns) != 0 {
		t.Errorf("Patterns = %+v, want empty", out.Patterns)
	}
}

func TestExportCancelledContext(t *testing.T) {
	c := newTestClient(t)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := c.Export(ctx, &buf); err == nil {
		t.Error("expected context error")
	}
}

func TestMergeStrategyIsValid(t *testing.T) {
	for _, s := range []MergeStrategy{MergeStrategySkip, MergeStrategyReplace, MergeStrategyMerge} {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if MergeStrategy("union").IsValid() {
		t.Error("unknown strategy reported valid")
	}
}

// exportDoc builds an export document for import tests.
func exportDoc(t *testing.T, patterns ...ResolutionPattern) *strings.Reader {
	t.Helper()
	doc := ExportFormat{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Patterns:   patterns,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal export doc: %v", err)
	}
	return strings.NewReader(string(data))
}
