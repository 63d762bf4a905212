package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"dcimsort/internal/pipeline"
	"dcimsort/internal/services"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Run", statusError, "failed", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Run:", "[ERROR] failed")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Run", statusOK, "completed", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
}

func TestRunStatusKind(t *testing.T) {
	tests := map[string]statusKind{
		services.StatusCompleted:   statusOK,
		services.StatusInterrupted: statusWarn,
		services.StatusIncomplete:  statusWarn,
		services.StatusFailed:      statusError,
		"":                         statusInfo,
	}
	for status, want := range tests {
		if got := runStatusKind(status); got != want {
			t.Fatalf("runStatusKind(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestRenderReportGroupsThousands(t *testing.T) {
	out := renderReport(pipeline.Report{Success: 12345, Skipped: 2, Directories: 4})
	for _, want := range []string{"Sorted", "12,345", "Directories"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, nil)
	if !strings.Contains(out, "only") || strings.Count(out, "\n") < 4 {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty render for no headers")
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffer must not be treated as a terminal")
	}
}

func TestLoggedProgressSamples(t *testing.T) {
	p := newProgress(&bytes.Buffer{}, 4, nil)
	lp, ok := p.(*loggedProgress)
	if !ok {
		t.Fatalf("progress = %T, want *loggedProgress", p)
	}
	for i := 0; i < 4; i++ {
		p.Increment()
	}
	p.Finish()
	if lp.done != 4 {
		t.Fatalf("done = %d", lp.done)
	}
	if _, ok := newProgress(&bytes.Buffer{}, 0, nil).(nopProgress); !ok {
		t.Fatal("expected nop progress for empty runs")
	}
}
