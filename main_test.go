package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shopintent/pipeline"
)

func writeSessions(t *testing.T, rows []string) string {
	t.Helper()
	header := strings.Join(append(pipeline.FeatureNames(), pipeline.LabelName()), ",")
	path := filepath.Join(t.TempDir(), "shopping.csv")
	body := header + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func separableRows(n int) []string {
	rows := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			rows = append(rows, fmt.Sprintf("%d,0,0,0,3,10.5,0,0.01,150.5,0,Dec,2,2,1,2,Returning_Visitor,TRUE,TRUE", i%3))
		} else {
			rows = append(rows, fmt.Sprintf("%d,0,0,0,1,0,0.2,0.2,0,0,Feb,1,1,1,1,New_Visitor,FALSE,FALSE", i%3))
		}
	}
	return rows
}

func TestRunArgumentCount(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: nil},
		{name: "two arguments", args: []string{"a.csv", "b.csv"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != 1 {
				t.Fatalf("expected exit code 1, got %d", code)
			}
			if !strings.HasPrefix(stderr.String(), "Usage:") {
				t.Errorf("expected usage message, got %q", stderr.String())
			}
			if stdout.Len() != 0 {
				t.Errorf("expected no report, got %q", stdout.String())
			}
		})
	}
}

func TestRunSucceeds(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{writeSessions(t, separableRows(30))}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr %q)", code, stderr.String())
	}

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	prefixes := []string{"Correct: ", "Incorrect: ", "True Positive Rate: ", "True Negative Rate: "}
	if len(lines) != len(prefixes) {
		t.Fatalf("expected %d report lines, got %q", len(prefixes), stdout.String())
	}
	for i, prefix := range prefixes {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d: expected prefix %q, got %q", i, prefix, lines[i])
		}
	}
	if !strings.HasSuffix(lines[2], "%") || !strings.HasSuffix(lines[3], "%") {
		t.Errorf("expected percentage rates, got %q", stdout.String())
	}
}

func TestRunFailsOnUnknownMonth(t *testing.T) {
	rows := []string{"0,0,0,0,1,0,0.2,0.2,0,0,Jun,1,1,1,1,Returning_Visitor,FALSE,FALSE"}
	var stdout, stderr bytes.Buffer
	if code := run([]string{writeSessions(t, rows)}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("expected no report, got %q", stdout.String())
	}
}

func TestRunFailsOnMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{filepath.Join(t.TempDir(), "missing.csv")}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}
