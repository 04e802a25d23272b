package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "zero", maxLines: 0, expected: nil},
		{name: "negative", maxLines: -1, expected: nil},
		{name: "partial", maxLines: 5, expected: expectedAll[5:]},
		{name: "exactly all", maxLines: 10, expected: expectedAll},
		{name: "more than exists", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if diff := cmp.Diff(tt.expected, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Read() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || lines != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", lines, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Entry
	}{
		{
			name: "iso timestamp",
			line: `{"level":"warn","ts":"2024-06-01T12:00:00.000Z","logger":"sluggish.network","msg":"fetch failed","trigger":3,"error":"boom"}`,
			want: Entry{
				Time:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
				Level:  "WARN",
				Logger: "sluggish.network",
				Msg:    "fetch failed",
				Fields: []Field{{Key: "error", Value: "boom"}, {Key: "trigger", Value: "3"}},
			},
		},
		{
			name: "epoch timestamp",
			line: `{"level":"info","ts":1717243200,"msg":"started"}`,
			want: Entry{Time: time.Unix(1717243200, 0), Level: "INFO", Msg: "started"},
		},
		{
			name: "plain text",
			line: "panic: something",
			want: Entry{Msg: "panic: something"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)
			tt.want.Raw = tt.line
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApproxTime(time.Millisecond)); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEntryString(t *testing.T) {
	e := Entry{Level: "INFO", Logger: "sluggish.demo", Msg: "panel mounted", Fields: []Field{{Key: "panel", Value: "events"}}}
	if got, want := e.String(), "INFO  sluggish.demo panel mounted panel=events"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if got := (Entry{Msg: "raw line"}).String(); got != "raw line" {
		t.Fatalf("String() = %q, want raw line", got)
	}
}

func TestTail_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sluggish.log")
	body := `{"level":"info","msg":"one"}` + "\n\n" + `{"level":"debug","msg":"two"}` + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	entries, err := Tail(path, 10)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(entries) != 2 || entries[0].Msg != "one" || entries[1].Level != "DEBUG" {
		t.Fatalf("Tail() = %+v", entries)
	}
}
