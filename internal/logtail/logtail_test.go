package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
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
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || lines != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", lines, err)
	}
}

func TestParseAndFormat(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		level  string
		fields int
		want   string
	}{
		{
			name:  "plain text",
			input: "panic: something",
			want:  "panic: something",
		},
		{
			name:   "zap json",
			input:  `{"level":"warn","ts":"2025-10-08T21:01:05.000Z","caller":"catalog/rest.go:88","msg":"probe failed","status":429,"id":"zk"}`,
			level:  "WARN",
			fields: 2,
			want:   "WARN probe failed id=zk status=429",
		},
		{
			name:  "broken json",
			input: `{"level":`,
			want:  `{"level":`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Parse(tt.input)
			if e.Level != tt.level {
				t.Errorf("Level = %q, want %q", e.Level, tt.level)
			}
			if len(e.Fields) != tt.fields {
				t.Errorf("Fields = %v, want %d", e.Fields, tt.fields)
			}
			got := Format(e)
			if !strings.HasSuffix(got, tt.want) {
				t.Errorf("Format() = %q, want suffix %q", got, tt.want)
			}
			if tt.level != "" && e.Time.IsZero() {
				t.Errorf("timestamp not parsed from %q", tt.input)
			}
		})
	}
}
