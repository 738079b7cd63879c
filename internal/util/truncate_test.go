package util

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateBytesKeepsRuneBoundary(t *testing.T) {
	out, truncated := TruncateBytes("ab→cd", 4)
	if !truncated {
		t.Fatalf("expected truncation")
	}
	if !utf8.ValidString(out) {
		t.Fatalf("cut produced invalid UTF-8: %q", out)
	}
	if out != "ab" {
		t.Fatalf("got %q, want the cut backed up to %q", out, "ab")
	}

	out, truncated = TruncateBytes("short", 10)
	if truncated || out != "short" {
		t.Fatalf("short input must pass through, got %q", out)
	}
}

func TestPreviewLimitsLines(t *testing.T) {
	text := strings.Join([]string{"one", "two", "three", "four"}, "\n")
	out := Preview(text, 2, 0)
	if out != "one\ntwo" {
		t.Fatalf("got %q", out)
	}
	if Preview("", 2, 100) != "" {
		t.Fatalf("empty input must stay empty")
	}
}
