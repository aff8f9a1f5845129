package klog

import (
	"bytes"
	"strings"
	"testing"
)

func TestSeverityFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Warn)

	log.Infof("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("Infof below the Warn threshold wrote: %q", buf.String())
	}

	log.Errorf("boom %d", 42)
	if !strings.Contains(buf.String(), "boom 42") {
		t.Fatalf("Errorf output = %q, want it to contain %q", buf.String(), "boom 42")
	}
}

func TestLinesArePrefixed(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Debug)
	log.Debugf("hello")
	log.Infof("world")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "DEBUG") || !strings.Contains(lines[0], "hello") {
		t.Errorf("line 1 = %q, want DEBUG/hello", lines[0])
	}
	if !strings.Contains(lines[1], "INFO") || !strings.Contains(lines[1], "world") {
		t.Errorf("line 2 = %q, want INFO/world", lines[1])
	}
}
