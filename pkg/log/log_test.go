// Copyright 2018 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type testWriter struct {
	lines []string
	fail  bool
}

func (w *testWriter) Write(bytes []byte) (int, error) {
	if w.fail {
		return 0, fmt.Errorf("simulated failure")
	}
	w.lines = append(w.lines, string(bytes))
	return len(bytes), nil
}

func TestDropMessages(t *testing.T) {
	tw := &testWriter{}
	w := Writer{Next: tw}
	if _, err := w.Write([]byte("line 1\n")); err != nil {
		t.Fatalf("Write failed, err: %v", err)
	}

	tw.fail = true
	if _, err := w.Write([]byte("error\n")); err == nil {
		t.Fatalf("Write should have failed")
	}
	if _, err := w.Write([]byte("error\n")); err == nil {
		t.Fatalf("Write should have failed")
	}

	tw.fail = false
	if _, err := w.Write([]byte("line 2\n")); err != nil {
		t.Fatalf("Write failed, err: %v", err)
	}

	expected := []string{
		"line 1\n",
		"line 2\n",
		"\n*** Dropped 2 log messages ***\n",
	}
	if diff := cmp.Diff(expected, tw.lines); diff != "" {
		t.Errorf("Writer output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriterAddsNewline(t *testing.T) {
	tw := &testWriter{}
	w := Writer{Next: tw}
	w.Emit(0, Info, time.Now(), "value=%d", 7)
	if diff := cmp.Diff([]string{"value=7", "\n"}, tw.lines); diff != "" {
		t.Errorf("Writer output mismatch (-want +got):\n%s", diff)
	}
}

func TestGoogleEmitter(t *testing.T) {
	tw := &testWriter{}
	e := GoogleEmitter{&Writer{Next: tw}}
	ts := time.Date(2026, time.May, 4, 13, 2, 9, 123456789, time.Local)
	e.Emit(0, Warning, ts, "removed %q", "abc")

	if len(tw.lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(tw.lines), tw.lines)
	}
	re := regexp.MustCompile(`^W0504 13:02:09\.123456 +\d+ log_test\.go:\d+\] removed "abc"\n$`)
	if !re.MatchString(tw.lines[0]) {
		t.Errorf("line %q does not match %v", tw.lines[0], re)
	}
}

func TestBasicLoggerLevels(t *testing.T) {
	tw := &testWriter{}
	l := &BasicLogger{Level: Info, Emitter: &Writer{Next: tw}}
	l.Debugf("debug")
	l.Infof("info")
	l.Warningf("warning")
	if got := strings.Join(tw.lines, ""); got != "info\nwarning\n" {
		t.Errorf("output = %q, want info and warning only", got)
	}

	l.SetLevel(Debug)
	if !l.IsLogging(Debug) {
		t.Errorf("IsLogging(Debug) = false after SetLevel(Debug)")
	}
	l.Debugf("debug")
	if got := tw.lines[len(tw.lines)-2]; got != "debug" {
		t.Errorf("last message = %q, want debug", got)
	}
}

func TestMultiEmitter(t *testing.T) {
	a, b := &testWriter{}, &testWriter{}
	m := MultiEmitter{&Writer{Next: a}, &Writer{Next: b}}
	m.Emit(0, Info, time.Now(), "hello\n")
	if diff := cmp.Diff(a.lines, b.lines); diff != "" || len(a.lines) != 1 {
		t.Errorf("emitters got different output: %q vs %q", a.lines, b.lines)
	}
}

func TestRateLimitedLogger(t *testing.T) {
	tw := &testWriter{}
	l := RateLimitedLogger(&BasicLogger{Level: Debug, Emitter: &Writer{Next: tw}}, time.Hour)
	l.Warningf("first")
	l.Warningf("second")
	l.Warningf("third")
	if got := strings.Join(tw.lines, ""); got != "first\n" {
		t.Errorf("output = %q, want only the first message", got)
	}
	if !l.IsLogging(Debug) {
		t.Errorf("IsLogging(Debug) = false, want true")
	}
}

func TestNewEmitter(t *testing.T) {
	for _, format := range []string{"", "text", "json"} {
		if _, err := NewEmitter(format, &testWriter{}); err != nil {
			t.Errorf("NewEmitter(%q) failed: %v", format, err)
		}
	}
	if _, err := NewEmitter("xml", &testWriter{}); err == nil {
		t.Errorf("NewEmitter(xml) succeeded")
	}
}
