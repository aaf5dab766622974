package daemon

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rcpdaemon.log")
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing log fixture: %v", err)
	}
	return path
}

func TestTailLastLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		n     int
		want  string
	}{
		{
			name:  "fewer lines than requested",
			lines: []string{"one", "two"},
			n:     10,
			want:  "one\ntwo\n",
		},
		{
			name:  "more lines than requested",
			lines: []string{"one", "two", "three", "four"},
			n:     2,
			want:  "three\nfour\n",
		},
		{
			name:  "exact count",
			lines: []string{"one", "two", "three"},
			n:     3,
			want:  "one\ntwo\nthree\n",
		},
		{
			name: "empty file",
			n:    10,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeLog(t, tt.lines...)
			var buf bytes.Buffer

			if err := Tail(context.Background(), path, tt.n, false, &buf); err != nil {
				t.Fatalf("Tail() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Tail() output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestTailMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.log")
	var buf bytes.Buffer

	if err := Tail(context.Background(), path, 10, false, &buf); err == nil {
		t.Fatal("Tail() expected error for missing file")
	}
}

type syncWriter struct {
	mu  chan struct{}
	buf bytes.Buffer
}

func newSyncWriter() *syncWriter {
	w := &syncWriter{mu: make(chan struct{}, 1)}
	w.mu <- struct{}{}
	return w
}

func (w *syncWriter) Write(p []byte) (int, error) {
	<-w.mu
	defer func() { w.mu <- struct{}{} }()
	return w.buf.Write(p)
}

func (w *syncWriter) String() string {
	<-w.mu
	defer func() { w.mu <- struct{}{} }()
	return w.buf.String()
}

func TestTailFollowStreamsAppends(t *testing.T) {
	path := writeLog(t, "first")
	out := newSyncWriter()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Tail(ctx, path, 10, true, out)
	}()

	// let the watcher attach before appending
	time.Sleep(200 * time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("reopening log: %v", err)
	}
	if _, err := f.WriteString("second\n"); err != nil {
		t.Fatalf("appending: %v", err)
	}
	_ = f.Close()

	deadline := time.After(5 * time.Second)
	for {
		if strings.Contains(out.String(), "second") {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("appended line never streamed, output: %q", out.String())
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Tail() error after cancel = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Tail() did not return after cancellation")
	}

	if !strings.HasPrefix(out.String(), "first\n") {
		t.Errorf("existing content missing from output: %q", out.String())
	}
}

func TestLogPath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	if got := LogPath(); got != filepath.Join("/run/user/1000", "rcpdaemon.log") {
		t.Errorf("LogPath() = %q with XDG_RUNTIME_DIR set", got)
	}

	t.Setenv("XDG_RUNTIME_DIR", "")
	if got := LogPath(); got != filepath.Join(os.TempDir(), "rcpdaemon.log") {
		t.Errorf("LogPath() = %q without XDG_RUNTIME_DIR", got)
	}
}
