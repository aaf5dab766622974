package daemon

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"
)

// LogPath returns where the daemon writes its log file: the user runtime
// directory when the platform has one, /tmp otherwise.
func LogPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "rcpdaemon.log")
	}
	return filepath.Join(os.TempDir(), "rcpdaemon.log")
}

// Tail prints the last n lines of the log file at path. With follow it
// keeps watching the file and streams appended data until ctx is done.
// The watcher goroutine's lifecycle is managed with a stopper context so
// cancellation always releases the fsnotify handle.
func Tail(ctx context.Context, path string, n int, follow bool, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	offset, err := printLastLines(f, n, w)
	if err != nil {
		_ = f.Close()
		return err
	}
	if !follow {
		return f.Close()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		_ = f.Close()
		return err
	}
	// Watch the directory, not the file: log rotation replaces the
	// inode and a file watch would go stale silently.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		_ = f.Close()
		return err
	}

	sctx := stopper.WithContext(ctx)
	sctx.Defer(func() {
		_ = watcher.Close()
		_ = f.Close()
	})

	sctx.Go(func(sctx *stopper.Context) error {
		for !sctx.IsStopping() {
			select {
			case <-sctx.Stopping():
				return nil
			case <-ctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if ev.Name != path {
					continue
				}
				if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
					return nil
				}
				if ev.Op.Has(fsnotify.Write) {
					n, err := copyFrom(f, offset, w)
					if err != nil {
						return err
					}
					offset += n
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					return err
				}
			}
		}
		return nil
	})

	go func() {
		<-ctx.Done()
		sctx.Stop(100 * time.Millisecond)
	}()

	return sctx.Wait()
}

// printLastLines writes the trailing n lines of f to w and returns the
// file size, which is where following resumes from
func printLastLines(f *os.File, n int, w io.Writer) (int64, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return 0, err
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}
	if n >= 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return int64(len(data)), nil
}

// copyFrom streams bytes appended past offset to w
func copyFrom(f *os.File, offset int64, w io.Writer) (int64, error) {
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return 0, err
	}
	return io.Copy(w, f)
}
