package log_tailer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func recvLine(t *testing.T, ch <-chan string, within time.Duration) string {
	t.Helper()
	select {
	case line, ok := <-ch:
		if !ok {
			t.Fatal("lines channel closed early")
		}
		return line
	case <-time.After(within):
		t.Fatal("timed out waiting for line")
	}
	return ""
}

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	assert.NoError(t, err)
	_, err = f.WriteString(line + "\n")
	assert.NoError(t, err)
	assert.NoError(t, f.Close())
}

func startTailer(t *testing.T, tailer *Tailer) (context.CancelFunc, chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- tailer.Run(ctx)
	}()
	return cancel, done
}

func TestTailer_SkipsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access.log")
	appendLine(t, path, "pre-existing")

	tailer := New(path, WithPollInterval(10*time.Millisecond), WithWaitInterval(10*time.Millisecond))
	cancel, done := startTailer(t, tailer)
	defer cancel()

	time.Sleep(100 * time.Millisecond)
	appendLine(t, path, "appended-1")
	appendLine(t, path, "appended-2")

	assert.Equal(t, "appended-1", recvLine(t, tailer.Lines(), 5*time.Second))
	assert.Equal(t, "appended-2", recvLine(t, tailer.Lines(), 5*time.Second))

	cancel()
	assert.NoError(t, <-done)
}

func TestTailer_FromStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access.log")
	appendLine(t, path, "first")
	appendLine(t, path, "second")

	tailer := New(path, WithFromStart(true), WithPollInterval(10*time.Millisecond))
	cancel, done := startTailer(t, tailer)
	defer cancel()

	assert.Equal(t, "first", recvLine(t, tailer.Lines(), 5*time.Second))
	assert.Equal(t, "second", recvLine(t, tailer.Lines(), 5*time.Second))

	cancel()
	assert.NoError(t, <-done)
}

func TestTailer_WaitsForFileCreation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access.log")

	tailer := New(path, WithPollInterval(10*time.Millisecond), WithWaitInterval(10*time.Millisecond))
	cancel, done := startTailer(t, tailer)
	defer cancel()

	time.Sleep(50 * time.Millisecond)
	f, err := os.Create(path)
	assert.NoError(t, err)
	assert.NoError(t, f.Close())

	time.Sleep(100 * time.Millisecond)
	appendLine(t, path, "created-later")

	assert.Equal(t, "created-later", recvLine(t, tailer.Lines(), 5*time.Second))

	cancel()
	assert.NoError(t, <-done)
}

func TestTailer_TruncateRestartsFromTop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access.log")

	tailer := New(path, WithPollInterval(10*time.Millisecond), WithWaitInterval(10*time.Millisecond))
	cancel, done := startTailer(t, tailer)
	defer cancel()

	time.Sleep(100 * time.Millisecond)
	appendLine(t, path, "a much longer line before the rotation happens")
	assert.Equal(t, "a much longer line before the rotation happens", recvLine(t, tailer.Lines(), 5*time.Second))

	assert.NoError(t, os.Truncate(path, 0))
	appendLine(t, path, "b")

	assert.Equal(t, "b", recvLine(t, tailer.Lines(), 5*time.Second))

	cancel()
	assert.NoError(t, <-done)
}

func TestTailer_RotationReopensNewFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "access.log")

	tailer := New(path, WithPollInterval(10*time.Millisecond), WithWaitInterval(10*time.Millisecond))
	cancel, done := startTailer(t, tailer)
	defer cancel()

	time.Sleep(100 * time.Millisecond)
	appendLine(t, path, "old-generation")
	assert.Equal(t, "old-generation", recvLine(t, tailer.Lines(), 5*time.Second))

	assert.NoError(t, os.Rename(path, filepath.Join(dir, "access.log.1")))
	appendLine(t, path, "new-generation")

	assert.Equal(t, "new-generation", recvLine(t, tailer.Lines(), 5*time.Second))

	cancel()
	assert.NoError(t, <-done)
}

func TestTailer_CancelBeforeFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never.log")

	tailer := New(path, WithWaitInterval(10*time.Millisecond))
	cancel, done := startTailer(t, tailer)

	time.Sleep(30 * time.Millisecond)
	cancel()

	assert.NoError(t, <-done)

	_, open := <-tailer.Lines()
	assert.False(t, open)
}
