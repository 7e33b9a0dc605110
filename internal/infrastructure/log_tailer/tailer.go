package log_tailer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/infrastructure/log"
	"github.com/pkg/errors"
)

type Options struct {
	PollInterval time.Duration // idle wait between reads at end of file
	WaitInterval time.Duration // wait between existence checks before the file appears
	FromStart    bool          // emit pre-existing content instead of skipping to the end
}

type Option func(*Options)

func WithPollInterval(d time.Duration) Option {
	return func(o *Options) { o.PollInterval = d }
}

func WithWaitInterval(d time.Duration) Option {
	return func(o *Options) { o.WaitInterval = d }
}

func WithFromStart(v bool) Option {
	return func(o *Options) { o.FromStart = v }
}

func defaultOptions() Options {
	return Options{
		PollInterval: constants.TailDefaultPollInterval,
		WaitInterval: constants.TailDefaultWaitInterval,
	}
}

// Tailer follows a single file and emits complete lines over a channel.
// It waits for the file to appear, skips content present before the watch
// started, and reopens the file after truncation or replacement.
type Tailer struct {
	path   string
	conf   Options
	lines  chan string
	logger *log.Logger
}

func New(path string, opts ...Option) *Tailer {
	conf := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&conf)
		}
	}
	return &Tailer{
		path:   path,
		conf:   conf,
		lines:  make(chan string),
		logger: log.MustNewECSLogger().Named("log_tailer"),
	}
}

// Lines returns the stream of complete lines. The channel is closed when
// Run returns.
func (t *Tailer) Lines() <-chan string {
	return t.lines
}

// Run tails the file until ctx is cancelled. Cancellation is a clean stop
// (nil); unexpected I/O failures are returned as errors.
func (t *Tailer) Run(ctx context.Context) error {
	defer close(t.lines)

	t.logger.Info(fmt.Sprintf("Starting to tail log file: %s", t.path))

	if err := t.waitForFile(ctx); err != nil || ctx.Err() != nil {
		return err
	}

	f, err := os.Open(t.path)
	if err != nil {
		return errors.Wrapf(err, "failed to open log file %s", t.path)
	}
	defer func() {
		_ = f.Close()
	}()

	openInfo, err := f.Stat()
	if err != nil {
		return errors.Wrapf(err, "failed to stat log file %s", t.path)
	}

	var offset int64
	if !t.conf.FromStart {
		offset, err = f.Seek(0, io.SeekEnd)
		if err != nil {
			return errors.Wrapf(err, "failed to seek log file %s", t.path)
		}
	}
	t.logger.Info(fmt.Sprintf("Log file found, starting to monitor: %s", t.path))

	buf := make([]byte, 64*1024)
	var carry string

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, readErr := f.Read(buf)
		if n > 0 {
			offset += int64(n)
			carry += string(buf[:n])
			for {
				idx := strings.IndexByte(carry, '\n')
				if idx < 0 {
					break
				}
				line := strings.TrimSuffix(carry[:idx], "\r")
				carry = carry[idx+1:]
				select {
				case t.lines <- line:
				case <-ctx.Done():
					return nil
				}
			}
			continue
		}

		if readErr != nil && readErr != io.EOF {
			return errors.Wrapf(readErr, "failed to read log file %s", t.path)
		}

		// At end of file. Decide between idling, truncation, and rotation.
		pathInfo, statErr := os.Stat(t.path)
		switch {
		case os.IsNotExist(statErr):
			t.logger.Info(fmt.Sprintf("Log file disappeared, waiting for it to return: %s", t.path))
			_ = f.Close()
			if err := t.waitForFile(ctx); err != nil || ctx.Err() != nil {
				return err
			}
			f, openInfo, offset, err = t.reopen()
			if err != nil {
				return err
			}
			carry = ""
		case statErr != nil:
			return errors.Wrapf(statErr, "failed to stat log file %s", t.path)
		case !os.SameFile(openInfo, pathInfo):
			t.logger.Info(fmt.Sprintf("Log file rotated, reopening: %s", t.path))
			_ = f.Close()
			f, openInfo, offset, err = t.reopen()
			if err != nil {
				return err
			}
			carry = ""
		case pathInfo.Size() < offset:
			t.logger.Info(fmt.Sprintf("Log file truncated, restarting from the top: %s", t.path))
			if _, err := f.Seek(0, io.SeekStart); err != nil {
				return errors.Wrapf(err, "failed to seek log file %s", t.path)
			}
			offset = 0
			carry = ""
		default:
			if !sleepCtx(ctx, t.conf.PollInterval) {
				return nil
			}
		}
	}
}

func (t *Tailer) waitForFile(ctx context.Context) error {
	for {
		_, err := os.Stat(t.path)
		if err == nil {
			return nil
		}
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to stat log file %s", t.path)
		}
		t.logger.Info(fmt.Sprintf("Waiting for log file to be created: %s", t.path))
		if !sleepCtx(ctx, t.conf.WaitInterval) {
			return nil
		}
	}
}

// reopen opens the file again from the start after rotation or replacement.
func (t *Tailer) reopen() (*os.File, os.FileInfo, int64, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, nil, 0, errors.Wrapf(err, "failed to reopen log file %s", t.path)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, 0, errors.Wrapf(err, "failed to stat log file %s", t.path)
	}
	return f, info, 0, nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
