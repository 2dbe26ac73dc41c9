package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	flsperrors "github.com/flowr-analysis/flowr-lsp/src/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const _waitTimeout = 5 * time.Second

type watchRun struct {
	cancel   context.CancelFunc
	analyzed chan string
	done     chan error
}

// startWatch runs runScript in watch mode on path. analyze results are taken from results
// in order, nil once they run out.
func startWatch(t *testing.T, path string, results ...error) *watchRun {
	c := newCLI(nil, nil)
	c.logger = zap.NewNop().Sugar()

	ctx, cancel := context.WithCancel(context.Background())
	w := &watchRun{
		cancel:   cancel,
		analyzed: make(chan string, 16),
		done:     make(chan error, 1),
	}
	go func() {
		w.done <- c.runScript(ctx, path, true, func(_ context.Context, content string) error {
			w.analyzed <- content
			if len(results) == 0 {
				return nil
			}
			err := results[0]
			results = results[1:]
			return err
		})
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-w.done:
		case <-time.After(_waitTimeout):
			t.Error("watch did not stop")
		}
	})
	return w
}

// rewriteUntilAnalyzed writes content to path until the watcher picks it up.
// The first writes may land before the watcher is registered.
func (w *watchRun) rewriteUntilAnalyzed(t *testing.T, path, content string) string {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(_waitTimeout)
	for {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		select {
		case got := <-w.analyzed:
			return got
		case <-ticker.C:
		case <-deadline:
			t.Fatalf("%s was not analyzed again", path)
		}
	}
}

func TestRunScriptOnce(t *testing.T) {
	c := newCLI(nil, nil)
	path := writeScript(t)

	var calls []string
	err := c.runScript(context.Background(), path, false, func(_ context.Context, content string) error {
		calls = append(calls, content)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{_sampleScript}, calls)
}

func TestRunScriptOnceError(t *testing.T) {
	c := newCLI(nil, nil)
	err := c.runScript(context.Background(), writeScript(t), true, func(context.Context, string) error {
		return errors.New("parse error")
	})
	assert.ErrorContains(t, err, "parse error")
}

func TestRunScriptWatch(t *testing.T) {
	path := writeScript(t)
	w := startWatch(t, path)
	assert.Equal(t, _sampleScript, <-w.analyzed)

	changed := _sampleScript + "print(x + 1)\n"
	assert.Equal(t, changed, w.rewriteUntilAnalyzed(t, path, changed))

	w.cancel()
	select {
	case err := <-w.done:
		assert.NoError(t, err)
	case <-time.After(_waitTimeout):
		t.Fatal("watch did not stop")
	}
	w.done <- nil
}

func TestRunScriptWatchSkipsFormattingChanges(t *testing.T) {
	path := writeScript(t)
	w := startWatch(t, path)
	require.Equal(t, _sampleScript, <-w.analyzed)

	// Only whitespace and comments differ, the fingerprint stays the same.
	reformatted := "# analysis\nlibrary(dplyr)\nx<-1\n\nprint( x )\n"
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(reformatted), 0o644))
		time.Sleep(2 * _debounceTimeout)
	}
	select {
	case got := <-w.analyzed:
		t.Fatalf("unexpected analysis of %q", got)
	default:
	}

	changed := "library(dplyr)\nx <- 2\nprint(x)\n"
	assert.Equal(t, changed, w.rewriteUntilAnalyzed(t, path, changed))
}

func TestRunScriptWatchQueryErrorKeepsWatching(t *testing.T) {
	path := writeScript(t)
	w := startWatch(t, path, nil, &flsperrors.RemoteQueryError{RequestID: "query-1", Reason: "unexpected token"})
	require.Equal(t, _sampleScript, <-w.analyzed)

	broken := _sampleScript + "print(\n"
	assert.Equal(t, broken, w.rewriteUntilAnalyzed(t, path, broken))

	fixed := _sampleScript + "print(x)\n"
	assert.Equal(t, fixed, w.rewriteUntilAnalyzed(t, path, fixed))
}

func TestRunScriptWatchSessionErrorStops(t *testing.T) {
	path := writeScript(t)
	w := startWatch(t, path, nil, fmt.Errorf("slice: %w", flsperrors.SessionClosedError))
	require.Equal(t, _sampleScript, <-w.analyzed)

	w.rewriteUntilAnalyzed(t, path, _sampleScript+"y <- x\n")
	select {
	case err := <-w.done:
		assert.ErrorIs(t, err, flsperrors.SessionClosedError)
	case <-time.After(_waitTimeout):
		t.Fatal("watch kept running after the session closed")
	}
	w.done <- nil
}
