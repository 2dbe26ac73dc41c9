package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	flsperrors "github.com/flowr-analysis/flowr-lsp/src/internal/errors"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/mapper"
	"github.com/fsnotify/fsnotify"
)

const _debounceTimeout = 100 * time.Millisecond

// runScript analyzes path once and, when watching, again after every change
// that alters the script's fingerprint, until ctx is done.
func (c *cli) runScript(ctx context.Context, path string, watch bool, analyze func(ctx context.Context, content string) error) error {
	content, err := readScript(path)
	if err != nil {
		return err
	}
	if err := analyze(ctx, content); err != nil || !watch {
		return err
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()
	// Editors often replace files instead of writing them, so the directory is watched.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	last := mapper.Fingerprint(content)
	debounce := time.NewTimer(_debounceTimeout)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !(event.Has(fsnotify.Create) || event.Has(fsnotify.Write)) {
				continue
			}
			debounce.Reset(_debounceTimeout)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warnf("watching %s: %v", path, err)

		case <-debounce.C:
			content, err := readScript(path)
			if err != nil {
				c.logger.Warn(err)
				continue
			}
			fingerprint := mapper.Fingerprint(content)
			if fingerprint == last {
				c.logger.Debugf("%s changed without affecting the analysis", path)
				continue
			}
			if err := c.rerun(ctx, analyze, content); err != nil {
				return err
			}
			last = fingerprint
		}
	}
}

// rerun reports per-query failures and keeps watching. Session failures end the watch.
func (c *cli) rerun(ctx context.Context, analyze func(ctx context.Context, content string) error, content string) error {
	err := analyze(ctx, content)
	if err == nil || flsperrors.IsSessionTerminal(err) {
		return err
	}
	c.logger.Warnf("analysis failed, waiting for the next change: %v", err)
	return nil
}
