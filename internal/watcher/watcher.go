// Package watcher scans a directory on startup and then watches it for
// new and modified files, submitting an ingest job per file to a worker
// pool. There is no debouncing: the index's own filename-based
// idempotence absorbs duplicate events for the same file.
package watcher

import (
	stderrors "errors"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/gcbaptista/dirsearch/internal/errors"
	"github.com/gcbaptista/dirsearch/internal/index"
	"github.com/gcbaptista/dirsearch/internal/indexstats"
	"github.com/gcbaptista/dirsearch/internal/workerpool"
)

// Coordinator watches one directory and ingests every regular file it
// contains, then keeps ingesting files as they are created or modified.
type Coordinator struct {
	dir     string
	idx     *index.Index
	pool    *workerpool.Pool
	stats   *indexstats.Stats
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New creates a Coordinator for dir. The returned Coordinator has not
// started watching; call Start to perform the initial scan and begin
// watching for subsequent changes.
func New(dir string, idx *index.Index, pool *workerpool.Pool, stats *indexstats.Stats) (*Coordinator, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Coordinator{
		dir:     dir,
		idx:     idx,
		pool:    pool,
		stats:   stats,
		watcher: fsw,
		done:    make(chan struct{}),
	}, nil
}

// Start performs a non-recursive scan of the watched directory,
// submitting one ingest job per regular file found, then begins
// watching the directory for Create and Write events.
func (c *Coordinator) Start() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		c.submitIngest(filepath.Join(c.dir, entry.Name()))
	}

	if err := c.watcher.Add(c.dir); err != nil {
		return err
	}

	go c.eventLoop()

	return nil
}

// Stop signals the event loop to exit and closes the underlying fsnotify
// watcher. It returns without waiting for the event loop to finish.
func (c *Coordinator) Stop() error {
	close(c.done)
	return c.watcher.Close()
}

func (c *Coordinator) eventLoop() {
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				c.submitIngest(event.Name)
			}

		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher: fsnotify error: %v", err)

		case <-c.done:
			return
		}
	}
}

// submitIngest reads filename and hands it to the worker pool as one
// ingest job. A read failure is logged and dropped; it is never
// retried and never reaches the HTTP layer.
func (c *Coordinator) submitIngest(filename string) {
	c.pool.Submit(func() {
		info, err := os.Stat(filename)
		if err != nil || !info.Mode().IsRegular() {
			return
		}

		content, err := os.ReadFile(filename)
		if err != nil {
			c.stats.RecordFailure()
			log.Printf("watcher: %v", errors.NewIngestError(filename, err))
			return
		}

		if _, err := c.idx.Ingest(filepath.Base(filename), content); err != nil {
			if stderrors.Is(err, errors.ErrAlreadyPresent) {
				return
			}
			c.stats.RecordFailure()
			log.Printf("watcher: %v", errors.NewIngestError(filename, err))
			return
		}

		c.stats.RecordIngested(len(content))
	})
}
