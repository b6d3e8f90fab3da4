package main

import (
	"fmt"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
	fsnotify "gopkg.in/fsnotify.v1"
)

// sourceWatcher marks sources stale when their files change. It watches the
// parent directories, so files replaced by rename keep being tracked.
type sourceWatcher struct {
	watcher *fsnotify.Watcher
	sources map[string]*source
	done    chan struct{}
	wg      sync.WaitGroup
}

func watchSources(sources []*source) (*sourceWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("cannot watch sources: %w", err)
	}

	sw := &sourceWatcher{
		watcher: w,
		sources: make(map[string]*source, len(sources)),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, s := range sources {
		sw.sources[s.path()] = s

		dir := filepath.Dir(s.path())
		if _, found := dirs[dir]; found {
			continue
		}

		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("cannot watch directory of source %s: %w", s.path(), err)
		}
		dirs[dir] = struct{}{}
	}

	sw.wg.Add(1)
	go sw.run()

	return sw, nil
}

func (sw *sourceWatcher) run() {
	defer sw.wg.Done()

	for {
		select {
		case <-sw.done:
			return
		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			sw.handle(ev)
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("source watcher: %v", err)
		}
	}
}

func (sw *sourceWatcher) handle(ev fsnotify.Event) {
	s, found := sw.sources[filepath.Clean(ev.Name)]
	if !found {
		return
	}

	log.WithField("source", ev.Name).Debugf("source changed (%s)", ev.Op)
	s.invalidate()
}

// Close stops watching and waits for the event loop to exit.
func (sw *sourceWatcher) Close() error {
	close(sw.done)
	err := sw.watcher.Close()
	sw.wg.Wait()

	return err
}
