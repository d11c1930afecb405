// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package watcher observes a shader directory and produces debounced,
// polled change events.
//
// A background goroutine receives filesystem notifications and resets a
// per-path timer on each one. When a path has been quiet for the debounce
// window a single Event is appended to a bounded queue. The render loop
// drains that queue with Poll, which never blocks. The watcher never touches
// GPU state.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Defaults.
const (
	DefaultDebounce  = 5 * time.Second
	DefaultQueueSize = 16
)

// ErrClosed is returned when operating on a closed watcher.
var ErrClosed = errors.New("watcher: closed")

// Event is one coalesced change of a watched file.
type Event struct {
	// Name is the file stem relative to the watched root, e.g. "compute".
	Name string

	// Path is the absolute path of the file.
	Path string

	// Time is when the debounce window elapsed.
	Time time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period a path must observe before an event is
// queued. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithQueueSize bounds the number of pending events.
func WithQueueSize(n int) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.queueSize = n
		}
	}
}

// WithExtensions restricts events to files with one of the given extensions.
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		w.exts = make(map[string]bool, len(exts))
		for _, ext := range exts {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			w.exts[strings.ToLower(ext)] = true
		}
	}
}

type pending struct {
	timer *time.Timer
	seq   uint64
}

// Watcher watches one directory (non-recursively).
type Watcher struct {
	root      string
	debounce  time.Duration
	queueSize int
	exts      map[string]bool

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	timers  map[string]*pending
	seq     uint64
	queue   []Event
	queued  map[string]bool
	dropped int
	closed  bool

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New starts watching root.
func New(root string, opts ...Option) (*Watcher, error) {
	w := newWatcher(root, opts...)
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watcher: resolve %q: %w", root, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	w.root = abs

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	if err := fsw.Add(abs); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watcher: watch %q: %w", abs, err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.run()

	slogger().Info("watcher: started", "root", abs, "debounce", w.debounce)
	return w, nil
}

// newWatcher builds a watcher without a filesystem backend.
func newWatcher(root string, opts ...Option) *Watcher {
	w := &Watcher{
		root:      filepath.Clean(root),
		debounce:  DefaultDebounce,
		queueSize: DefaultQueueSize,
		exts:      map[string]bool{".wgsl": true},
		timers:    make(map[string]*pending),
		queued:    make(map[string]bool),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Root returns the absolute watched directory.
func (w *Watcher) Root() string { return w.root }

// Debounce returns the debounce window.
func (w *Watcher) Debounce() time.Duration { return w.debounce }

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.notify(ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slogger().Warn("watcher: fsnotify error", "err", err)
		}
	}
}

// notify records a change of path and (re)starts its debounce timer.
func (w *Watcher) notify(path string) {
	name, abs, ok := w.resolve(path)
	if !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.seq++
	seq := w.seq
	if p, ok := w.timers[abs]; ok {
		p.timer.Stop()
	}
	w.timers[abs] = &pending{
		seq:   seq,
		timer: time.AfterFunc(w.debounce, func() { w.fire(abs, name, seq) }),
	}
}

// resolve maps a notified path to its stem name relative to the root.
func (w *Watcher) resolve(path string) (name, abs string, ok bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return "", "", false
	}
	ext := strings.ToLower(filepath.Ext(base))
	if len(w.exts) > 0 && !w.exts[ext] {
		return "", "", false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		slogger().Debug("watcher: dropping unresolvable path", "path", path, "err", err)
		return "", "", false
	}
	rel, err := filepath.Rel(w.root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		slogger().Debug("watcher: dropping path outside root", "path", path, "root", w.root)
		return "", "", false
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel)), abs, true
}

// fire queues the event for path unless a newer notification superseded it.
func (w *Watcher) fire(abs, name string, seq uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.timers[abs]
	if !ok || p.seq != seq || w.closed {
		return
	}
	delete(w.timers, abs)

	if w.queued[abs] {
		return
	}
	if len(w.queue) >= w.queueSize {
		w.dropped++
		slogger().Warn("watcher: queue full, dropping change", "name", name, "path", abs)
		return
	}
	w.queue = append(w.queue, Event{Name: name, Path: abs, Time: time.Now()})
	w.queued[abs] = true
	slogger().Debug("watcher: change queued", "name", name)
}

// Poll returns the oldest pending event. It never blocks.
func (w *Watcher) Poll() (Event, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return Event{}, false
	}
	ev := w.queue[0]
	w.queue[0] = Event{}
	w.queue = w.queue[1:]
	delete(w.queued, ev.Path)
	return ev, true
}

// Pending returns the number of queued events.
func (w *Watcher) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// Dropped returns the number of events dropped because the queue was full.
func (w *Watcher) Dropped() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dropped
}

// Close stops the watcher. Pending timers are cancelled; queued events can
// still be polled. Close is idempotent.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		for abs, p := range w.timers {
			p.timer.Stop()
			delete(w.timers, abs)
		}
		w.mu.Unlock()

		close(w.done)
		if w.fsw != nil {
			err = w.fsw.Close()
		}
		w.wg.Wait()
	})
	return err
}
