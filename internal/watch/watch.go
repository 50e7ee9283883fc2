// Package watch reports changes to a single file.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of events an editor produces on save.
const DefaultDebounce = 150 * time.Millisecond

// Op is the kind of change observed.
type Op int

const (
	// Modified means the file was written in place.
	Modified Op = iota
	// Created means the file was created or replaced.
	Created
)

func (o Op) String() string {
	if o == Created {
		return "created"
	}
	return "modified"
}

// Event is a change to the watched file.
type Event struct {
	Path string
	Op   Op
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long events are coalesced before one is emitted.
// Zero emits every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithErrorHandler receives errors reported by the underlying watcher.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// Watcher watches the parent directory of one file so that atomic
// replacements are observed too.
type Watcher struct {
	fs       *fsnotify.Watcher
	path     string
	debounce time.Duration
	onError  func(error)
}

// New starts watching path.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	w := &Watcher{fs: fw, path: abs, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run emits events until ctx is done or the watcher is closed. The
// returned channel is closed when Run stops.
func (w *Watcher) Run(ctx context.Context) <-chan Event {
	events := make(chan Event, 1)

	go func() {
		defer close(events)
		var (
			pending *Event
			timer   *time.Timer
			fire    <-chan time.Time
		)
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		send := func(ev Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-w.fs.Events:
				if !ok {
					return
				}
				ev, match := w.filter(raw)
				if !match {
					continue
				}
				if w.debounce <= 0 {
					if !send(ev) {
						return
					}
					continue
				}
				if pending == nil {
					pending = &ev
				} else if ev.Op == Created {
					pending.Op = Created
				}
				if timer == nil {
					timer = time.NewTimer(w.debounce)
				} else {
					timer.Reset(w.debounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				if pending == nil {
					continue
				}
				ev := *pending
				pending = nil
				if !send(ev) {
					return
				}
			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				if w.onError != nil {
					w.onError(err)
				}
			}
		}
	}()

	return events
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) filter(raw fsnotify.Event) (Event, bool) {
	if filepath.Clean(raw.Name) != w.path {
		return Event{}, false
	}
	switch {
	case raw.Has(fsnotify.Create):
		return Event{Path: w.path, Op: Created}, true
	case raw.Has(fsnotify.Write):
		return Event{Path: w.path, Op: Modified}, true
	default:
		return Event{}, false
	}
}
