package assets

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/urdfviz/engine/core"
)

// Watcher reports changes to one file. fsnotify watches the parent directory
// so editors that replace the file on save are still seen.
type Watcher struct {
	path     string
	fsnotify *fsnotify.Watcher
	events   chan core.Event
	done     chan struct{}
	wg       sync.WaitGroup

	mutex    sync.Mutex
	isClosed bool
}

func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		fsnotify: fsWatch,
		events:   make(chan core.Event, 8),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

// Events delivers EVENT_CODE_DESCRIPTION_CHANGED for writes, creates and
// renames of the watched file. The channel is closed by Close.
func (w *Watcher) Events() <-chan core.Event {
	return w.events
}

// Poll returns the pending events without blocking.
func (w *Watcher) Poll() []core.Event {
	var out []core.Event
	for {
		select {
		case e, ok := <-w.events:
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

func (w *Watcher) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.isClosed {
		return errors.New("watcher already closed")
	}
	w.isClosed = true
	close(w.done)
	w.wg.Wait()
	return nil
}

func (w *Watcher) start() {
	defer w.wg.Done()
	defer close(w.events)
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			core.LogDebug("%s changed (%s)", e.Name, e.Op)
			select {
			case w.events <- core.Event{Code: core.EVENT_CODE_DESCRIPTION_CHANGED, Path: w.path}:
			default:
				// a notice is already pending
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}
