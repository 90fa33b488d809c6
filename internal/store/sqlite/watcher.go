package sqlite

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher calls onChange after writes to the database file or its WAL,
// debounced so a burst of writes triggers a single reload.
type watcher struct {
	fs   *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func newWatcher(dbPath string, delay time.Duration, onChange func()) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: SQLite recreates the -wal and -shm files.
	if err := fw.Add(filepath.Dir(dbPath)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &watcher{fs: fw, done: make(chan struct{})}
	base := filepath.Base(dbPath)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		// Each scheduled timer holds a wg slot until it fires or is stopped,
		// so close also waits for a reload that is already running.
		var debounceTimer *time.Timer
		cancelTimer := func() {
			if debounceTimer != nil && debounceTimer.Stop() {
				w.wg.Done()
			}
		}
		defer cancelTimer()

		for {
			select {
			case <-w.done:
				return

			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if !relevant(event, base) {
					continue
				}

				cancelTimer()
				w.wg.Add(1)
				debounceTimer = time.AfterFunc(delay, func() {
					defer w.wg.Done()
					select {
					case <-w.done:
					default:
						onChange()
					}
				})

			case _, ok := <-fw.Errors:
				if !ok {
					return
				}
				// Keep watching; the next event triggers a full reload anyway.
			}
		}
	}()

	return w, nil
}

// relevant reports whether event touches the database or its WAL.
func relevant(event fsnotify.Event, base string) bool {
	name := filepath.Base(event.Name)
	if name != base && !strings.HasPrefix(name, base+"-wal") {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *watcher) close() {
	w.once.Do(func() {
		close(w.done)
		w.fs.Close()
		w.wg.Wait()
	})
}
