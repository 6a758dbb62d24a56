// Package watch keeps an eye on the save directory and reports the unlocked
// maps every time the game rewrites the maps save.
package watch

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"oaredit/arrayprop"
	"oaredit/dupnames"
	"oaredit/tables"
	"oaredit/types"
)

// Event is one successful read of a maps save.
type Event struct {
	Path  string
	Maps  []string // short names where they follow the usual template
	Added []string // present now, absent in the previous event for the same file
}

type Watcher interface {
	Start(events chan<- *Event) error
	Stop()
}

// New watches dir for identifier's maps saves: the live {id}Maps.sav and its hashed duplicate.
func New(dir, identifier string, log hclog.Logger) Watcher {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &dir_watcher{
		dir: dir,
		files: map[string]bool{
			filepath.Join(dir, identifier+"Maps"+tables.SAVE_EXT): true,
			filepath.Join(dir, dupnames.Name(identifier, "Maps")): true,
		},
		settle: 2 * time.Second,
		last:   map[string][]string{},
		done:   make(chan struct{}),
		log:    log.Named("watch"),
	}
}

type dir_watcher struct {
	dir    string
	files  map[string]bool
	settle time.Duration // let the game finish writing before we read

	mu   sync.Mutex
	last map[string][]string

	// done is closed by Stop; pending reads give up instead of sending
	done      chan struct{}
	stop_once sync.Once

	watcher *fsnotify.Watcher
	log     hclog.Logger
}

func (dw *dir_watcher) Start(events chan<- *Event) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dw.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					if dw.files[filepath.Clean(event.Name)] {
						go dw.handle_file(filepath.Clean(event.Name), events)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				dw.log.Error("watcher error", "error", err)
			}
		}
	}()

	err = dw.watcher.Add(dw.dir)
	if err != nil {
		dw.watcher.Close()
	}
	return err
}

func (dw *dir_watcher) Stop() {
	dw.stop_once.Do(func() {
		close(dw.done)
		if dw.watcher != nil {
			dw.watcher.Close()
		}
	})
}

func (dw *dir_watcher) handle_file(path string, out chan<- *Event) {
	select {
	case <-time.After(dw.settle):
	case <-dw.done:
		return
	}

	ev, err := dw.read(path)
	if err != nil {
		dw.log.Warn("could not read maps save", "path", path, "error", err)
		return
	}
	if ev == nil {
		return
	}
	select {
	case out <- ev:
	case <-dw.done:
	}
}

// read decodes path and diffs against the previous read.  A nil event means
// nothing changed since last time.
func (dw *dir_watcher) read(path string) (*Event, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	prop, err := arrayprop.Decode(blob, tables.MAPS_TAG)
	if err != nil {
		return nil, err
	}

	ev := &Event{Path: path}
	for _, e := range prop.Elements {
		name, _ := types.ShortMapName(e)
		ev.Maps = append(ev.Maps, name)
	}

	dw.mu.Lock()
	defer dw.mu.Unlock()
	prev, seen := dw.last[path]
	if seen && slices.Equal(prev, ev.Maps) {
		return nil, nil
	}
	for _, m := range ev.Maps {
		if seen && !slices.Contains(prev, m) {
			ev.Added = append(ev.Added, m)
		}
	}
	dw.last[path] = ev.Maps
	return ev, nil
}
