// FILE: spicex/watch.go

package spicex

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchOptions configures hot-reload behavior.
type WatchOptions struct {
	// Debounce is how long a file must stay quiet after a filesystem event
	// before its layer is reloaded. Rapid successive writes coalesce into
	// one reload.
	Debounce time.Duration
}

// DefaultWatchOptions returns the standard watch configuration.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		Debounce: DefaultDebounce,
	}
}

// ChangeEvent describes one successful reload, delivered to change
// callbacks after the layer tree has been swapped.
type ChangeEvent struct {
	// Source is the path of the file whose layer was reloaded.
	Source string

	// Settings is the fully merged configuration after the reload.
	Settings map[string]any
}

// OnConfigChange registers a callback invoked after each successful reload.
// Callbacks run sequentially on the coordinator goroutine; a slow callback
// delays later reloads rather than racing them.
func (c *Config) OnConfigChange(fn func(ChangeEvent)) {
	c.mu.Lock()
	c.onChange = append(c.onChange, fn)
	c.mu.Unlock()
}

// OnReloadError registers a callback invoked when a reload fails. The
// failed layer keeps serving its previous tree.
func (c *Config) OnReloadError(fn func(error)) {
	c.mu.Lock()
	c.onError = append(c.onError, fn)
	c.mu.Unlock()
}

// WatchConfig starts watching every file-backed layer for changes with
// default options. Edits, atomic replace-by-rename, and re-creation of a
// watched file all trigger a debounced reload of that file's layer only.
func (c *Config) WatchConfig() error {
	return c.WatchConfigWithOptions(DefaultWatchOptions())
}

// WatchConfigWithOptions starts watching with explicit options. Calling it
// while a watcher is already running is a no-op.
func (c *Config) WatchConfigWithOptions(opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	c.mu.Lock()
	if c.watcher != nil {
		c.mu.Unlock()
		return nil
	}
	var files []*FileLayer
	for _, l := range c.layers {
		if fl, ok := l.(*FileLayer); ok {
			files = append(files, fl)
		}
	}
	c.mu.Unlock()

	w, err := newWatcher(c, opts, files)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()
	return nil
}

// StopWatching tears the watcher down. On return no callback is running and
// none will run afterwards.
func (c *Config) StopWatching() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		w.stop()
	}
}

// IsWatching reports whether a watcher is currently running.
func (c *Config) IsWatching() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.watcher != nil
}

// watcher coordinates filesystem events into layer reloads. All reloads and
// callbacks run on a single goroutine, so observers never see interleaved
// notifications.
type watcher struct {
	cfg  *Config
	opts WatchOptions

	fsw   *fsnotify.Watcher
	files map[string]*FileLayer // absolute path -> layer

	mu       sync.Mutex
	timers   map[string]*time.Timer
	reloadCh chan string
	done     chan struct{}
	wg       sync.WaitGroup
}

func newWatcher(c *Config, opts WatchOptions, files []*FileLayer) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &watcher{
		cfg:      c,
		opts:     opts,
		fsw:      fsw,
		files:    make(map[string]*FileLayer, len(files)),
		timers:   make(map[string]*time.Timer),
		reloadCh: make(chan string, 16),
		done:     make(chan struct{}),
	}

	// Watch the containing directories rather than the files themselves so
	// atomic replace-by-rename and re-creation keep generating events.
	dirs := make(map[string]struct{})
	for _, fl := range files {
		abs, err := filepath.Abs(fl.Path())
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = fl
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// run is the coordinator loop. Filesystem events arm per-file debounce
// timers; timer expiry feeds reloadCh; reloads and callbacks execute here.
func (w *watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, watched := w.files[abs]; !watched {
				continue
			}
			w.armTimer(abs)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.notifyError(err)

		case path := <-w.reloadCh:
			w.reload(path)
		}
	}
}

// armTimer resets the debounce timer for one file. Each event during the
// quiet period pushes the reload further out.
func (w *watcher) armTimer(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.opts.Debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.opts.Debounce, func() {
		select {
		case w.reloadCh <- path:
		case <-w.done:
		}
	})
}

func (w *watcher) reload(path string) {
	layer := w.files[path]
	if layer == nil {
		return
	}

	if err := layer.Reload(); err != nil {
		w.notifyError(&ReloadError{Source: path, Err: err})
		return
	}

	w.cfg.mu.RLock()
	callbacks := make([]func(ChangeEvent), len(w.cfg.onChange))
	copy(callbacks, w.cfg.onChange)
	w.cfg.mu.RUnlock()

	if len(callbacks) == 0 {
		return
	}
	ev := ChangeEvent{
		Source:   path,
		Settings: w.cfg.AllSettings(),
	}
	for _, fn := range callbacks {
		fn(ev)
	}
}

func (w *watcher) notifyError(err error) {
	w.cfg.mu.RLock()
	callbacks := make([]func(error), len(w.cfg.onError))
	copy(callbacks, w.cfg.onError)
	w.cfg.mu.RUnlock()

	for _, fn := range callbacks {
		fn(err)
	}
}

// stop shuts the coordinator down and waits for it to exit, so no callback
// runs after stop returns.
func (w *watcher) stop() {
	close(w.done)
	w.fsw.Close()
	w.wg.Wait()

	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = nil
	w.mu.Unlock()
}
