package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change triggers a run.
const DefaultDebounce = 500 * time.Millisecond

// WatchConfig contains watcher settings.
type WatchConfig struct {
	Debounce  time.Duration // Delay after the last change before running
	Stability time.Duration // How long inputs must stay unchanged before a run; zero skips the check
	OnError   func(error)   // Receives fsnotify and stability errors; may be nil
}

// DefaultWatchConfig returns a WatchConfig with sensible defaults.
func DefaultWatchConfig() *WatchConfig {
	return &WatchConfig{
		Debounce: DefaultDebounce,
	}
}

// WatchSummary contains stats from the watch session.
type WatchSummary struct {
	Runs     int
	Failures int
	Duration time.Duration
}

// Handler runs the pipeline once. A returned error counts as a failed run.
type Handler func() error

// Watcher calls a Handler whenever one of a fixed set of files changes.
type Watcher struct {
	config    *WatchConfig
	handler   Handler
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	stability *StabilityChecker
	targets   map[string]struct{}
	files     []string
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	wg        sync.WaitGroup
	startTime time.Time

	// runMu serializes handler invocations.
	runMu sync.Mutex

	mu       sync.Mutex
	runs     int
	failures int
}

// New creates a new Watcher with the given configuration.
// If config is nil, default configuration is used.
func New(config *WatchConfig, handler Handler) *Watcher {
	if config == nil {
		config = DefaultWatchConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		config:  config,
		handler: handler,
		targets: make(map[string]struct{}),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	if config.Stability > 0 {
		w.stability = NewStabilityChecker(config.Stability)
	}
	w.debouncer = NewDebouncer(config.Debounce, w.runWhenStable)
	return w
}

// Start begins watching files. The parent directory of each file is watched
// so that editors replacing a file by rename are still observed.
// The watcher runs until Stop is called.
func (w *Watcher) Start(files []string) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dirs := make(map[string]struct{})
	for _, file := range files {
		absFile, err := filepath.Abs(file)
		if err != nil {
			fsWatcher.Close()
			return err
		}
		if _, seen := w.targets[absFile]; !seen {
			w.targets[absFile] = struct{}{}
			w.files = append(w.files, absFile)
		}

		dir := filepath.Dir(absFile)
		if _, seen := dirs[dir]; seen {
			continue
		}
		if err := fsWatcher.Add(dir); err != nil {
			fsWatcher.Close()
			return err
		}
		dirs[dir] = struct{}{}
	}

	w.fsWatcher = fsWatcher
	w.startTime = time.Now()
	w.done = make(chan struct{})

	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Stop shuts down the watcher, waits for an in-flight run, and returns a
// summary of the session.
func (w *Watcher) Stop() *WatchSummary {
	close(w.done)
	w.cancel()
	w.wg.Wait()
	w.debouncer.Cancel()

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}

	// Wait for a run that was already executing.
	w.runMu.Lock()
	w.runMu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	return &WatchSummary{
		Runs:     w.runs,
		Failures: w.failures,
		Duration: time.Since(w.startTime),
	}
}

// processEvents handles file system events from fsnotify.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.isRelevant(event) {
				w.debouncer.Trigger()
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		}
	}
}

// isRelevant reports whether event changes the content of a watched file.
func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.targets[name]
	return ok
}

// runWhenStable waits for every watched file to settle, then runs once.
// A missing file is left for the handler to report.
func (w *Watcher) runWhenStable() {
	if w.stability != nil {
		for _, file := range w.files {
			err := w.stability.WaitForStable(w.ctx, file)
			switch {
			case err == nil, errors.Is(err, ErrFileNotFound):
			case errors.Is(err, context.Canceled):
				return
			default:
				w.reportError(fmt.Errorf("%s: %w", file, err))
			}
		}
	}
	w.run()
}

func (w *Watcher) reportError(err error) {
	if w.config.OnError != nil {
		w.config.OnError(err)
	}
}

// run invokes the handler once and records the outcome.
func (w *Watcher) run() {
	select {
	case <-w.done:
		return
	default:
	}

	w.runMu.Lock()
	defer w.runMu.Unlock()

	var err error
	if w.handler != nil {
		err = w.handler()
	}

	w.mu.Lock()
	w.runs++
	if err != nil {
		w.failures++
	}
	w.mu.Unlock()
}

// RunNow invokes the handler immediately, outside the debounce delay.
func (w *Watcher) RunNow() {
	w.run()
}
