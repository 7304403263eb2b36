// Package watch reports filesystem changes below the added roots.
package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/temirov/ctxdrop/internal/utils"
)

// DefaultDebounce is how long the watcher waits for more events before reporting a change.
const DefaultDebounce = 250 * time.Millisecond

const (
	createWatcherErrorFormat  = "create fsnotify watcher: %w"
	watchDirectoryErrorFormat = "watch %s: %w"
	walkDirectoryErrorFormat  = "walk %s: %w"
	logMessageWatching        = "watching directory"
	logMessageWatchError      = "watcher error"
	logMessageForgotten       = "stopped watching directory"
	logFieldDirectory         = "directory"
	changeChannelCapacity     = 1
)

// ErrClosed is returned when watching after Close.
var ErrClosed = errors.New("watcher closed")

// Change lists the paths touched during one debounce window, sorted.
type Change struct {
	Paths []string
}

// Watcher coalesces fsnotify events for a set of directory trees into Change values.
type Watcher struct {
	fsWatcher   *fsnotify.Watcher
	logger      *zap.Logger
	debounce    time.Duration
	changes     chan Change
	stopChannel chan struct{}
	mutex       sync.Mutex
	watched     map[string]struct{}
	closed      bool
	done        sync.WaitGroup
}

// New creates a watcher. A zero debounce selects DefaultDebounce.
func New(debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf(createWatcherErrorFormat, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	watcher := &Watcher{
		fsWatcher:   fsWatcher,
		logger:      utils.LoggerOrNop(logger),
		debounce:    debounce,
		changes:     make(chan Change, changeChannelCapacity),
		stopChannel: make(chan struct{}),
		watched:     make(map[string]struct{}),
	}
	watcher.done.Add(1)
	go watcher.run()
	return watcher, nil
}

// Changes delivers coalesced changes. It is closed by Close.
func (watcher *Watcher) Changes() <-chan Change {
	return watcher.changes
}

// WatchTree watches root and every directory below it except .git.
// A file root watches its parent directory.
func (watcher *Watcher) WatchTree(root string) error {
	fileInfo, statError := os.Stat(root)
	if statError != nil {
		return fmt.Errorf(watchDirectoryErrorFormat, root, statError)
	}
	if !fileInfo.IsDir() {
		return watcher.watchDirectory(filepath.Dir(root))
	}
	walkError := filepath.WalkDir(root, func(path string, directoryEntry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !directoryEntry.IsDir() {
			return nil
		}
		if directoryEntry.Name() == utils.GitDirectoryName {
			return filepath.SkipDir
		}
		return watcher.watchDirectory(path)
	})
	if walkError != nil {
		return fmt.Errorf(walkDirectoryErrorFormat, root, walkError)
	}
	return nil
}

// Watched returns the watched directories, sorted.
func (watcher *Watcher) Watched() []string {
	watcher.mutex.Lock()
	defer watcher.mutex.Unlock()
	directories := make([]string, 0, len(watcher.watched))
	for directory := range watcher.watched {
		directories = append(directories, directory)
	}
	sort.Strings(directories)
	return directories
}

// Close stops the event loop and releases the fsnotify handle.
func (watcher *Watcher) Close() error {
	watcher.mutex.Lock()
	if watcher.closed {
		watcher.mutex.Unlock()
		return nil
	}
	watcher.closed = true
	watcher.mutex.Unlock()

	close(watcher.stopChannel)
	closeError := watcher.fsWatcher.Close()
	watcher.done.Wait()
	close(watcher.changes)
	return closeError
}

func (watcher *Watcher) watchDirectory(directory string) error {
	watcher.mutex.Lock()
	defer watcher.mutex.Unlock()
	if watcher.closed {
		return ErrClosed
	}
	if _, exists := watcher.watched[directory]; exists {
		return nil
	}
	if err := watcher.fsWatcher.Add(directory); err != nil {
		return fmt.Errorf(watchDirectoryErrorFormat, directory, err)
	}
	watcher.watched[directory] = struct{}{}
	watcher.logger.Debug(logMessageWatching, zap.String(logFieldDirectory, directory))
	return nil
}

func (watcher *Watcher) run() {
	defer watcher.done.Done()
	pending := make(map[string]struct{})
	timer := time.NewTimer(watcher.debounce)
	timer.Stop()

	for {
		select {
		case <-watcher.stopChannel:
			timer.Stop()
			return
		case event, ok := <-watcher.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Chmod) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
				watcher.forgetDirectory(event.Name)
			}
			if event.Op.Has(fsnotify.Create) {
				watcher.watchCreatedDirectory(event.Name)
			}
			if len(pending) == 0 {
				timer.Reset(watcher.debounce)
			}
			pending[event.Name] = struct{}{}
		case err, ok := <-watcher.fsWatcher.Errors:
			if !ok {
				return
			}
			watcher.logger.Warn(logMessageWatchError, zap.Error(err))
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			change := Change{Paths: make([]string, 0, len(pending))}
			for path := range pending {
				change.Paths = append(change.Paths, path)
			}
			sort.Strings(change.Paths)
			pending = make(map[string]struct{})
			watcher.deliver(change)
		}
	}
}

// deliver merges change into an undelivered one instead of blocking.
func (watcher *Watcher) deliver(change Change) {
	for {
		select {
		case watcher.changes <- change:
			return
		case <-watcher.stopChannel:
			return
		default:
		}
		select {
		case previous := <-watcher.changes:
			change = merge(previous, change)
		default:
		}
	}
}

func (watcher *Watcher) watchCreatedDirectory(path string) {
	fileInfo, statError := os.Lstat(path)
	if statError != nil || !fileInfo.IsDir() || fileInfo.Name() == utils.GitDirectoryName {
		return
	}
	if err := watcher.WatchTree(path); err != nil && !errors.Is(err, ErrClosed) {
		watcher.logger.Warn(logMessageWatchError, zap.Error(err))
	}
}

// forgetDirectory drops path and every watched directory below it so a
// directory recreated at the same path is watched again.
func (watcher *Watcher) forgetDirectory(path string) {
	watcher.mutex.Lock()
	defer watcher.mutex.Unlock()
	for directory := range watcher.watched {
		if !utils.IsWithin(directory, path) {
			continue
		}
		delete(watcher.watched, directory)
		_ = watcher.fsWatcher.Remove(directory)
		watcher.logger.Debug(logMessageForgotten, zap.String(logFieldDirectory, directory))
	}
}

func merge(first Change, second Change) Change {
	seen := make(map[string]struct{}, len(first.Paths)+len(second.Paths))
	merged := Change{}
	for _, path := range append(append([]string(nil), first.Paths...), second.Paths...) {
		if _, exists := seen[path]; exists {
			continue
		}
		seen[path] = struct{}{}
		merged.Paths = append(merged.Paths, path)
	}
	sort.Strings(merged.Paths)
	return merged
}
