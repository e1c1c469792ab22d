package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// PolicyWatcher reloads the policy file into a PolicyStore when it changes.
// Invalid edits are logged and ignored; the previous policy stays active.
type PolicyWatcher struct {
	path     string
	store    *PolicyStore
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewPolicyWatcher starts watching path. The directory is watched rather than the
// file so editors that replace the file on save are still picked up.
func NewPolicyWatcher(path string, store *PolicyStore, logger *zap.Logger) (*PolicyWatcher, error) {
	if path == "" {
		return nil, fmt.Errorf("policy file path is empty")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}

	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &PolicyWatcher{
		path:     abs,
		store:    store,
		logger:   logger,
		watcher:  fsWatcher,
		debounce: 250 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	go w.watchLoop()

	logger.Info("Policy hot reloading enabled", zap.String("file", abs))
	return w, nil
}

// watchLoop monitors for file changes and triggers reloads
func (w *PolicyWatcher) watchLoop() {
	defer close(w.doneCh)
	defer w.watcher.Close()

	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			w.logger.Debug("Policy file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Policy watcher error", zap.Error(err))

		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return
		}
	}
}

// reload parses the file and swaps it in
func (w *PolicyWatcher) reload() {
	policy, err := LoadPolicy(w.path)
	if err != nil {
		w.logger.Error("Invalid policy after change, keeping previous", zap.Error(err))
		return
	}

	if err := w.store.Replace(policy); err != nil {
		w.logger.Error("Policy rejected", zap.Error(err))
		return
	}

	w.logger.Info("Policy reloaded",
		zap.Int("archetype_denominator", policy.Insights.ArchetypeDenominator),
		zap.Int("streak_cap", policy.Insights.StreakCap),
		zap.Int("patterns", len(policy.Insights.Patterns)),
	)
}

// Stop stops watching and waits for the loop to exit
func (w *PolicyWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
	})
}
