package aggregate

import (
	"context"
	"fmt"
	"sync"

	"github.com/hyperjump/ugcdrift/internal/watcher"
	"go.uber.org/zap"
)

// Watch re-runs the aggregation of dir whenever a score file there is written or removed, and
// reports each outcome to onRun. It blocks until ctx is done.
func (a *Aggregator) Watch(ctx context.Context, dir string, onRun func(*Outputs, error), opts ...watcher.WatcherOption) error {
	var mu sync.Mutex
	rerun := func(paths []string) {
		mu.Lock()
		defer mu.Unlock()
		a.logger.Debug("score files changed", zap.Strings("paths", paths))
		out, err := a.Run(dir)
		if onRun != nil {
			onRun(out, err)
		}
	}
	opts = append([]watcher.WatcherOption{watcher.WithLogger(a.logger)}, opts...)
	w := watcher.NewWatcher(dir, ScoreFilePattern, rerun, opts...)
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	<-ctx.Done()
	w.Stop()
	return nil
}
