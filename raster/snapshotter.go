package raster

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
)

// Snapshotter writes numbered snapshots of the in-progress image from
// background workers. Each call gets its own stable copy of the buffer, so
// workers never race the placement loop; the loop never waits on encoding.
type Snapshotter struct {
	dir    string
	format string
	logger golog.Logger

	next     int
	inFlight atomic.Int32

	mu   sync.Mutex
	errs []error

	activeBackgroundWorkers sync.WaitGroup
}

// NewSnapshotter creates the output directory and returns a snapshotter that
// writes snapshot-<n>.<format> files with n monotone from 0.
func NewSnapshotter(dir, format string, logger golog.Logger) (*Snapshotter, error) {
	switch format {
	case "png", "ppm", "qoi":
	default:
		return nil, errors.Errorf("unknown snapshot format %q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating snapshot directory %s", dir)
	}
	return &Snapshotter{dir: dir, format: format, logger: logger}, nil
}

// Snapshot writes the image on a background worker and returns immediately.
// The caller must hand over a copy it will no longer mutate. Write failures
// are logged and collected; they never abort the run.
func (s *Snapshotter) Snapshot(img image.Image) {
	n := s.next
	s.next++
	path := filepath.Join(s.dir, fmt.Sprintf("snapshot-%d.%s", n, s.format))

	s.inFlight.Inc()
	s.activeBackgroundWorkers.Add(1)
	goutils.ManagedGo(func() {
		defer s.inFlight.Dec()
		if err := WriteFile(path, img); err != nil {
			s.logger.Errorw("snapshot write failed", "path", path, "error", err)
			s.mu.Lock()
			s.errs = append(s.errs, err)
			s.mu.Unlock()
			return
		}
		s.logger.Debugf("wrote %s", path)
	}, s.activeBackgroundWorkers.Done)
}

// InFlight returns how many snapshot writes are still running.
func (s *Snapshotter) InFlight() int {
	return int(s.inFlight.Load())
}

// Close waits for outstanding writes and reports any that failed.
func (s *Snapshotter) Close() error {
	s.activeBackgroundWorkers.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return multierr.Combine(s.errs...)
}
