package janitor

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"narrated-slideshow/internal/logging"
)

// Janitor periodically deletes leftovers of runs that never reached cleanup:
// uploaded images and per-run audio directories older than maxAge.
type Janitor struct {
	dirs   []string
	maxAge time.Duration
	now    func() time.Time
	cron   *cron.Cron
	log    *zap.SugaredLogger
}

func New(maxAge time.Duration, log *zap.SugaredLogger, dirs ...string) *Janitor {
	return &Janitor{
		dirs:   dirs,
		maxAge: maxAge,
		now:    time.Now,
		log:    logging.OrNop(log),
	}
}

// Start schedules Sweep with a cron spec such as "@every 15m".
func (j *Janitor) Start(spec string) error {
	j.cron = cron.New()
	if _, err := j.cron.AddFunc(spec, func() { j.Sweep() }); err != nil {
		return err
	}
	j.cron.Start()
	j.log.Infof("[janitor] scheduled %q for %v", spec, j.dirs)
	return nil
}

// Stop halts the schedule and waits for a running sweep.
func (j *Janitor) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

// Sweep removes the direct entries of each directory whose modification time
// is older than maxAge and returns how many were removed.
func (j *Janitor) Sweep() int {
	cutoff := j.now().Add(-j.maxAge)
	removed := 0
	for _, dir := range j.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				j.log.Warnf("[janitor] read %s: %v", dir, err)
			}
			continue
		}
		for _, e := range entries {
			info, err := e.Info()
			if err != nil || !info.ModTime().Before(cutoff) {
				continue
			}
			p := filepath.Join(dir, e.Name())
			if err := os.RemoveAll(p); err != nil {
				j.log.Warnf("[janitor] remove %s: %v", p, err)
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		j.log.Infof("[janitor] removed %d stale entries", removed)
	}
	return removed
}
