package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fzorr369/KI-Use-Case-Demo/internal/anomaly"
	"github.com/fzorr369/KI-Use-Case-Demo/internal/dataset"
)

// Alerter raises an alert in the downstream maintenance system when a run
// flags indications. Satisfied by the APM client; nil disables alerting.
type Alerter interface {
	CreateAlert(ctx context.Context, triggeredOn time.Time, source string) error
}

// Loop periodically re-runs detection over a watched long-format dataset.
// The dataset is produced by the upstream conversion step; only re-reading is
// done here, never parsing of the raw reports.
type Loop struct {
	path     string
	interval time.Duration
	params   anomaly.Params
	alerter  Alerter
	logger   *zap.Logger
	metrics  *Metrics

	mu           sync.Mutex
	lastRun      time.Time
	lastWarnings int
}

// NewLoop builds a polling loop over the dataset at path.
func NewLoop(path string, interval time.Duration, params anomaly.Params, alerter Alerter, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		path:     path,
		interval: interval,
		params:   params,
		alerter:  alerter,
		logger:   logger,
	}
}

// LastRun reports when the loop last completed and how many warnings it saw.
func (l *Loop) LastRun() (time.Time, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastRun, l.lastWarnings
}

// Run polls until the context is cancelled. A failing cycle is logged and the
// loop keeps going; the next poll may see a repaired dataset.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("monitoring loop started",
		zap.String("dataset", l.path),
		zap.Duration("interval", l.interval))
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		l.cycle(ctx)
		select {
		case <-ctx.Done():
			l.logger.Info("monitoring loop stopped")
			return
		case <-ticker.C:
		}
	}
}

func (l *Loop) cycle(ctx context.Context) {
	t, err := dataset.LoadCSV(l.path)
	if err != nil {
		l.logger.Warn("dataset load failed", zap.String("path", l.path), zap.Error(err))
		if l.metrics != nil {
			l.metrics.RunFailures.Inc()
		}
		return
	}
	if len(t.Findings) > 0 {
		l.logger.Warn("values degraded to missing on ingest", zap.Int("count", len(t.Findings)))
	}
	res, err := anomaly.Detect(t, l.params)
	if err != nil {
		l.logger.Warn("detection failed", zap.Error(err))
		if l.metrics != nil {
			l.metrics.RunFailures.Inc()
		}
		return
	}
	l.mu.Lock()
	l.lastRun = time.Now()
	l.lastWarnings = len(res.Warnings)
	l.mu.Unlock()
	if l.metrics != nil {
		l.metrics.Runs.Inc()
		l.metrics.Warnings.Add(float64(len(res.Warnings)))
		l.metrics.LastWarnings.Set(float64(len(res.Warnings)))
	}
	l.logger.Info("detection cycle complete",
		zap.String("run_id", res.RunID),
		zap.Int("rows", res.Rows),
		zap.Int("warnings", len(res.Warnings)),
		zap.Int("partition_k", res.Partition.K),
		zap.Int("density_noise", res.Density.NoiseCount))

	if len(res.Warnings) > 0 && l.alerter != nil {
		if err := l.alerter.CreateAlert(ctx, time.Now(), "uscan/"+res.RunID); err != nil {
			l.logger.Warn("alert creation failed", zap.Error(err))
		}
	}
}
