package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"FocusGuard/internal/classify"
	"FocusGuard/internal/clock"
	"FocusGuard/internal/metrics"
)

// Runner периодически опрашивает источник классификации и скармливает события
// своей машине. Каждый монитор владеет собственным тикером и горутиной —
// несколько мониторов работают одновременно и не ждут друг друга.
type Runner struct {
	name     string
	src      classify.Source
	machine  *Machine
	interval time.Duration
	clk      clock.Clock
	logger   *zap.SugaredLogger
}

func NewRunner(name string, src classify.Source, machine *Machine, interval time.Duration, clk clock.Clock, logger *zap.SugaredLogger) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	return &Runner{name: name, src: src, machine: machine, interval: interval, clk: clk, logger: logger}
}

// Run блокирует до отмены контекста. Ошибка предсказания пропускает тик:
// предыдущее состояние сохраняется, счётчики гистерезиса не сбрасываются.
// На любом пути выхода машина останавливается, что гасит её канал тревоги.
func (r *Runner) Run(ctx context.Context) error {
	r.machine.Start()
	defer r.machine.Stop()

	t := r.clk.NewTicker(r.interval)
	defer t.Stop()

	r.logger.Infow("Monitor started", "monitor", r.name, "interval", r.interval.String())
	for {
		select {
		case <-ctx.Done():
			r.logger.Infow("Monitor stopped", "monitor", r.name, "reason", context.Cause(ctx))
			return context.Cause(ctx)
		case <-t.C():
			ev, err := r.src.Predict(ctx)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				metrics.SkippedTicks.WithLabelValues(r.name).Inc()
				if r.logger != nil {
					r.logger.Debugw("Classification tick skipped", "monitor", r.name, "error", err)
				}
				continue
			}
			metrics.ClassificationTicks.WithLabelValues(r.name, string(ev.Label)).Inc()
			r.machine.Observe(ev)
		}
	}
}
