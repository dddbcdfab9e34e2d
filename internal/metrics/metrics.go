package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// ClassificationTicks — события классификации по мониторам и меткам.
	ClassificationTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focusguard_classification_ticks_total",
		Help: "Classification events consumed, by monitor and label.",
	}, []string{"monitor", "label"})

	// SkippedTicks — тики, пропущенные из-за ошибки классификатора.
	SkippedTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focusguard_skipped_ticks_total",
		Help: "Polling ticks skipped because the classifier failed.",
	}, []string{"monitor"})

	// AlarmActivations — срабатывания тревоги по мониторам.
	AlarmActivations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "focusguard_alarm_activations_total",
		Help: "Alarm activations, by monitor.",
	}, []string{"monitor"})

	// CompletionFailures — ошибки сервиса дополнений (чат-коуч).
	CompletionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "focusguard_completion_failures_total",
		Help: "Failed completion service calls answered with the fallback reply.",
	})

	// StoreFailures — неудачные записи в хранилище.
	StoreFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "focusguard_store_failures_total",
		Help: "Failed persistence writes.",
	})
)

// Serve поднимает /metrics на addr и живёт до отмены контекста.
func Serve(ctx context.Context, addr string, logger *zap.SugaredLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infow("Metrics server started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorw("Metrics server failed", "error", err)
	}
}
