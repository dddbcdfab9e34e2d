package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"FocusGuard/internal/clock"
)

// Timer — независимый обратный отсчёт фокус-сессии. Живёт на собственном
// тикере в собственной горутине и не делит изменяемое состояние с мониторами:
// их каденции не синхронизированы намеренно.
type Timer struct {
	clk    clock.Clock
	logger *zap.SugaredLogger

	// OnTick вызывается раз в прошедшую секунду, пока таймер не на паузе.
	onTick func(remaining time.Duration)
	// OnComplete вызывается ровно один раз, когда остаток доходит до нуля.
	onComplete func()

	mu        sync.Mutex
	total     time.Duration
	remaining time.Duration
	paused    bool
	running   bool
	stopCh    chan struct{}
}

func NewTimer(clk clock.Clock, logger *zap.SugaredLogger, onTick func(time.Duration), onComplete func()) *Timer {
	return &Timer{clk: clk, logger: logger, onTick: onTick, onComplete: onComplete}
}

// Start запускает отсчёт. Повторный вызов при живом таймере игнорируется.
func (t *Timer) Start(total time.Duration) {
	if total <= 0 {
		return
	}
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.paused = false
	t.total = total
	t.remaining = total
	t.stopCh = make(chan struct{})
	stopCh := t.stopCh
	t.mu.Unlock()

	t.logger.Infow("Session timer started", "total", total.String())
	go t.run(stopCh)
}

// Pause замораживает отсчёт, не сбрасывая остаток.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running || t.paused {
		return
	}
	t.paused = true
}

// Resume продолжает отсчёт.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running || !t.paused {
		return
	}
	t.paused = false
}

// Stop прерывает отсчёт без сигнала завершения. Идемпотентно.
func (t *Timer) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	close(t.stopCh)
	t.mu.Unlock()
}

// Remaining возвращает остаток и признак паузы.
func (t *Timer) Remaining() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining, t.paused
}

func (t *Timer) run(stopCh chan struct{}) {
	ticker := t.clk.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C():
			t.mu.Lock()
			if !t.running {
				t.mu.Unlock()
				return
			}
			if t.paused {
				t.mu.Unlock()
				continue
			}
			t.remaining -= time.Second
			if t.remaining < 0 {
				t.remaining = 0
			}
			remaining := t.remaining
			finished := remaining == 0
			if finished {
				// Терминальное состояние: завершение сигналим ровно один раз
				t.running = false
			}
			t.mu.Unlock()

			if t.onTick != nil {
				t.onTick(remaining)
			}
			if finished {
				t.logger.Infow("Session complete", "total", t.total.String())
				if t.onComplete != nil {
					t.onComplete()
				}
				return
			}
		}
	}
}
