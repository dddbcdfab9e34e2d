package alarm

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"FocusGuard/internal/clock"
)

// Params описывает один цикл тревоги канала.
type Params struct {
	FrequencyHz   int
	ToneDuration  time.Duration // длительность одного тона
	ToneGap       time.Duration // пауза между тонами внутри серии
	ToneCount     int           // тонов в серии; 1 — непрерывный канал
	CyclePause    time.Duration // пауза после серии до следующего цикла
	VolumePercent int
}

// Sequencer — один канал тревоги. Цикл серий тонов повторяется до Stop.
// Следующий цикл планируется только после завершения текущей серии, поэтому
// интервалы «не меньше N», а не строго периодические — дрожание проигрывания
// не накапливается.
type Sequencer struct {
	emitter Emitter
	clk     clock.Clock
	logger  *zap.SugaredLogger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewSequencer(emitter Emitter, clk clock.Clock, logger *zap.SugaredLogger) *Sequencer {
	return &Sequencer{emitter: emitter, clk: clk, logger: logger}
}

// Start запускает повторяющийся цикл тревоги. Идемпотентно: если канал уже
// звучит, повторный вызов ничего не делает — два цикла наложиться не могут,
// это гарантирует флаг running, а не только отмена таймера.
func (s *Sequencer) Start(params Params) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.running = true
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go s.loop(ctx, params, done)
}

// Stop отменяет запланированное продолжение и помечает канал неактивным.
// Идемпотентно и безопасно, когда канал не звучит. Дожидается выхода цикла,
// чтобы немедленный рестарт не дал двух логических тревог.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	cancel()
	<-done
}

// IsRunning сообщает текущий статус канала без побочных эффектов.
func (s *Sequencer) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Sequencer) loop(ctx context.Context, params Params, done chan struct{}) {
	defer close(done)

	count := params.ToneCount
	if count <= 0 {
		count = 1
	}

	warned := false
	for {
		for i := 0; i < count; i++ {
			err := s.emitter.Emit(ctx, params.ToneDuration, params.FrequencyHz, params.VolumePercent)
			switch {
			case err == nil:
			case errors.Is(err, ErrAudioUnavailable):
				// Звука нет — канал логически звучит, но молчит. Один warn, не спамим.
				if !warned {
					s.logger.Warnw("Alarm tone unavailable, continuing silently", "error", err)
					warned = true
				}
				if !s.sleep(ctx, params.ToneDuration) {
					return
				}
			default:
				if ctx.Err() != nil {
					return
				}
				s.logger.Warnw("Alarm tone failed", "error", err)
			}
			if i < count-1 && !s.sleep(ctx, params.ToneGap) {
				return
			}
		}
		if !s.sleep(ctx, params.CyclePause) {
			return
		}
	}
}

func (s *Sequencer) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-s.clk.After(d):
		return true
	}
}
