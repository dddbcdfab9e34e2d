package alarm

import (
	"context"
	"fmt"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"

	"FocusGuard/internal/audioout"
)

// ErrAudioUnavailable возвращается, когда звуковой выход не удалось создать.
// Вызывающие обязаны трактовать это как нефатальную ошибку и продолжать молча.
var ErrAudioUnavailable = audioout.ErrUnavailable

// Emitter воспроизводит один тон заданных параметров и завершает вызов,
// когда тон отзвучал. Каждый вызов — независимый звуковой юнит; параллельные
// вызовы смешиваются микшером и не делят состояние.
type Emitter interface {
	Emit(ctx context.Context, duration time.Duration, frequencyHz int, volumePercent int) error
}

// SpeakerEmitter — Emitter поверх общего динамика.
type SpeakerEmitter struct{}

func NewSpeakerEmitter() *SpeakerEmitter { return &SpeakerEmitter{} }

func (e *SpeakerEmitter) Emit(ctx context.Context, duration time.Duration, frequencyHz int, volumePercent int) error {
	if err := audioout.Init(); err != nil {
		return err
	}

	tone, err := generators.SinTone(audioout.SampleRate, frequencyHz)
	if err != nil {
		return fmt.Errorf("sine tone %d Hz: %w", frequencyHz, err)
	}

	vol := &effects.Volume{
		Streamer: beep.Take(audioout.SampleRate.N(duration), tone),
		Base:     2,
		Volume:   volumeDB(volumePercent),
		Silent:   volumePercent <= 0,
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(vol, beep.Callback(func() { close(done) })))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// volumeDB переводит проценты 0-100 в дБ: 100 — без изменений, 0 — -20 дБ.
func volumeDB(percent int) float64 {
	v := max(0, min(100, percent))
	return float64(v-100) / 5.0
}
