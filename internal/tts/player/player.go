package player

import (
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"

	"FocusGuard/internal/audioout"
)

// Player воспроизводит аудиопоток. Поддерживается только mp3 — его отдаёт TTS.
type Player interface {
	Play(r io.ReadCloser) error
}

// Default реализует Player поверх общего динамика.
type Default struct{}

func New() *Default { return &Default{} }

func (d *Default) Play(r io.ReadCloser) error {
	streamer, format, err := mp3.Decode(r)
	if err != nil {
		return err
	}
	defer streamer.Close()

	if err := audioout.Init(); err != nil {
		return err
	}

	// Динамик инициализирован один раз на общей частоте — ресемплируем под неё
	var stream beep.Streamer = streamer
	if format.SampleRate != audioout.SampleRate {
		stream = beep.Resample(4, format.SampleRate, audioout.SampleRate, streamer)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(stream, beep.Callback(func() { close(done) })))
	<-done
	return nil
}
