package tts

import "context"

// Synthesizer абстракция TTS. Метод воспроизводит речь и не возвращает контент.
// Ошибки синтеза/воспроизведения нефатальны: вызывающий деградирует к тексту.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) error
}

// Noop — синтезатор-пустышка для запуска без озвучки.
type Noop struct{}

func (Noop) Synthesize(context.Context, string) error { return nil }
